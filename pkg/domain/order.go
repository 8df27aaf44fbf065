package domain

import "time"

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OrderType distinguishes market from priced orders.
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
)

// Order is the routing subject: a pending order waiting to be assigned a
// venue. The router never mutates it.
type Order struct {
	ID          string            `json:"id" yaml:"id"`
	Symbol      string            `json:"symbol" yaml:"symbol"`
	Side        Side              `json:"side" yaml:"side"`
	Type        OrderType         `json:"type" yaml:"type"`
	Quantity    int64             `json:"quantity" yaml:"quantity"`
	LimitPrice  float64           `json:"limit_price,omitempty" yaml:"limit_price,omitempty"`
	TimeInForce string            `json:"time_in_force,omitempty" yaml:"time_in_force,omitempty"`
	Tags        map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
}
