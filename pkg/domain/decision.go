package domain

import "time"

// Decision records the result of routing one order. A decision with Routed
// set to false is the ordinary "no applicable venue" outcome, not an error;
// the caller applies its own fallback policy.
type Decision struct {
	OrderID   string    `json:"order_id"`
	Venue     string    `json:"venue,omitempty"`
	Routed    bool      `json:"routed"`
	DecidedAt time.Time `json:"decided_at"`
}
