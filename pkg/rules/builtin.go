package rules

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/tree"
)

// builtins returns the rule kinds shipped with espalier.
func builtins() map[string]Factory {
	return map[string]Factory{
		"symbol":       symbolRule,
		"side":         sideRule,
		"order_type":   orderTypeRule,
		"min_quantity": minQuantityRule,
		"max_quantity": maxQuantityRule,
		"price_range":  priceRangeRule,
		"time_window":  timeWindowRule,
		"tag":          tagRule,
	}
}

func symbolRule(params map[string]any) (Rule, error) {
	var p struct {
		Allow []string `mapstructure:"allow"`
	}
	if err := decodeParams("symbol", params, &p); err != nil {
		return Rule{}, err
	}
	if len(p.Allow) == 0 {
		return Rule{}, fmt.Errorf("symbol: %w: empty allow list", ErrInvalidParams)
	}

	allowed := make(map[string]struct{}, len(p.Allow))
	for _, s := range p.Allow {
		allowed[strings.ToUpper(s)] = struct{}{}
	}
	name := fmt.Sprintf("symbol(%s)", strings.Join(p.Allow, ","))
	return tree.NewRule(name, func(o *domain.Order) bool {
		_, ok := allowed[strings.ToUpper(o.Symbol)]
		return ok
	}), nil
}

func sideRule(params map[string]any) (Rule, error) {
	var p struct {
		Side string `mapstructure:"side"`
	}
	if err := decodeParams("side", params, &p); err != nil {
		return Rule{}, err
	}

	side := domain.Side(strings.ToLower(p.Side))
	if side != domain.SideBuy && side != domain.SideSell {
		return Rule{}, fmt.Errorf("side: %w: %q", ErrInvalidParams, p.Side)
	}
	return tree.NewRule("side("+string(side)+")", func(o *domain.Order) bool {
		return o.Side == side
	}), nil
}

func orderTypeRule(params map[string]any) (Rule, error) {
	var p struct {
		Types []string `mapstructure:"types"`
	}
	if err := decodeParams("order_type", params, &p); err != nil {
		return Rule{}, err
	}
	if len(p.Types) == 0 {
		return Rule{}, fmt.Errorf("order_type: %w: empty type list", ErrInvalidParams)
	}

	allowed := make(map[domain.OrderType]struct{}, len(p.Types))
	for _, t := range p.Types {
		allowed[domain.OrderType(strings.ToLower(t))] = struct{}{}
	}
	name := fmt.Sprintf("order_type(%s)", strings.Join(p.Types, ","))
	return tree.NewRule(name, func(o *domain.Order) bool {
		_, ok := allowed[o.Type]
		return ok
	}), nil
}

func minQuantityRule(params map[string]any) (Rule, error) {
	var p struct {
		Quantity int64 `mapstructure:"quantity"`
	}
	if err := decodeParams("min_quantity", params, &p); err != nil {
		return Rule{}, err
	}
	name := fmt.Sprintf("min_quantity(%d)", p.Quantity)
	return tree.NewRule(name, func(o *domain.Order) bool {
		return o.Quantity >= p.Quantity
	}), nil
}

func maxQuantityRule(params map[string]any) (Rule, error) {
	var p struct {
		Quantity int64 `mapstructure:"quantity"`
	}
	if err := decodeParams("max_quantity", params, &p); err != nil {
		return Rule{}, err
	}
	name := fmt.Sprintf("max_quantity(%d)", p.Quantity)
	return tree.NewRule(name, func(o *domain.Order) bool {
		return o.Quantity <= p.Quantity
	}), nil
}

// priceRangeRule matches limit orders whose price lies in [min, max].
// A max of zero leaves the range unbounded above. Market orders never match.
func priceRangeRule(params map[string]any) (Rule, error) {
	var p struct {
		Min float64 `mapstructure:"min"`
		Max float64 `mapstructure:"max"`
	}
	if err := decodeParams("price_range", params, &p); err != nil {
		return Rule{}, err
	}
	if p.Max != 0 && p.Max < p.Min {
		return Rule{}, fmt.Errorf("price_range: %w: max below min", ErrInvalidParams)
	}

	name := fmt.Sprintf("price_range(%g,%g)", p.Min, p.Max)
	return tree.NewRule(name, func(o *domain.Order) bool {
		if o.Type != domain.OrderTypeLimit {
			return false
		}
		if o.LimitPrice < p.Min {
			return false
		}
		return p.Max == 0 || o.LimitPrice <= p.Max
	}), nil
}

// timeWindowRule matches orders whose creation clock time falls in
// [start, end). A window with start after end wraps past midnight.
func timeWindowRule(params map[string]any) (Rule, error) {
	var p struct {
		Start string `mapstructure:"start"`
		End   string `mapstructure:"end"`
	}
	if err := decodeParams("time_window", params, &p); err != nil {
		return Rule{}, err
	}

	start, err := parseClock(p.Start)
	if err != nil {
		return Rule{}, fmt.Errorf("time_window: %w: start %q", ErrInvalidParams, p.Start)
	}
	end, err := parseClock(p.End)
	if err != nil {
		return Rule{}, fmt.Errorf("time_window: %w: end %q", ErrInvalidParams, p.End)
	}

	name := fmt.Sprintf("time_window(%s-%s)", p.Start, p.End)
	return tree.NewRule(name, func(o *domain.Order) bool {
		minute := o.CreatedAt.Hour()*60 + o.CreatedAt.Minute()
		if start <= end {
			return minute >= start && minute < end
		}
		return minute >= start || minute < end
	}), nil
}

func tagRule(params map[string]any) (Rule, error) {
	var p struct {
		Key   string `mapstructure:"key"`
		Value string `mapstructure:"value"`
	}
	if err := decodeParams("tag", params, &p); err != nil {
		return Rule{}, err
	}
	if p.Key == "" {
		return Rule{}, fmt.Errorf("tag: %w: missing key", ErrInvalidParams)
	}

	name := fmt.Sprintf("tag(%s=%s)", p.Key, p.Value)
	return tree.NewRule(name, func(o *domain.Order) bool {
		return o.Tags[p.Key] == p.Value
	}), nil
}

func parseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, err
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock out of range: %s", s)
	}
	return h*60 + m, nil
}
