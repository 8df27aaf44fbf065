package domain

import "errors"

// ErrNilOrder is returned when routing is attempted without an order.
var ErrNilOrder = errors.New("nil order")

// ErrDecisionNotFound is returned when a journal lookup misses.
var ErrDecisionNotFound = errors.New("decision not found")
