package enums

import "fmt"

// OrderStatus tracks the fulfillment lifecycle of a dine-in order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// forwardRank positions each status on the forward chain. Cancelled sits
// outside the chain and gets no rank.
var forwardRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusPreparing: 2,
	OrderStatusReady:     3,
	OrderStatusCompleted: 4,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusCompleted || o == OrderStatusCancelled
}

// CanTransitionTo reports whether target is reachable from o in a single
// step: one hop forward along the chain, or cancellation while the order has
// not reached ready.
func (o OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if target == OrderStatusCancelled {
		switch o {
		case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing:
			return true
		}
		return false
	}
	from, okFrom := forwardRank[o]
	to, okTo := forwardRank[target]
	if !okFrom || !okTo {
		return false
	}
	return to == from+1
}

// IsAtOrPast reports whether o has reached other on the forward chain.
// Cancelled never counts as having reached anything.
func (o OrderStatus) IsAtOrPast(other OrderStatus) bool {
	from, okFrom := forwardRank[o]
	to, okTo := forwardRank[other]
	if !okFrom || !okTo {
		return false
	}
	return from >= to
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
