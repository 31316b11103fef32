package enums

import "testing"

func TestOrderStatusForwardChain(t *testing.T) {
	chain := []OrderStatus{
		OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusPreparing,
		OrderStatusReady,
		OrderStatusCompleted,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !chain[i].CanTransitionTo(chain[i+1]) {
			t.Fatalf("expected %s -> %s to be legal", chain[i], chain[i+1])
		}
	}
	if OrderStatusPending.CanTransitionTo(OrderStatusReady) {
		t.Fatal("pending must not skip to ready")
	}
	if OrderStatusReady.CanTransitionTo(OrderStatusPreparing) {
		t.Fatal("backward transition must be rejected")
	}
	if OrderStatusCompleted.CanTransitionTo(OrderStatusConfirmed) {
		t.Fatal("terminal state must not transition")
	}
}

func TestOrderStatusCancellation(t *testing.T) {
	cancellable := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing}
	for _, status := range cancellable {
		if !status.CanTransitionTo(OrderStatusCancelled) {
			t.Fatalf("expected %s to be cancellable", status)
		}
	}
	for _, status := range []OrderStatus{OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled} {
		if status.CanTransitionTo(OrderStatusCancelled) {
			t.Fatalf("expected %s not to be cancellable", status)
		}
	}
}

func TestOrderStatusIsAtOrPast(t *testing.T) {
	if !OrderStatusReady.IsAtOrPast(OrderStatusConfirmed) {
		t.Fatal("ready should count as past confirmed")
	}
	if OrderStatusPending.IsAtOrPast(OrderStatusConfirmed) {
		t.Fatal("pending is before confirmed")
	}
	if OrderStatusCancelled.IsAtOrPast(OrderStatusConfirmed) {
		t.Fatal("cancelled is outside the forward chain")
	}
}
