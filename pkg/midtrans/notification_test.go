package midtrans

import (
	"testing"

	"github.com/mocharil/savora-backend/pkg/enums"
)

func TestVerifySignature(t *testing.T) {
	const serverKey = "sk-test-123"
	n := Notification{
		OrderID:           "SV-20260831-0001",
		StatusCode:        "200",
		GrossAmount:       "125000.00",
		TransactionStatus: "settlement",
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)

	if !VerifySignature(n, serverKey) {
		t.Fatal("expected valid signature to verify")
	}

	n.SignatureKey = Signature(n.OrderID, n.StatusCode, "999999.00", serverKey)
	if VerifySignature(n, serverKey) {
		t.Fatal("expected tampered amount to fail verification")
	}

	n.SignatureKey = ""
	if VerifySignature(n, serverKey) {
		t.Fatal("expected empty signature to fail verification")
	}
}

func TestMapTransactionStatus(t *testing.T) {
	cases := map[string]enums.PaymentStatus{
		"capture":    enums.PaymentStatusPaid,
		"settlement": enums.PaymentStatusPaid,
		"pending":    enums.PaymentStatusPending,
		"deny":       enums.PaymentStatusFailed,
		"expire":     enums.PaymentStatusFailed,
		"cancel":     enums.PaymentStatusFailed,
		"refund":     enums.PaymentStatusPending,
		"":           enums.PaymentStatusPending,
	}
	for input, want := range cases {
		if got := MapTransactionStatus(input); got != want {
			t.Fatalf("MapTransactionStatus(%q) = %s, want %s", input, got, want)
		}
	}
}
