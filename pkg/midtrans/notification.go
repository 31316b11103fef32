package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/mocharil/savora-backend/pkg/enums"
)

// Notification is the payment notification body posted by the gateway.
// Midtrans sends amounts as strings, so GrossAmount stays untouched text
// both for signature input and logging.
type Notification struct {
	OrderID           string `json:"order_id" validate:"required"`
	StatusCode        string `json:"status_code" validate:"required"`
	GrossAmount       string `json:"gross_amount" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	TransactionID     string `json:"transaction_id"`
	TransactionTime   string `json:"transaction_time"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key" validate:"required"`
}

// Signature computes the expected signature for a notification:
// sha512 over the concatenation of order_id, status_code, gross_amount,
// and the merchant server key, hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks the notification's signature_key in constant time.
func VerifySignature(n Notification, serverKey string) bool {
	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}

// MapTransactionStatus translates a gateway transaction status into the
// platform payment status. Unknown statuses map to pending so late
// additions on the gateway side never flip a settled payment.
func MapTransactionStatus(transactionStatus string) enums.PaymentStatus {
	switch transactionStatus {
	case "capture", "settlement":
		return enums.PaymentStatusPaid
	case "deny", "expire", "cancel":
		return enums.PaymentStatusFailed
	case "pending":
		return enums.PaymentStatusPending
	default:
		return enums.PaymentStatusPending
	}
}
