package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
)

// PaymentResponse is the staff-facing payment projection.
type PaymentResponse struct {
	ID               uuid.UUID           `json:"id"`
	OrderID          uuid.UUID           `json:"order_id"`
	Status           enums.PaymentStatus `json:"status"`
	Method           enums.PaymentMethod `json:"method"`
	Amount           string              `json:"amount"`
	GatewayReference *string             `json:"gateway_reference,omitempty"`
	PaidAt           *time.Time          `json:"paid_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ToPaymentResponse projects a model into the response shape.
func ToPaymentResponse(payment *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               payment.ID,
		OrderID:          payment.OrderID,
		Status:           payment.Status,
		Method:           payment.Method,
		Amount:           payment.Amount.StringFixed(2),
		GatewayReference: payment.GatewayReference,
		PaidAt:           payment.PaidAt,
		CreatedAt:        payment.CreatedAt,
		UpdatedAt:        payment.UpdatedAt,
	}
}
