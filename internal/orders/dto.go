package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
)

// AdvanceStatusRequest is the staff-facing transition request body.
type AdvanceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreatePublicOrderItem is a guest-submitted order line.
type CreatePublicOrderItem struct {
	MenuItemID *uuid.UUID `json:"menu_item_id,omitempty"`
	Name       string     `json:"name" validate:"required,max=200"`
	UnitPrice  string     `json:"unit_price" validate:"required"`
	Quantity   int        `json:"quantity" validate:"required,min=1,max=100"`
	Notes      *string    `json:"notes,omitempty"`
}

// CreatePublicOrderRequest is the guest order intake body, keyed by the
// table's QR token rather than any authenticated identity.
type CreatePublicOrderRequest struct {
	QRCode        string                  `json:"qr_code" validate:"required"`
	CustomerName  string                  `json:"customer_name" validate:"required,max=120"`
	CustomerPhone *string                 `json:"customer_phone,omitempty"`
	Items         []CreatePublicOrderItem `json:"items" validate:"required,min=1,dive"`
	Notes         *string                 `json:"notes,omitempty"`
}

// OrderItemResponse mirrors a persisted order line.
type OrderItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
	Notes     *string   `json:"notes,omitempty"`
}

// OrderResponse is the staff-facing order projection.
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	TableID       *uuid.UUID          `json:"table_id,omitempty"`
	CustomerName  string              `json:"customer_name"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         string              `json:"total"`
	Notes         *string             `json:"notes,omitempty"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PublicOrderResponse is the guest-facing projection, trimmed to what a
// customer tracking their own order needs.
type PublicOrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	CustomerName  string              `json:"customer_name"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	Total         string              `json:"total"`
	Items         []OrderItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ListResponse wraps a page of orders.
type ListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

func toItemResponses(items []models.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItemResponse{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal.StringFixed(2),
			Notes:     item.Notes,
		})
	}
	return out
}

// ToOrderResponse projects a model into the staff response shape.
func ToOrderResponse(order *models.Order) OrderResponse {
	return OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		TableID:       order.TableID,
		CustomerName:  order.CustomerName,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total.StringFixed(2),
		Notes:         order.Notes,
		Items:         toItemResponses(order.Items),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToPublicOrderResponse projects a model into the guest response shape.
func ToPublicOrderResponse(order *models.Order) PublicOrderResponse {
	return PublicOrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total.StringFixed(2),
		Items:         toItemResponses(order.Items),
		CreatedAt:     order.CreatedAt,
	}
}

func sumItemSubtotals(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}
	return total
}
