package controllers

import (
	"net/http"
	"time"

	"github.com/mocharil/savora-backend/api/responses"
	"github.com/mocharil/savora-backend/api/validators"
	internalorders "github.com/mocharil/savora-backend/internal/orders"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/logger"
)

type publicStatusResponse struct {
	Status        enums.OrderStatus   `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// PublicCreateOrder is the guest intake endpoint. The table's QR token is
// the only credential.
func PublicCreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var body internalorders.CreatePublicOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreatePublic(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, internalorders.ToPublicOrderResponse(order))
	}
}

// PublicOrderStatus lets a guest poll their order by its UUID. The UUID
// itself is the capability; no session is required.
func PublicOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PublicStatus(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, publicStatusResponse{
			Status:        order.Status,
			PaymentStatus: order.PaymentStatus,
			UpdatedAt:     order.UpdatedAt,
		})
	}
}
