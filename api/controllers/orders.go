package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/api/responses"
	"github.com/mocharil/savora-backend/api/validators"
	internalorders "github.com/mocharil/savora-backend/internal/orders"
	internalpayments "github.com/mocharil/savora-backend/internal/payments"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/logger"
)

const (
	ordersDefaultLimit = 20
	ordersMaxLimit     = 100
)

// OrdersList returns the authenticated store's orders, newest first.
func OrdersList(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", ordersDefaultLimit, 1, ordersMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := internalorders.ListFilter{Limit: limit, Offset: offset}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseOrderStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			filter.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("table_id")); raw != "" {
			tableID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid table_id filter"))
				return
			}
			filter.TableID = &tableID
		}

		rows, total, err := svc.List(r.Context(), internalorders.ListInput{
			StoreID: scope.StoreID,
			Filter:  filter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]internalorders.OrderResponse, 0, len(rows))
		for i := range rows {
			out = append(out, internalorders.ToOrderResponse(&rows[i]))
		}
		responses.WriteSuccess(w, internalorders.ListResponse{
			Orders: out,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		})
	}
}

// OrderDetail returns a single order after verifying store ownership.
func OrderDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Detail(r.Context(), internalorders.DetailInput{
			OrderID: orderID,
			StoreID: scope.StoreID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.ToOrderResponse(order))
	}
}

// AdvanceOrderStatus applies a single lifecycle transition to an order.
func AdvanceOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body internalorders.AdvanceStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		target, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status"))
			return
		}

		order, err := svc.Advance(r.Context(), internalorders.AdvanceInput{
			OrderID:      orderID,
			Target:       target,
			ActorUserID:  scope.UserID,
			ActorStoreID: scope.StoreID,
			ActorRole:    scope.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalorders.ToOrderResponse(order))
	}
}

// SetOrderPaymentStatus applies a manual payment override on an order.
func SetOrderPaymentStatus(svc internalpayments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body internalpayments.SetPaymentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParsePaymentStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status"))
			return
		}
		var method *enums.PaymentMethod
		if body.Method != nil {
			parsed, err := enums.ParsePaymentMethod(*body.Method)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
				return
			}
			method = &parsed
		}

		payment, err := svc.SetPaymentStatus(r.Context(), internalpayments.SetPaymentStatusInput{
			OrderID:      orderID,
			Status:       status,
			Method:       method,
			ActorUserID:  scope.UserID,
			ActorStoreID: scope.StoreID,
			ActorRole:    scope.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalpayments.ToPaymentResponse(payment))
	}
}
