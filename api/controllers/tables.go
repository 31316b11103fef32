package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/api/responses"
	internaltables "github.com/mocharil/savora-backend/internal/tables"
	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/logger"
)

type tableResponse struct {
	ID        uuid.UUID         `json:"id"`
	OutletID  *uuid.UUID        `json:"outlet_id,omitempty"`
	Number    string            `json:"number"`
	QRCode    string            `json:"qr_code"`
	Capacity  int               `json:"capacity"`
	Status    enums.TableStatus `json:"status"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func toTableResponse(table *models.Table) tableResponse {
	return tableResponse{
		ID:        table.ID,
		OutletID:  table.OutletID,
		Number:    table.Number,
		QRCode:    table.QRCode,
		Capacity:  table.Capacity,
		Status:    table.Status,
		UpdatedAt: table.UpdatedAt,
	}
}

// TablesList returns the authenticated store's tables.
func TablesList(svc internaltables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tables service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), scope.StoreID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]tableResponse, 0, len(rows))
		for i := range rows {
			out = append(out, toTableResponse(&rows[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// TableRelease frees a table once no unpaid open orders remain against it.
func TableRelease(svc internaltables.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tables service unavailable"))
			return
		}

		scope, err := scopeFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tableID, err := parseUUIDParam(r, "tableId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		table, err := svc.Release(r.Context(), internaltables.ReleaseInput{
			TableID:      tableID,
			ActorUserID:  scope.UserID,
			ActorStoreID: scope.StoreID,
			ActorRole:    scope.Role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toTableResponse(table))
	}
}
