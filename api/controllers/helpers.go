package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/api/middleware"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
)

// actorScope is the tenant identity every private handler works under.
// It always comes from the verified token, never from the request body.
type actorScope struct {
	UserID  uuid.UUID
	StoreID uuid.UUID
	Role    string
}

func scopeFromRequest(r *http.Request) (actorScope, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return actorScope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	storeID, err := uuid.Parse(middleware.StoreIDFromContext(r.Context()))
	if err != nil {
		return actorScope{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing store scope")
	}
	return actorScope{
		UserID:  userID,
		StoreID: storeID,
		Role:    middleware.RoleFromContext(r.Context()),
	}, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+name)
	}
	return value, nil
}
