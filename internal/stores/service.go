package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
)

type storeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes tenant profile operations. Both read and patch operate
// on the caller's own store; the ID always comes from the token scope.
type Service interface {
	Profile(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error)
	UpdateProfile(ctx context.Context, storeID uuid.UUID, req UpdateStoreRequest) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Profile(ctx context.Context, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) UpdateProfile(ctx context.Context, storeID uuid.UUID, req UpdateStoreRequest) (*StoreDTO, error) {
	store, err := s.load(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		store.Name = *req.Name
	}
	if req.Description != nil {
		store.Description = cloneStringPtr(req.Description)
	}
	if req.Phone != nil {
		store.Phone = cloneStringPtr(req.Phone)
	}
	if req.Email != nil {
		store.Email = cloneStringPtr(req.Email)
	}
	if req.Address != nil {
		store.Address = cloneStringPtr(req.Address)
	}
	if req.LogoURL != nil {
		store.LogoURL = cloneStringPtr(req.LogoURL)
	}
	if req.PaymentChannels != nil {
		store.PaymentChannels = pq.StringArray(append([]string(nil), (*req.PaymentChannels)...))
	}
	if req.Settings != nil {
		store.Settings = *req.Settings
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) load(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
