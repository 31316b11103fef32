package tables

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
	pkgerrors "github.com/mocharil/savora-backend/pkg/errors"
	"github.com/mocharil/savora-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the table occupancy surface.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID) ([]models.Table, error)
	Release(ctx context.Context, input ReleaseInput) (*models.Table, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// ReleaseInput captures a staff request to free a table.
type ReleaseInput struct {
	TableID      uuid.UUID
	ActorUserID  uuid.UUID
	ActorStoreID uuid.UUID
	ActorRole    string
}

// TableReleasedEvent is emitted when a table returns to available.
type TableReleasedEvent struct {
	TableID uuid.UUID `json:"table_id"`
	StoreID uuid.UUID `json:"store_id"`
	Number  string    `json:"number"`
}

// NewService builds a table service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tables repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
	}, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]models.Table, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}
	rows, err := s.repo.ListForStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tables")
	}
	return rows, nil
}

// Release frees a table once nothing unpaid still holds it. Releasing a
// table that is already available is a no-op so retries stay safe.
func (s *service) Release(ctx context.Context, input ReleaseInput) (*models.Table, error) {
	if input.TableID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "table id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ActorStoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "store context missing")
	}

	var result *models.Table
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		table, err := repo.FindByIDForStore(ctx, input.TableID, input.ActorStoreID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "table not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load table")
		}

		blocking, err := repo.BlockingOrderNumbers(ctx, table.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check open orders")
		}
		if len(blocking) > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "table has unpaid orders").
				WithDetails(map[string]any{
					"unpaid_count":  len(blocking),
					"order_numbers": blocking,
				})
		}

		affected, err := repo.ReleaseIfOccupied(ctx, table.ID, input.ActorStoreID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release table")
		}
		table.Status = enums.TableStatusAvailable
		result = table
		if affected == 0 {
			// already available, nothing to announce
			return nil
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventTableReleased,
			AggregateType: enums.AggregateTable,
			AggregateID:   table.ID,
			StoreID:       table.StoreID,
			Version:       1,
			Actor: &outbox.ActorRef{
				UserID:  input.ActorUserID,
				StoreID: input.ActorStoreID,
				Role:    input.ActorRole,
			},
			Data: TableReleasedEvent{
				TableID: table.ID,
				StoreID: table.StoreID,
				Number:  table.Number,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
