package tables

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
)

// Repository defines the table persistence surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByIDForStore(ctx context.Context, tableID, storeID uuid.UUID) (*models.Table, error)
	ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.Table, error)
	BlockingOrderNumbers(ctx context.Context, tableID uuid.UUID) ([]string, error)
	ReleaseIfOccupied(ctx context.Context, tableID, storeID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tables repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByIDForStore(ctx context.Context, tableID, storeID uuid.UUID) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", tableID, storeID).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) ListForStore(ctx context.Context, storeID uuid.UUID) ([]models.Table, error) {
	var rows []models.Table
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// BlockingOrderNumbers returns the order numbers still holding the table:
// unpaid orders that were not cancelled.
func (r *repository) BlockingOrderNumbers(ctx context.Context, tableID uuid.UUID) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("table_id = ? AND payment_status = ? AND status <> ?",
			tableID, enums.PaymentStatusUnpaid, enums.OrderStatusCancelled).
		Order("created_at ASC").
		Pluck("order_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

// ReleaseIfOccupied flips the table back to available only when it is
// currently occupied, returning the number of rows touched.
func (r *repository) ReleaseIfOccupied(ctx context.Context, tableID, storeID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ? AND store_id = ? AND status = ?", tableID, storeID, enums.TableStatusOccupied).
		Update("status", enums.TableStatusAvailable)
	return result.RowsAffected, result.Error
}
