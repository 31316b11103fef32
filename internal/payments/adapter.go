package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mocharil/savora-backend/internal/orders"
	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/enums"
)

type ordersAdapter struct {
	repo orders.Repository
}

// NewOrderReader adapts the orders repository to the reconciliation surface.
func NewOrderReader(repo orders.Repository) OrderReader {
	return &ordersAdapter{repo: repo}
}

func (a *ordersAdapter) FindByIDForStore(ctx context.Context, tx *gorm.DB, orderID, storeID uuid.UUID) (*models.Order, error) {
	return a.repo.WithTx(tx).FindByIDForStore(ctx, orderID, storeID)
}

func (a *ordersAdapter) UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, status enums.PaymentStatus) error {
	return a.repo.WithTx(tx).UpdatePaymentStatus(ctx, orderID, status)
}
