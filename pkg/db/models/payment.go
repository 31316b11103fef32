package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mocharil/savora-backend/pkg/enums"
)

// Payment is the one-to-one settlement record for an order. PaidAt is set
// exactly when Status lands on paid and cleared otherwise.
type Payment struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	StoreID          uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Status           enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Method           enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'cash'"`
	Amount           decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	GatewayReference *string             `gorm:"column:gateway_reference"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
