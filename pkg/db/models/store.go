package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mocharil/savora-backend/pkg/types"
)

// Store represents the canonical tenant model. Every scoped row in the
// system carries this ID and reads filter on it.
type Store struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Slug            string              `gorm:"column:slug;not null;uniqueIndex"`
	Name            string              `gorm:"column:name;not null"`
	Description     *string             `gorm:"column:description"`
	Phone           *string             `gorm:"column:phone"`
	Email           *string             `gorm:"column:email"`
	Address         *string             `gorm:"column:address"`
	LogoURL         *string             `gorm:"column:logo_url"`
	PaymentChannels pq.StringArray      `gorm:"column:payment_channels;type:text[]"`
	Settings        types.StoreSettings `gorm:"column:settings;type:jsonb;serializer:json"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
