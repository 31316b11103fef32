package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/pkg/enums"
)

// Table is a dine-in seat identified to guests by its QR token.
type Table struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	OutletID  *uuid.UUID        `gorm:"column:outlet_id;type:uuid"`
	Number    string            `gorm:"column:number;not null"`
	QRCode    string            `gorm:"column:qr_code;not null;uniqueIndex"`
	Capacity  int               `gorm:"column:capacity;not null;default:0"`
	Status    enums.TableStatus `gorm:"column:status;type:text;not null;default:'available'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
