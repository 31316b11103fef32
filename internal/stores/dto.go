package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/mocharil/savora-backend/pkg/db/models"
	"github.com/mocharil/savora-backend/pkg/types"
)

// StoreDTO exposes safe tenant data in API responses.
type StoreDTO struct {
	ID              uuid.UUID           `json:"id"`
	Slug            string              `json:"slug"`
	Name            string              `json:"name"`
	Description     *string             `json:"description,omitempty"`
	Phone           *string             `json:"phone,omitempty"`
	Email           *string             `json:"email,omitempty"`
	Address         *string             `json:"address,omitempty"`
	LogoURL         *string             `json:"logo_url,omitempty"`
	PaymentChannels []string            `json:"payment_channels"`
	Settings        types.StoreSettings `json:"settings"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// UpdateStoreRequest is the closed set of patchable profile fields. Nil
// means leave untouched. Unknown fields are rejected at decode time.
type UpdateStoreRequest struct {
	Name            *string              `json:"name" validate:"omitempty,min=1,max=160"`
	Description     *string              `json:"description" validate:"omitempty,max=2000"`
	Phone           *string              `json:"phone" validate:"omitempty,max=32"`
	Email           *string              `json:"email" validate:"omitempty,email"`
	Address         *string              `json:"address" validate:"omitempty,max=500"`
	LogoURL         *string              `json:"logo_url" validate:"omitempty,url"`
	PaymentChannels *[]string            `json:"payment_channels" validate:"omitempty,dive,oneof=cash qris bank_transfer credit_card ewallet"`
	Settings        *types.StoreSettings `json:"settings"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}

	return &StoreDTO{
		ID:              m.ID,
		Slug:            m.Slug,
		Name:            m.Name,
		Description:     m.Description,
		Phone:           m.Phone,
		Email:           m.Email,
		Address:         m.Address,
		LogoURL:         m.LogoURL,
		PaymentChannels: append([]string(nil), []string(m.PaymentChannels)...),
		Settings:        m.Settings,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
