package tanks

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/api/validators"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// TankDTO is the API representation of a fuel tank.
type TankDTO struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"user_id"`
	Name       string           `json:"name"`
	Identifier string           `json:"identifier"`
	Capacity   *decimal.Decimal `json:"capacity,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// CreateTankDTO carries the payload for registering a tank.
type CreateTankDTO struct {
	Name       string           `json:"name" validate:"required,min=1,max=120"`
	Identifier string           `json:"identifier" validate:"max=60"`
	Capacity   *decimal.Decimal `json:"capacity,omitempty"`
}

// Sanitize trims and caps the text fields before validation.
func (d *CreateTankDTO) Sanitize() {
	d.Name = validators.SanitizeString(d.Name, 120)
	d.Identifier = validators.SanitizeString(d.Identifier, 60)
}

// UpdateTankDTO carries a partial tank update.
type UpdateTankDTO struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Identifier *string          `json:"identifier,omitempty" validate:"omitempty,max=60"`
	Capacity   *decimal.Decimal `json:"capacity,omitempty"`
}

func (d *UpdateTankDTO) Sanitize() {
	if d.Name != nil {
		*d.Name = validators.SanitizeString(*d.Name, 120)
	}
	if d.Identifier != nil {
		*d.Identifier = validators.SanitizeString(*d.Identifier, 60)
	}
}

func fromModel(m *models.FuelTank) *TankDTO {
	return &TankDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		Name:       m.Name,
		Identifier: m.Identifier,
		Capacity:   m.Capacity,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func fromModels(list []models.FuelTank) []TankDTO {
	out := make([]TankDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out
}
