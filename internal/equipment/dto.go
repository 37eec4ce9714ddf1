package equipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/api/validators"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// EquipmentDTO is the API representation of an equipment item.
type EquipmentDTO struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Name         string           `json:"name"`
	UnitNumber   string           `json:"unit_number"`
	LicensePlate string           `json:"license_plate"`
	Capacity     *decimal.Decimal `json:"capacity,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// CreateEquipmentDTO carries the payload for registering equipment.
type CreateEquipmentDTO struct {
	Name         string           `json:"name" validate:"required,min=1,max=120"`
	UnitNumber   string           `json:"unit_number" validate:"max=60"`
	LicensePlate string           `json:"license_plate" validate:"max=20"`
	Capacity     *decimal.Decimal `json:"capacity,omitempty"`
}

// Sanitize trims and caps the text fields before validation.
func (d *CreateEquipmentDTO) Sanitize() {
	d.Name = validators.SanitizeString(d.Name, 120)
	d.UnitNumber = validators.SanitizeString(d.UnitNumber, 60)
	d.LicensePlate = validators.SanitizeString(d.LicensePlate, 20)
}

// UpdateEquipmentDTO carries a partial equipment update.
type UpdateEquipmentDTO struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	UnitNumber   *string          `json:"unit_number,omitempty" validate:"omitempty,max=60"`
	LicensePlate *string          `json:"license_plate,omitempty" validate:"omitempty,max=20"`
	Capacity     *decimal.Decimal `json:"capacity,omitempty"`
}

func (d *UpdateEquipmentDTO) Sanitize() {
	if d.Name != nil {
		*d.Name = validators.SanitizeString(*d.Name, 120)
	}
	if d.UnitNumber != nil {
		*d.UnitNumber = validators.SanitizeString(*d.UnitNumber, 60)
	}
	if d.LicensePlate != nil {
		*d.LicensePlate = validators.SanitizeString(*d.LicensePlate, 20)
	}
}

func fromModel(m *models.Equipment) *EquipmentDTO {
	return &EquipmentDTO{
		ID:           m.ID,
		UserID:       m.UserID,
		Name:         m.Name,
		UnitNumber:   m.UnitNumber,
		LicensePlate: m.LicensePlate,
		Capacity:     m.Capacity,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func fromModels(list []models.Equipment) []EquipmentDTO {
	out := make([]EquipmentDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out
}
