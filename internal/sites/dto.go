package sites

import (
	"time"

	"github.com/google/uuid"

	"github.com/borealpetro/fueldesk-backend/api/validators"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// SiteDTO is the API representation of a delivery site.
type SiteDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSiteDTO carries the payload for registering a delivery site.
type CreateSiteDTO struct {
	Name    string `json:"name" validate:"required,min=1,max=120"`
	Address string `json:"address" validate:"required,min=1,max=300"`
}

// Sanitize trims and caps the text fields before validation.
func (d *CreateSiteDTO) Sanitize() {
	d.Name = validators.SanitizeString(d.Name, 120)
	d.Address = validators.SanitizeString(d.Address, 300)
}

// UpdateSiteDTO carries a partial site update.
type UpdateSiteDTO struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
}

func (d *UpdateSiteDTO) Sanitize() {
	if d.Name != nil {
		*d.Name = validators.SanitizeString(*d.Name, 120)
	}
	if d.Address != nil {
		*d.Address = validators.SanitizeString(*d.Address, 300)
	}
}

func fromModel(m *models.DeliverySite) *SiteDTO {
	return &SiteDTO{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func fromModels(list []models.DeliverySite) []SiteDTO {
	out := make([]SiteDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out
}
