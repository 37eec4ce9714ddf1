package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// ConfigDTO is the transport shape of the pricing config.
type ConfigDTO struct {
	RackPrice        decimal.Decimal `json:"rack_price"`
	FederalCarbonTax decimal.Decimal `json:"federal_carbon_tax"`
	QuebecCarbonTax  decimal.Decimal `json:"quebec_carbon_tax"`
	GSTRate          decimal.Decimal `json:"gst_rate"`
	QSTRate          decimal.Decimal `json:"qst_rate"`
	Version          int64           `json:"version"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// UpdateConfigRequest is the admin's partial pricing update. Version must be
// the version the caller read.
type UpdateConfigRequest struct {
	RackPrice        *decimal.Decimal `json:"rack_price,omitempty"`
	FederalCarbonTax *decimal.Decimal `json:"federal_carbon_tax,omitempty"`
	QuebecCarbonTax  *decimal.Decimal `json:"quebec_carbon_tax,omitempty"`
	GSTRate          *decimal.Decimal `json:"gst_rate,omitempty"`
	QSTRate          *decimal.Decimal `json:"qst_rate,omitempty"`
	Version          int64            `json:"version" validate:"required,min=1"`
}

// Input converts the request into the service-level update input.
func (r UpdateConfigRequest) Input() UpdateConfigInput {
	return UpdateConfigInput{
		RackPrice:        r.RackPrice,
		FederalCarbonTax: r.FederalCarbonTax,
		QuebecCarbonTax:  r.QuebecCarbonTax,
		GSTRate:          r.GSTRate,
		QSTRate:          r.QSTRate,
		Version:          r.Version,
	}
}

// ConfigFromModel maps the stored config row to its transport shape.
func ConfigFromModel(m *models.PricingConfig) *ConfigDTO {
	if m == nil {
		return nil
	}
	return &ConfigDTO{
		RackPrice:        m.RackPrice,
		FederalCarbonTax: m.FederalCarbonTax,
		QuebecCarbonTax:  m.QuebecCarbonTax,
		GSTRate:          m.GSTRate,
		QSTRate:          m.QSTRate,
		Version:          m.Version,
		UpdatedAt:        m.UpdatedAt,
	}
}
