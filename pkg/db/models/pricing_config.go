package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingConfig is the process-wide pricing record shared by all customers.
// There is exactly one row; it is created lazily with defaults on first read.
// Version backs the optimistic concurrency check on admin updates.
type PricingConfig struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RackPrice        decimal.Decimal `gorm:"column:rack_price;type:numeric(10,4);not null"`
	FederalCarbonTax decimal.Decimal `gorm:"column:federal_carbon_tax;type:numeric(10,4);not null"`
	QuebecCarbonTax  decimal.Decimal `gorm:"column:quebec_carbon_tax;type:numeric(10,4);not null"`
	GSTRate          decimal.Decimal `gorm:"column:gst_rate;type:numeric(8,5);not null"`
	QSTRate          decimal.Decimal `gorm:"column:qst_rate;type:numeric(8,5);not null"`
	Version          int64           `gorm:"column:version;not null;default:1"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
