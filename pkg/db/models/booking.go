package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	"github.com/borealpetro/fueldesk-backend/pkg/types"
)

// Booking represents one fuel delivery order together with the price snapshot
// taken at creation time. The snapshot columns are immutable after creation;
// only invoice reconciliation may rewrite subtotal/total_price, and it does so
// from the stored per-liter rates rather than the live pricing config.
type Booking struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	UserName            string              `gorm:"column:user_name;not null"`
	UserEmail           string              `gorm:"column:user_email;not null"`
	DeliveryAddress     string              `gorm:"column:delivery_address;not null"`
	FuelType            enums.FuelType      `gorm:"column:fuel_type;type:text;not null"`
	QuantityLiters      decimal.Decimal     `gorm:"column:quantity_liters;type:numeric(12,2);not null"`
	DispensedLiters     *decimal.Decimal    `gorm:"column:dispensed_liters;type:numeric(12,2)"`
	PreferredDate       string              `gorm:"column:preferred_date;not null"`
	PreferredTime       string              `gorm:"column:preferred_time;not null"`
	SpecialInstructions *string             `gorm:"column:special_instructions"`
	DeliveryLocations   pq.StringArray      `gorm:"column:delivery_locations;type:text[];default:ARRAY[]::text[]"`
	Trucks              types.TruckDetails  `gorm:"column:trucks;type:jsonb;serializer:json"`
	SelectedTanks       types.TankRefs      `gorm:"column:selected_tanks;type:jsonb;serializer:json"`
	SelectedEquipment   types.EquipmentRefs `gorm:"column:selected_equipment;type:jsonb;serializer:json"`
	SelectedSites       types.SiteRefs      `gorm:"column:selected_sites;type:jsonb;serializer:json"`
	Status              enums.BookingStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	// Price snapshot, locked in at creation.
	RackPrice             decimal.Decimal `gorm:"column:rack_price;type:numeric(10,4);not null"`
	CustomerPriceModifier decimal.Decimal `gorm:"column:customer_price_modifier;type:numeric(10,4);not null"`
	FuelPricePerLiter     decimal.Decimal `gorm:"column:fuel_price_per_liter;type:numeric(10,4);not null"`
	FederalCarbonTax      decimal.Decimal `gorm:"column:federal_carbon_tax;type:numeric(10,4);not null"`
	QuebecCarbonTax       decimal.Decimal `gorm:"column:quebec_carbon_tax;type:numeric(10,4);not null"`
	GSTRate               decimal.Decimal `gorm:"column:gst_rate;type:numeric(8,5);not null"`
	QSTRate               decimal.Decimal `gorm:"column:qst_rate;type:numeric(8,5);not null"`
	Subtotal              decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null"`
	TotalPrice            decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`

	InvoiceImages pq.StringArray `gorm:"column:invoice_images;type:text[];default:ARRAY[]::text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
