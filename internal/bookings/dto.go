package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/api/validators"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	"github.com/borealpetro/fueldesk-backend/pkg/types"
)

// BookingDTO is the API representation of a booking, including the price
// snapshot captured when it was created.
type BookingDTO struct {
	ID                  uuid.UUID           `json:"id"`
	UserID              uuid.UUID           `json:"user_id"`
	UserName            string              `json:"user_name"`
	UserEmail           string              `json:"user_email"`
	DeliveryAddress     string              `json:"delivery_address"`
	FuelType            enums.FuelType      `json:"fuel_type"`
	QuantityLiters      decimal.Decimal     `json:"quantity_liters"`
	DispensedLiters     *decimal.Decimal    `json:"dispensed_liters,omitempty"`
	PreferredDate       string              `json:"preferred_date"`
	PreferredTime       string              `json:"preferred_time"`
	SpecialInstructions *string             `json:"special_instructions,omitempty"`
	DeliveryLocations   []string            `json:"delivery_locations"`
	Trucks              types.TruckDetails  `json:"trucks"`
	SelectedTanks       types.TankRefs      `json:"selected_tanks"`
	SelectedEquipment   types.EquipmentRefs `json:"selected_equipment"`
	SelectedSites       types.SiteRefs      `json:"selected_sites"`
	Status              enums.BookingStatus `json:"status"`

	RackPrice             decimal.Decimal `json:"rack_price"`
	CustomerPriceModifier decimal.Decimal `json:"customer_price_modifier"`
	FuelPricePerLiter     decimal.Decimal `json:"fuel_price_per_liter"`
	FederalCarbonTax      decimal.Decimal `json:"federal_carbon_tax"`
	QuebecCarbonTax       decimal.Decimal `json:"quebec_carbon_tax"`
	GSTRate               decimal.Decimal `json:"gst_rate"`
	QSTRate               decimal.Decimal `json:"qst_rate"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	TotalPrice            decimal.Decimal `json:"total_price"`

	InvoiceImages []string  `json:"invoice_images"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateBookingDTO carries the customer's order request. Resource IDs are
// resolved against the caller's registries at creation time.
type CreateBookingDTO struct {
	DeliveryAddress     string          `json:"delivery_address" validate:"required,min=1,max=300"`
	FuelType            string          `json:"fuel_type" validate:"required"`
	QuantityLiters      decimal.Decimal `json:"quantity_liters" validate:"required"`
	PreferredDate       string          `json:"preferred_date" validate:"required"`
	PreferredTime       string          `json:"preferred_time" validate:"required"`
	SpecialInstructions *string         `json:"special_instructions,omitempty" validate:"omitempty,max=1000"`
	DeliveryLocations   []string        `json:"delivery_locations" validate:"max=50,dive,min=1,max=300"`
	TankIDs             []uuid.UUID     `json:"tank_ids" validate:"max=50"`
	EquipmentIDs        []uuid.UUID     `json:"equipment_ids" validate:"max=50"`
	SiteIDs             []uuid.UUID     `json:"site_ids" validate:"max=50"`
}

// Sanitize trims and caps the free-text fields before validation.
func (d *CreateBookingDTO) Sanitize() {
	d.DeliveryAddress = validators.SanitizeString(d.DeliveryAddress, 300)
	if d.SpecialInstructions != nil {
		*d.SpecialInstructions = validators.SanitizeString(*d.SpecialInstructions, 1000)
	}
	for i := range d.DeliveryLocations {
		d.DeliveryLocations[i] = validators.SanitizeString(d.DeliveryLocations[i], 300)
	}
}

// UpdateStatusDTO carries a lifecycle transition request.
type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

// UpdateTrucksDTO replaces the trucks assigned to a booking.
type UpdateTrucksDTO struct {
	Trucks types.TruckDetails `json:"trucks" validate:"required,max=20,dive"`
}

// ListParams filters and paginates a booking listing.
type ListParams struct {
	Status enums.BookingStatus
	Limit  int
	Cursor string
}

// ListResult is one page of bookings plus the cursor for the next page.
type ListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel converts a persisted booking into its API shape. Exported for
// the invoice service, which returns reconciled bookings in the same shape.
func FromModel(m *models.Booking) *BookingDTO {
	return fromModel(m)
}

func fromModel(m *models.Booking) *BookingDTO {
	return &BookingDTO{
		ID:                  m.ID,
		UserID:              m.UserID,
		UserName:            m.UserName,
		UserEmail:           m.UserEmail,
		DeliveryAddress:     m.DeliveryAddress,
		FuelType:            m.FuelType,
		QuantityLiters:      m.QuantityLiters,
		DispensedLiters:     m.DispensedLiters,
		PreferredDate:       m.PreferredDate,
		PreferredTime:       m.PreferredTime,
		SpecialInstructions: m.SpecialInstructions,
		DeliveryLocations:   m.DeliveryLocations,
		Trucks:              m.Trucks,
		SelectedTanks:       m.SelectedTanks,
		SelectedEquipment:   m.SelectedEquipment,
		SelectedSites:       m.SelectedSites,
		Status:              m.Status,

		RackPrice:             m.RackPrice,
		CustomerPriceModifier: m.CustomerPriceModifier,
		FuelPricePerLiter:     m.FuelPricePerLiter,
		FederalCarbonTax:      m.FederalCarbonTax,
		QuebecCarbonTax:       m.QuebecCarbonTax,
		GSTRate:               m.GSTRate,
		QSTRate:               m.QSTRate,
		Subtotal:              m.Subtotal,
		TotalPrice:            m.TotalPrice,

		InvoiceImages: m.InvoiceImages,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromModels(list []models.Booking) []BookingDTO {
	out := make([]BookingDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out
}
