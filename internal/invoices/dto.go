package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/pkg/enums"
)

// ReconcileDTO carries the post-delivery invoice adjustments. Both fields are
// optional; whichever is present is applied before the price is recomputed
// from the booking's stored rate snapshot.
type ReconcileDTO struct {
	OrderedLiters   *decimal.Decimal `json:"ordered_amount,omitempty"`
	DispensedLiters *decimal.Decimal `json:"dispensed_amount,omitempty"`
}

// InvoiceLine is one priced component on the invoice export.
type InvoiceLine struct {
	Label  string          `json:"label"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// InvoiceDTO is the reconciled invoice payload for a booking, computed from
// the rate snapshot stored at booking time.
type InvoiceDTO struct {
	BookingID       uuid.UUID           `json:"booking_id"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	DeliveryAddress string              `json:"delivery_address"`
	FuelType        enums.FuelType      `json:"fuel_type"`
	Status          enums.BookingStatus `json:"status"`
	OrderedLiters   decimal.Decimal     `json:"ordered_liters"`
	DispensedLiters *decimal.Decimal    `json:"dispensed_liters,omitempty"`
	BilledLiters    decimal.Decimal     `json:"billed_liters"`
	Lines           []InvoiceLine       `json:"lines"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Total           decimal.Decimal     `json:"total"`
	InvoiceImages   []string            `json:"invoice_images"`
	IssuedAt        time.Time           `json:"issued_at"`
}

// ImageDTO describes one stored invoice image.
type ImageDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
