package types

import "github.com/shopspring/decimal"

// TruckDetail describes one truck assigned to a booking.
type TruckDetail struct {
	LicensePlate   string          `json:"license_plate" validate:"required"`
	DriverName     string          `json:"driver_name" validate:"required"`
	CapacityLiters decimal.Decimal `json:"capacity_liters"`
}

// TruckDetails is the jsonb column wrapper for a booking's assigned trucks.
type TruckDetails []TruckDetail
