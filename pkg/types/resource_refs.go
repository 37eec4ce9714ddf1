package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TankRef is the resolved snapshot of a customer fuel tank attached to a
// booking. Stored as jsonb so the booking remains readable even if the tank is
// later edited or deleted.
type TankRef struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Identifier string           `json:"identifier"`
	Capacity   *decimal.Decimal `json:"capacity,omitempty"`
}

// EquipmentRef is the resolved snapshot of a customer equipment unit attached
// to a booking.
type EquipmentRef struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	UnitNumber   string           `json:"unit_number"`
	LicensePlate string           `json:"license_plate"`
	Capacity     *decimal.Decimal `json:"capacity,omitempty"`
}

// SiteRef is the resolved snapshot of a delivery site attached to a booking.
type SiteRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

// TankRefs is the jsonb column wrapper for a booking's resolved tanks.
type TankRefs []TankRef

// EquipmentRefs is the jsonb column wrapper for a booking's resolved equipment.
type EquipmentRefs []EquipmentRef

// SiteRefs is the jsonb column wrapper for a booking's resolved sites.
type SiteRefs []SiteRef
