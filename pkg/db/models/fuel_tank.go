package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FuelTank is a customer-owned storage tank that bookings may reference.
type FuelTank struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Name       string           `gorm:"column:name;not null"`
	Identifier string           `gorm:"column:identifier;not null"`
	Capacity   *decimal.Decimal `gorm:"column:capacity;type:numeric(12,2)"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
