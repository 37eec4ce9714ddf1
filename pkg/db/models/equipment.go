package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Equipment is a customer-owned truck or machine that can receive fuel.
type Equipment struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Name         string           `gorm:"column:name;not null"`
	UnitNumber   string           `gorm:"column:unit_number;not null"`
	LicensePlate string           `gorm:"column:license_plate;not null"`
	Capacity     *decimal.Decimal `gorm:"column:capacity;type:numeric(12,2)"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the plural-free table name used by the migrations.
func (Equipment) TableName() string {
	return "equipment"
}
