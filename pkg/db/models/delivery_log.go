package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryLog records one truck visit against a booking.
type DeliveryLog struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID         uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;index"`
	TruckLicensePlate string          `gorm:"column:truck_license_plate;not null"`
	DriverName        string          `gorm:"column:driver_name;not null"`
	LitersDelivered   decimal.Decimal `gorm:"column:liters_delivered;type:numeric(12,2);not null"`
	DeliveryTime      time.Time       `gorm:"column:delivery_time;not null"`
	Notes             *string         `gorm:"column:notes"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime;index"`
}
