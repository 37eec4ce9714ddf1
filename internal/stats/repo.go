package stats

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
)

// Totals aggregates revenue and volume over delivered bookings.
type Totals struct {
	Revenue decimal.Decimal
	Liters  decimal.Decimal
}

// Repository exposes the aggregate queries behind the stats endpoint.
type Repository interface {
	CountBookingsByStatus(ctx context.Context) (map[enums.BookingStatus]int64, error)
	CountUsersByRole(ctx context.Context) (map[enums.UserRole]int64, error)
	DeliveredTotals(ctx context.Context) (*Totals, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stats repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CountBookingsByStatus(ctx context.Context) (map[enums.BookingStatus]int64, error) {
	type row struct {
		Status enums.BookingStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.BookingStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *repository) CountUsersByRole(ctx context.Context) (map[enums.UserRole]int64, error) {
	type row struct {
		Role  enums.UserRole
		Count int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.UserRole]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Role] = rw.Count
	}
	return counts, nil
}

// DeliveredTotals sums revenue and liters over delivered bookings, billing
// the dispensed amount where one was reconciled.
func (r *repository) DeliveredTotals(ctx context.Context) (*Totals, error) {
	type row struct {
		Revenue decimal.Decimal
		Liters  decimal.Decimal
	}
	var result row
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("COALESCE(SUM(total_price), 0) AS revenue, COALESCE(SUM(COALESCE(dispensed_liters, quantity_liters)), 0) AS liters").
		Where("status = ?", enums.BookingStatusDelivered).
		Find(&result).Error
	if err != nil {
		return nil, err
	}
	return &Totals{Revenue: result.Revenue, Liters: result.Liters}, nil
}
