package deliverylogs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// Repository exposes delivery log persistence operations.
type Repository interface {
	Create(ctx context.Context, log *models.DeliveryLog) (*models.DeliveryLog, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.DeliveryLog, error)
	ListRecent(ctx context.Context, limit int) ([]models.DeliveryLog, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a delivery log repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *models.DeliveryLog) (*models.DeliveryLog, error) {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return nil, err
	}
	return log, nil
}

func (r *repository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.DeliveryLog, error) {
	var list []models.DeliveryLog
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("delivery_time DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.DeliveryLog, error) {
	var list []models.DeliveryLog
	err := r.db.WithContext(ctx).
		Order("delivery_time DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
