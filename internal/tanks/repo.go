package tanks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// Repository exposes fuel tank persistence operations.
type Repository interface {
	Create(ctx context.Context, tank *models.FuelTank) (*models.FuelTank, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FuelTank, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FuelTank, error)
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.FuelTank, error)
	Update(ctx context.Context, tank *models.FuelTank) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tanks repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tank *models.FuelTank) (*models.FuelTank, error) {
	if err := r.db.WithContext(ctx).Create(tank).Error; err != nil {
		return nil, err
	}
	return tank, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FuelTank, error) {
	var tank models.FuelTank
	if err := r.db.WithContext(ctx).First(&tank, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tank, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FuelTank, error) {
	var list []models.FuelTank
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.FuelTank, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.FuelTank
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, tank *models.FuelTank) error {
	return r.db.WithContext(ctx).Save(tank).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FuelTank{}, "id = ?", id).Error
}
