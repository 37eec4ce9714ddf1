package equipment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// Repository exposes equipment persistence operations.
type Repository interface {
	Create(ctx context.Context, item *models.Equipment) (*models.Equipment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Equipment, error)
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Equipment, error)
	Update(ctx context.Context, item *models.Equipment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an equipment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item *models.Equipment) (*models.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Equipment, error) {
	var item models.Equipment
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Equipment, error) {
	var list []models.Equipment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Equipment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, item *models.Equipment) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Equipment{}, "id = ?", id).Error
}
