package sites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// Repository exposes delivery site persistence operations.
type Repository interface {
	Create(ctx context.Context, site *models.DeliverySite) (*models.DeliverySite, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliverySite, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DeliverySite, error)
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.DeliverySite, error)
	Update(ctx context.Context, site *models.DeliverySite) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a sites repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, site *models.DeliverySite) (*models.DeliverySite, error) {
	if err := r.db.WithContext(ctx).Create(site).Error; err != nil {
		return nil, err
	}
	return site, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DeliverySite, error) {
	var site models.DeliverySite
	if err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.DeliverySite, error) {
	var list []models.DeliverySite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.DeliverySite, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.DeliverySite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Update(ctx context.Context, site *models.DeliverySite) error {
	return r.db.WithContext(ctx).Save(site).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.DeliverySite{}, "id = ?", id).Error
}
