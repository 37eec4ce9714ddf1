package pricing

import (
	"context"

	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
)

// Repository exposes pricing-config persistence operations.
type Repository interface {
	Find(ctx context.Context) (*models.PricingConfig, error)
	Create(ctx context.Context, cfg *models.PricingConfig) (*models.PricingConfig, error)
	UpdateVersioned(ctx context.Context, cfg *models.PricingConfig, expectedVersion int64) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context) (*models.PricingConfig, error) {
	var cfg models.PricingConfig
	if err := r.db.WithContext(ctx).Order("updated_at ASC").First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *repository) Create(ctx context.Context, cfg *models.PricingConfig) (*models.PricingConfig, error) {
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateVersioned writes the new values only when the stored version still
// matches expectedVersion. Returns the number of rows touched; zero means the
// record moved underneath the caller.
func (r *repository) UpdateVersioned(ctx context.Context, cfg *models.PricingConfig, expectedVersion int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.PricingConfig{}).
		Where("id = ? AND version = ?", cfg.ID, expectedVersion).
		Updates(map[string]any{
			"rack_price":         cfg.RackPrice,
			"federal_carbon_tax": cfg.FederalCarbonTax,
			"quebec_carbon_tax":  cfg.QuebecCarbonTax,
			"gst_rate":           cfg.GSTRate,
			"qst_rate":           cfg.QSTRate,
			"version":            expectedVersion + 1,
		})
	return res.RowsAffected, res.Error
}
