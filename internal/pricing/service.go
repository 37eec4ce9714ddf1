package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// Default pricing values installed when no config row exists yet.
var (
	defaultRackPrice        = decimal.RequireFromString("1.50")
	defaultFederalCarbonTax = decimal.RequireFromString("0.14")
	defaultQuebecCarbonTax  = decimal.RequireFromString("0.05")
	defaultGSTRate          = decimal.RequireFromString("0.05")
	defaultQSTRate          = decimal.RequireFromString("0.09975")
)

// Service manages the shared pricing configuration.
type Service interface {
	GetConfig(ctx context.Context) (*models.PricingConfig, error)
	UpdateConfig(ctx context.Context, input UpdateConfigInput) (*models.PricingConfig, error)
}

// UpdateConfigInput carries the admin's partial pricing update. Version is the
// version the caller read; a mismatch at write time rejects the update.
type UpdateConfigInput struct {
	RackPrice        *decimal.Decimal
	FederalCarbonTax *decimal.Decimal
	QuebecCarbonTax  *decimal.Decimal
	GSTRate          *decimal.Decimal
	QSTRate          *decimal.Decimal
	Version          int64
}

type service struct {
	repo Repository
}

// NewService constructs a pricing service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	return &service{repo: repo}, nil
}

// GetConfig returns the live pricing config, creating it with defaults on the
// first read.
func (s *service) GetConfig(ctx context.Context) (*models.PricingConfig, error) {
	cfg, err := s.repo.Find(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pricing config")
	}

	created, err := s.repo.Create(ctx, &models.PricingConfig{
		RackPrice:        defaultRackPrice,
		FederalCarbonTax: defaultFederalCarbonTax,
		QuebecCarbonTax:  defaultQuebecCarbonTax,
		GSTRate:          defaultGSTRate,
		QSTRate:          defaultQSTRate,
		Version:          1,
	})
	if err != nil {
		// A concurrent first read may have created the row already.
		if existing, findErr := s.repo.Find(ctx); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default pricing config")
	}
	return created, nil
}

func (s *service) UpdateConfig(ctx context.Context, input UpdateConfigInput) (*models.PricingConfig, error) {
	if err := validateRates(input); err != nil {
		return nil, err
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	if input.RackPrice != nil {
		cfg.RackPrice = *input.RackPrice
	}
	if input.FederalCarbonTax != nil {
		cfg.FederalCarbonTax = *input.FederalCarbonTax
	}
	if input.QuebecCarbonTax != nil {
		cfg.QuebecCarbonTax = *input.QuebecCarbonTax
	}
	if input.GSTRate != nil {
		cfg.GSTRate = *input.GSTRate
	}
	if input.QSTRate != nil {
		cfg.QSTRate = *input.QSTRate
	}

	expected := input.Version
	if expected == 0 {
		expected = cfg.Version
	}

	rows, err := s.repo.UpdateVersioned(ctx, cfg, expected)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pricing config")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "pricing config changed since read")
	}

	cfg.Version = expected + 1
	return cfg, nil
}

func validateRates(input UpdateConfigInput) error {
	fields := map[string]*decimal.Decimal{
		"rack_price":         input.RackPrice,
		"federal_carbon_tax": input.FederalCarbonTax,
		"quebec_carbon_tax":  input.QuebecCarbonTax,
		"gst_rate":           input.GSTRate,
		"qst_rate":           input.QSTRate,
	}
	for name, value := range fields {
		if value != nil && value.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, name+" must not be negative")
		}
	}
	return nil
}
