package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// Service exposes the admin-facing customer management operations.
type Service interface {
	ListCustomers(ctx context.Context) ([]*UserDTO, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	SetPriceModifier(ctx context.Context, id uuid.UUID, modifier decimal.Decimal) (*UserDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error)
}

type customerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error)
	UpdatePriceModifier(ctx context.Context, id uuid.UUID, modifier decimal.Decimal) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type service struct {
	repo customerRepository
}

// NewService validates dependencies and returns a customer management service.
func NewService(repo customerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCustomers(ctx context.Context) ([]*UserDTO, error) {
	rows, err := s.repo.ListByRole(ctx, enums.UserRoleCustomer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	out := make([]*UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) SetPriceModifier(ctx context.Context, id uuid.UUID, modifier decimal.Decimal) (*UserDTO, error) {
	user, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePriceModifier(ctx, user.ID, modifier); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price modifier")
	}

	user.PriceModifier = modifier
	user.UpdatedAt = time.Now().UTC()
	return FromModel(user), nil
}

func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error) {
	user, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.IsActive == active {
		return FromModel(user), nil
	}

	if err := s.repo.SetActive(ctx, user.ID, active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account status")
	}

	user.IsActive = active
	return FromModel(user), nil
}

func (s *service) findCustomer(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if user.Role != enums.UserRoleCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return user, nil
}
