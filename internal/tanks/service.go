package tanks

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// Service manages the per-customer fuel tank registry.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto *CreateTankDTO) (*TankDTO, error)
	Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*TankDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]TankDTO, error)
	Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateTankDTO) (*TankDTO, error)
	Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a tank service. The repository is required.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tanks: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto *CreateTankDTO) (*TankDTO, error) {
	if dto.Capacity != nil && dto.Capacity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must not be negative")
	}
	tank := &models.FuelTank{
		UserID:     ownerID,
		Name:       dto.Name,
		Identifier: dto.Identifier,
		Capacity:   dto.Capacity,
	}
	created, err := s.repo.Create(ctx, tank)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create fuel tank")
	}
	return fromModel(created), nil
}

func (s *service) Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*TankDTO, error) {
	tank, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	return fromModel(tank), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]TankDTO, error) {
	list, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list fuel tanks")
	}
	return fromModels(list), nil
}

func (s *service) Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateTankDTO) (*TankDTO, error) {
	tank, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		tank.Name = *dto.Name
	}
	if dto.Identifier != nil {
		tank.Identifier = *dto.Identifier
	}
	if dto.Capacity != nil {
		if dto.Capacity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must not be negative")
		}
		tank.Capacity = dto.Capacity
	}
	if err := s.repo.Update(ctx, tank); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update fuel tank")
	}
	return fromModel(tank), nil
}

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	if _, err := s.find(ctx, requesterID, isAdmin, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete fuel tank")
	}
	return nil
}

func (s *service) find(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.FuelTank, error) {
	tank, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fuel tank not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find fuel tank")
	}
	if !isAdmin && tank.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "fuel tank belongs to another customer")
	}
	return tank, nil
}
