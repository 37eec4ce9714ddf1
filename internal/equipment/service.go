package equipment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// Service manages the per-customer equipment registry.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto *CreateEquipmentDTO) (*EquipmentDTO, error)
	Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*EquipmentDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]EquipmentDTO, error)
	Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateEquipmentDTO) (*EquipmentDTO, error)
	Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds an equipment service. The repository is required.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "equipment: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto *CreateEquipmentDTO) (*EquipmentDTO, error) {
	if dto.Capacity != nil && dto.Capacity.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must not be negative")
	}
	item := &models.Equipment{
		UserID:       ownerID,
		Name:         dto.Name,
		UnitNumber:   dto.UnitNumber,
		LicensePlate: dto.LicensePlate,
		Capacity:     dto.Capacity,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create equipment")
	}
	return fromModel(created), nil
}

func (s *service) Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*EquipmentDTO, error) {
	item, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	return fromModel(item), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]EquipmentDTO, error) {
	list, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list equipment")
	}
	return fromModels(list), nil
}

func (s *service) Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateEquipmentDTO) (*EquipmentDTO, error) {
	item, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		item.Name = *dto.Name
	}
	if dto.UnitNumber != nil {
		item.UnitNumber = *dto.UnitNumber
	}
	if dto.LicensePlate != nil {
		item.LicensePlate = *dto.LicensePlate
	}
	if dto.Capacity != nil {
		if dto.Capacity.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must not be negative")
		}
		item.Capacity = dto.Capacity
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update equipment")
	}
	return fromModel(item), nil
}

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	if _, err := s.find(ctx, requesterID, isAdmin, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete equipment")
	}
	return nil
}

func (s *service) find(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.Equipment, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "equipment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find equipment")
	}
	if !isAdmin && item.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "equipment belongs to another customer")
	}
	return item, nil
}
