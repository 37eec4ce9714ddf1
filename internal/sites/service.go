package sites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// Service manages the per-customer delivery site registry.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto *CreateSiteDTO) (*SiteDTO, error)
	Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*SiteDTO, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]SiteDTO, error)
	Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateSiteDTO) (*SiteDTO, error)
	Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService builds a site service. The repository is required.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "sites: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto *CreateSiteDTO) (*SiteDTO, error) {
	site := &models.DeliverySite{
		UserID:  ownerID,
		Name:    dto.Name,
		Address: dto.Address,
	}
	created, err := s.repo.Create(ctx, site)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create delivery site")
	}
	return fromModel(created), nil
}

func (s *service) Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*SiteDTO, error) {
	site, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	return fromModel(site), nil
}

func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]SiteDTO, error) {
	list, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery sites")
	}
	return fromModels(list), nil
}

func (s *service) Update(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, dto *UpdateSiteDTO) (*SiteDTO, error) {
	site, err := s.find(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		site.Name = *dto.Name
	}
	if dto.Address != nil {
		site.Address = *dto.Address
	}
	if err := s.repo.Update(ctx, site); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update delivery site")
	}
	return fromModel(site), nil
}

func (s *service) Delete(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	if _, err := s.find(ctx, requesterID, isAdmin, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete delivery site")
	}
	return nil
}

func (s *service) find(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.DeliverySite, error) {
	site, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "delivery site not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find delivery site")
	}
	if !isAdmin && site.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "delivery site belongs to another customer")
	}
	return site, nil
}
