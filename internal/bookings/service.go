package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
	"github.com/borealpetro/fueldesk-backend/pkg/pagination"
	"github.com/borealpetro/fueldesk-backend/pkg/types"
)

// userFinder is the slice of the users repository this service needs.
type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// tankResolver resolves tank IDs scoped to their owner.
type tankResolver interface {
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.FuelTank, error)
}

// equipmentResolver resolves equipment IDs scoped to their owner.
type equipmentResolver interface {
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Equipment, error)
}

// siteResolver resolves delivery site IDs scoped to their owner.
type siteResolver interface {
	ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.DeliverySite, error)
}

// Service manages the booking lifecycle.
type Service interface {
	Create(ctx context.Context, customerID uuid.UUID, dto *CreateBookingDTO) (*BookingDTO, error)
	Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*BookingDTO, error)
	List(ctx context.Context, requesterID uuid.UUID, isAdmin bool, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, dto *UpdateStatusDTO) (*BookingDTO, error)
	UpdateTrucks(ctx context.Context, id uuid.UUID, dto *UpdateTrucksDTO) (*BookingDTO, error)
}

type service struct {
	repo       Repository
	users      userFinder
	pricing    pricing.Service
	tanks      tankResolver
	equipment  equipmentResolver
	sites      siteResolver
	strictRefs bool
}

// NewService builds a booking service. All collaborators are required. When
// strictRefs is set, unknown or foreign resource IDs on a create request fail
// the request instead of being dropped.
func NewService(
	repo Repository,
	users userFinder,
	pricingSvc pricing.Service,
	tanks tankResolver,
	equipment equipmentResolver,
	sites siteResolver,
	strictRefs bool,
) (Service, error) {
	if repo == nil || users == nil || pricingSvc == nil || tanks == nil || equipment == nil || sites == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bookings: missing required dependency")
	}
	return &service{
		repo:       repo,
		users:      users,
		pricing:    pricingSvc,
		tanks:      tanks,
		equipment:  equipment,
		sites:      sites,
		strictRefs: strictRefs,
	}, nil
}

func (s *service) Create(ctx context.Context, customerID uuid.UUID, dto *CreateBookingDTO) (*BookingDTO, error) {
	fuelType, err := enums.ParseFuelType(dto.FuelType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown fuel_type %q", dto.FuelType))
	}
	if !dto.QuantityLiters.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity_liters must be positive")
	}

	user, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load customer")
	}

	cfg, err := s.pricing.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	selectedTanks, selectedEquipment, selectedSites, err := s.resolveRefs(ctx, customerID, dto)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Compute(
		dto.QuantityLiters,
		cfg.RackPrice,
		user.PriceModifier,
		cfg.FederalCarbonTax,
		cfg.QuebecCarbonTax,
		cfg.GSTRate,
		cfg.QSTRate,
	)

	booking := &models.Booking{
		UserID:              user.ID,
		UserName:            user.Name,
		UserEmail:           user.Email,
		DeliveryAddress:     dto.DeliveryAddress,
		FuelType:            fuelType,
		QuantityLiters:      dto.QuantityLiters,
		PreferredDate:       dto.PreferredDate,
		PreferredTime:       dto.PreferredTime,
		SpecialInstructions: dto.SpecialInstructions,
		DeliveryLocations:   dto.DeliveryLocations,
		Trucks:              types.TruckDetails{},
		SelectedTanks:       selectedTanks,
		SelectedEquipment:   selectedEquipment,
		SelectedSites:       selectedSites,
		Status:              enums.BookingStatusPending,

		RackPrice:             breakdown.RackPrice,
		CustomerPriceModifier: breakdown.CustomerPriceModifier,
		FuelPricePerLiter:     breakdown.FuelPricePerLiter,
		FederalCarbonTax:      breakdown.FederalCarbonTax,
		QuebecCarbonTax:       breakdown.QuebecCarbonTax,
		GSTRate:               breakdown.GSTRate,
		QSTRate:               breakdown.QSTRate,
		Subtotal:              breakdown.Subtotal,
		TotalPrice:            breakdown.Total,
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
	}
	return fromModel(created), nil
}

func (s *service) Get(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.findOwned(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	return fromModel(booking), nil
}

func (s *service) List(ctx context.Context, requesterID uuid.UUID, isAdmin bool, params ListParams) (*ListResult, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", params.Status))
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	filter := ListFilter{
		Status: params.Status,
		Limit:  params.Limit,
		Cursor: cursor,
	}
	if !isAdmin {
		filter.UserID = &requesterID
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &ListResult{}
	if len(rows) > limit {
		last := rows[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		rows = rows[:limit]
	}
	result.Bookings = fromModels(rows)
	return result, nil
}

// UpdateStatus applies one lifecycle transition. Re-issuing the current status
// keeps the stored status and refreshes updated_at only.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, dto *UpdateStatusDTO) (*BookingDTO, error) {
	target, err := enums.ParseBookingStatus(dto.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown status %q", dto.Status))
	}

	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == target {
		booking.UpdatedAt = time.Now().UTC()
		if err := s.repo.Save(ctx, booking); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "refresh booking")
		}
		return fromModel(booking), nil
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move booking from %s to %s", booking.Status, target),
		)
	}

	affected, err := s.repo.UpdateStatus(ctx, id, booking.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking status")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "booking status changed since read")
	}

	booking.Status = target
	return fromModel(booking), nil
}

func (s *service) UpdateTrucks(ctx context.Context, id uuid.UUID, dto *UpdateTrucksDTO) (*BookingDTO, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status.IsTerminal() {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot assign trucks to a %s booking", booking.Status),
		)
	}

	booking.Trucks = dto.Trucks
	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update booking trucks")
	}
	return fromModel(booking), nil
}

// resolveRefs turns the requested resource IDs into stored snapshots. IDs that
// do not exist or belong to another customer are silently dropped unless
// strict mode is on, in which case the whole request is rejected.
func (s *service) resolveRefs(ctx context.Context, customerID uuid.UUID, dto *CreateBookingDTO) (types.TankRefs, types.EquipmentRefs, types.SiteRefs, error) {
	tanks, err := s.tanks.ListByIDsForUser(ctx, customerID, dto.TankIDs)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve tanks")
	}
	if err := s.checkResolved("tank", len(dto.TankIDs), len(tanks)); err != nil {
		return nil, nil, nil, err
	}

	equipment, err := s.equipment.ListByIDsForUser(ctx, customerID, dto.EquipmentIDs)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve equipment")
	}
	if err := s.checkResolved("equipment", len(dto.EquipmentIDs), len(equipment)); err != nil {
		return nil, nil, nil, err
	}

	sites, err := s.sites.ListByIDsForUser(ctx, customerID, dto.SiteIDs)
	if err != nil {
		return nil, nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve sites")
	}
	if err := s.checkResolved("site", len(dto.SiteIDs), len(sites)); err != nil {
		return nil, nil, nil, err
	}

	tankRefs := make(types.TankRefs, 0, len(tanks))
	for _, t := range tanks {
		tankRefs = append(tankRefs, types.TankRef{
			ID:         t.ID,
			Name:       t.Name,
			Identifier: t.Identifier,
			Capacity:   t.Capacity,
		})
	}
	equipmentRefs := make(types.EquipmentRefs, 0, len(equipment))
	for _, e := range equipment {
		equipmentRefs = append(equipmentRefs, types.EquipmentRef{
			ID:           e.ID,
			Name:         e.Name,
			UnitNumber:   e.UnitNumber,
			LicensePlate: e.LicensePlate,
			Capacity:     e.Capacity,
		})
	}
	siteRefs := make(types.SiteRefs, 0, len(sites))
	for _, site := range sites {
		siteRefs = append(siteRefs, types.SiteRef{
			ID:      site.ID,
			Name:    site.Name,
			Address: site.Address,
		})
	}
	return tankRefs, equipmentRefs, siteRefs, nil
}

func (s *service) checkResolved(kind string, requested, resolved int) error {
	if !s.strictRefs || requested == resolved {
		return nil
	}
	return pkgerrors.New(
		pkgerrors.CodeValidation,
		fmt.Sprintf("%d %s reference(s) could not be resolved", requested-resolved, kind),
	)
}

func (s *service) findOwned(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}
	return booking, nil
}

func (s *service) findByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find booking")
	}
	return booking, nil
}
