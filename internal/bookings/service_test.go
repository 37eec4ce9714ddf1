package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
	"github.com/borealpetro/fueldesk-backend/pkg/types"
)

type stubBookingsRepo struct {
	booking       *models.Booking
	created       *models.Booking
	listed        []models.Booking
	listFilter    ListFilter
	updateRows    int64
	updatedFrom   enums.BookingStatus
	updatedTo     enums.BookingStatus
	saved         *models.Booking
	statusCounts  map[enums.BookingStatus]int64
	createErr     error
	updateRowsSet bool
}

func (s *stubBookingsRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	s.created = booking
	return booking, nil
}

func (s *stubBookingsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if s.booking == nil || s.booking.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.booking, nil
}

func (s *stubBookingsRepo) List(ctx context.Context, filter ListFilter) ([]models.Booking, error) {
	s.listFilter = filter
	return s.listed, nil
}

func (s *stubBookingsRepo) Save(ctx context.Context, booking *models.Booking) error {
	s.saved = booking
	return nil
}

func (s *stubBookingsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (int64, error) {
	s.updatedFrom = from
	s.updatedTo = to
	if s.updateRowsSet {
		return s.updateRows, nil
	}
	return 1, nil
}

func (s *stubBookingsRepo) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.BookingStatus]int64, error) {
	return s.statusCounts, nil
}

type stubUserFinder struct {
	user *models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubPricingService struct {
	cfg *models.PricingConfig
}

func (s *stubPricingService) GetConfig(ctx context.Context) (*models.PricingConfig, error) {
	return s.cfg, nil
}

func (s *stubPricingService) UpdateConfig(ctx context.Context, input pricing.UpdateConfigInput) (*models.PricingConfig, error) {
	panic("not implemented")
}

type stubTankResolver struct {
	tanks []models.FuelTank
}

func (s *stubTankResolver) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.FuelTank, error) {
	return s.tanks, nil
}

type stubEquipmentResolver struct {
	items []models.Equipment
}

func (s *stubEquipmentResolver) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.Equipment, error) {
	return s.items, nil
}

type stubSiteResolver struct {
	sites []models.DeliverySite
}

func (s *stubSiteResolver) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.DeliverySite, error) {
	return s.sites, nil
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func defaultConfig() *models.PricingConfig {
	return &models.PricingConfig{
		ID:               uuid.New(),
		RackPrice:        dec("1.50"),
		FederalCarbonTax: dec("0.14"),
		QuebecCarbonTax:  dec("0.05"),
		GSTRate:          dec("0.05"),
		QSTRate:          dec("0.09975"),
		Version:          1,
	}
}

func newTestService(t *testing.T, repo Repository, users userFinder, cfg *models.PricingConfig, tanks tankResolver, equipment equipmentResolver, sites siteResolver, strict bool) Service {
	t.Helper()
	if tanks == nil {
		tanks = &stubTankResolver{}
	}
	if equipment == nil {
		equipment = &stubEquipmentResolver{}
	}
	if sites == nil {
		sites = &stubSiteResolver{}
	}
	svc, err := NewService(repo, users, &stubPricingService{cfg: cfg}, tanks, equipment, sites, strict)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc
}

func TestCreateLocksPriceSnapshot(t *testing.T) {
	customerID := uuid.New()
	repo := &stubBookingsRepo{}
	users := &stubUserFinder{user: &models.User{
		ID:            customerID,
		Email:         "ops@nordfuel.ca",
		Name:          "Nord Fuel Ops",
		Role:          enums.UserRoleCustomer,
		PriceModifier: decimal.Zero,
	}}
	svc := newTestService(t, repo, users, defaultConfig(), nil, nil, nil, false)

	got, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "1 Rue Principale, Montreal",
		FuelType:        "diesel",
		QuantityLiters:  dec("1000"),
		PreferredDate:   "2025-07-15",
		PreferredTime:   "08:00",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if got.Status != enums.BookingStatusPending {
		t.Fatalf("expected pending got %s", got.Status)
	}
	if !got.Subtotal.Equal(dec("1690.00")) {
		t.Fatalf("unexpected subtotal %s", got.Subtotal)
	}
	if !got.TotalPrice.Equal(dec("1943.08")) {
		t.Fatalf("unexpected total %s", got.TotalPrice)
	}
	if !got.FuelPricePerLiter.Equal(dec("1.50")) {
		t.Fatalf("unexpected per-liter price %s", got.FuelPricePerLiter)
	}
	if repo.created == nil {
		t.Fatal("expected booking persisted")
	}
}

func TestCreateAppliesCustomerModifier(t *testing.T) {
	customerID := uuid.New()
	repo := &stubBookingsRepo{}
	users := &stubUserFinder{user: &models.User{
		ID:            customerID,
		Email:         "fleet@laurentide.ca",
		Name:          "Laurentide Fleet",
		PriceModifier: dec("0.10"),
	}}
	svc := newTestService(t, repo, users, defaultConfig(), nil, nil, nil, false)

	got, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "22 Chemin du Lac",
		FuelType:        "diesel",
		QuantityLiters:  dec("100"),
		PreferredDate:   "2025-07-20",
		PreferredTime:   "10:30",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !got.FuelPricePerLiter.Equal(dec("1.60")) {
		t.Fatalf("expected modifier applied, got %s", got.FuelPricePerLiter)
	}
	if !got.CustomerPriceModifier.Equal(dec("0.10")) {
		t.Fatalf("unexpected stored modifier %s", got.CustomerPriceModifier)
	}
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	customerID := uuid.New()
	users := &stubUserFinder{user: &models.User{ID: customerID}}
	svc := newTestService(t, &stubBookingsRepo{}, users, defaultConfig(), nil, nil, nil, false)

	_, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "somewhere",
		FuelType:        "diesel",
		QuantityLiters:  dec("0"),
		PreferredDate:   "2025-07-20",
		PreferredTime:   "10:30",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateRejectsUnknownFuelType(t *testing.T) {
	customerID := uuid.New()
	users := &stubUserFinder{user: &models.User{ID: customerID}}
	svc := newTestService(t, &stubBookingsRepo{}, users, defaultConfig(), nil, nil, nil, false)

	_, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "somewhere",
		FuelType:        "kerosene",
		QuantityLiters:  dec("100"),
		PreferredDate:   "2025-07-20",
		PreferredTime:   "10:30",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCreateDropsUnresolvedRefsByDefault(t *testing.T) {
	customerID := uuid.New()
	tankID := uuid.New()
	repo := &stubBookingsRepo{}
	users := &stubUserFinder{user: &models.User{ID: customerID}}
	tanks := &stubTankResolver{tanks: []models.FuelTank{{
		ID:         tankID,
		UserID:     customerID,
		Name:       "Yard tank",
		Identifier: "T-01",
	}}}
	svc := newTestService(t, repo, users, defaultConfig(), tanks, nil, nil, false)

	got, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "somewhere",
		FuelType:        "diesel",
		QuantityLiters:  dec("100"),
		PreferredDate:   "2025-07-20",
		PreferredTime:   "10:30",
		TankIDs:         []uuid.UUID{tankID, uuid.New()},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(got.SelectedTanks) != 1 {
		t.Fatalf("expected one resolved tank got %d", len(got.SelectedTanks))
	}
	if got.SelectedTanks[0].ID != tankID {
		t.Fatalf("unexpected tank ref %s", got.SelectedTanks[0].ID)
	}
}

func TestCreateStrictModeRejectsUnresolvedRefs(t *testing.T) {
	customerID := uuid.New()
	users := &stubUserFinder{user: &models.User{ID: customerID}}
	svc := newTestService(t, &stubBookingsRepo{}, users, defaultConfig(), &stubTankResolver{}, nil, nil, true)

	_, err := svc.Create(context.Background(), customerID, &CreateBookingDTO{
		DeliveryAddress: "somewhere",
		FuelType:        "diesel",
		QuantityLiters:  dec("100"),
		PreferredDate:   "2025-07-20",
		PreferredTime:   "10:30",
		TankIDs:         []uuid.UUID{uuid.New()},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGetForeignBookingForbidden(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: enums.BookingStatusPending,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.Get(context.Background(), uuid.New(), false, bookingID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestGetAdminSeesAnyBooking(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: enums.BookingStatusConfirmed,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	got, err := svc.Get(context.Background(), uuid.New(), true, bookingID)
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if got.ID != bookingID {
		t.Fatalf("unexpected booking %s", got.ID)
	}
}

func TestListScopesCustomerToOwnBookings(t *testing.T) {
	requesterID := uuid.New()
	repo := &stubBookingsRepo{}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.List(context.Background(), requesterID, false, ListParams{})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.listFilter.UserID == nil || *repo.listFilter.UserID != requesterID {
		t.Fatal("expected filter scoped to requester")
	}
}

func TestListAdminUnscoped(t *testing.T) {
	repo := &stubBookingsRepo{}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.List(context.Background(), uuid.New(), true, ListParams{Status: enums.BookingStatusDelivered})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.listFilter.UserID != nil {
		t.Fatal("expected unscoped filter for admin")
	}
	if repo.listFilter.Status != enums.BookingStatusDelivered {
		t.Fatalf("unexpected status filter %s", repo.listFilter.Status)
	}
}

func TestUpdateStatusForwardTransition(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		UserID: uuid.New(),
		Status: enums.BookingStatusPending,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	got, err := svc.UpdateStatus(context.Background(), bookingID, &UpdateStatusDTO{Status: "confirmed"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if got.Status != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected status %s", got.Status)
	}
	if repo.updatedFrom != enums.BookingStatusPending || repo.updatedTo != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected transition %s -> %s", repo.updatedFrom, repo.updatedTo)
	}
}

func TestUpdateStatusSameStatusRefreshesTimestamp(t *testing.T) {
	bookingID := uuid.New()
	staleTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:        bookingID,
		Status:    enums.BookingStatusConfirmed,
		UpdatedAt: staleTime,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	got, err := svc.UpdateStatus(context.Background(), bookingID, &UpdateStatusDTO{Status: "confirmed"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if got.Status != enums.BookingStatusConfirmed {
		t.Fatalf("unexpected status %s", got.Status)
	}
	if repo.updatedTo != "" {
		t.Fatal("expected no status transition write")
	}
	if repo.saved == nil {
		t.Fatal("expected a touch write for the repeated status")
	}
	if !repo.saved.UpdatedAt.After(staleTime) {
		t.Fatalf("updated_at not refreshed, still %v", repo.saved.UpdatedAt)
	}
	if !got.UpdatedAt.After(staleTime) {
		t.Fatalf("returned booking keeps stale updated_at %v", got.UpdatedAt)
	}
}

func TestUpdateStatusRejectsSkippedState(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		Status: enums.BookingStatusPending,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.UpdateStatus(context.Background(), bookingID, &UpdateStatusDTO{Status: "delivered"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUpdateStatusRejectsLeavingTerminal(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		Status: enums.BookingStatusCancelled,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.UpdateStatus(context.Background(), bookingID, &UpdateStatusDTO{Status: "pending"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUpdateStatusConcurrentWriteConflicts(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{
		booking: &models.Booking{
			ID:     bookingID,
			Status: enums.BookingStatusPending,
		},
		updateRowsSet: true,
		updateRows:    0,
	}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.UpdateStatus(context.Background(), bookingID, &UpdateStatusDTO{Status: "confirmed"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUpdateTrucksRejectsTerminalBooking(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		Status: enums.BookingStatusDelivered,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	_, err := svc.UpdateTrucks(context.Background(), bookingID, &UpdateTrucksDTO{
		Trucks: types.TruckDetails{{LicensePlate: "L123456", DriverName: "M. Roy"}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestUpdateTrucksReplacesAssignment(t *testing.T) {
	bookingID := uuid.New()
	repo := &stubBookingsRepo{booking: &models.Booking{
		ID:     bookingID,
		Status: enums.BookingStatusConfirmed,
	}}
	svc := newTestService(t, repo, &stubUserFinder{}, defaultConfig(), nil, nil, nil, false)

	got, err := svc.UpdateTrucks(context.Background(), bookingID, &UpdateTrucksDTO{
		Trucks: types.TruckDetails{{LicensePlate: "L123456", DriverName: "M. Roy", CapacityLiters: dec("15000")}},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(got.Trucks) != 1 || got.Trucks[0].LicensePlate != "L123456" {
		t.Fatalf("unexpected trucks %+v", got.Trucks)
	}
	if repo.saved == nil {
		t.Fatal("expected booking saved")
	}
}
