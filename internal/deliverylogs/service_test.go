package deliverylogs

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

type stubLogRepo struct {
	created []models.DeliveryLog
}

func (s *stubLogRepo) Create(ctx context.Context, log *models.DeliveryLog) (*models.DeliveryLog, error) {
	log.ID = uuid.New()
	log.CreatedAt = time.Now().UTC()
	s.created = append(s.created, *log)
	return log, nil
}

func (s *stubLogRepo) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]models.DeliveryLog, error) {
	var list []models.DeliveryLog
	for _, l := range s.created {
		if l.BookingID == bookingID {
			list = append(list, l)
		}
	}
	return list, nil
}

func (s *stubLogRepo) ListRecent(ctx context.Context, limit int) ([]models.DeliveryLog, error) {
	if limit > len(s.created) {
		limit = len(s.created)
	}
	return s.created[:limit], nil
}

type stubBookingFinder struct {
	bookings map[uuid.UUID]*models.Booking
}

func (s *stubBookingFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	if b, ok := s.bookings[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newLogService(t *testing.T, repo Repository, finder bookingFinder) Service {
	t.Helper()
	svc, err := NewService(repo, finder)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRecordsTruckVisit(t *testing.T) {
	ownerID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), UserID: ownerID}
	repo := &stubLogRepo{}
	svc := newLogService(t, repo, &stubBookingFinder{bookings: map[uuid.UUID]*models.Booking{booking.ID: booking}})

	visitTime := time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC)
	log, err := svc.Create(context.Background(), &CreateLogDTO{
		BookingID:         booking.ID,
		TruckLicensePlate: "L123456",
		DriverName:        "M. Tremblay",
		LitersDelivered:   decimal.NewFromInt(1800),
		DeliveryTime:      &visitTime,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if log.BookingID != booking.ID || !log.DeliveryTime.Equal(visitTime) {
		t.Fatalf("unexpected log %+v", log)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one persisted log, got %d", len(repo.created))
	}
}

func TestCreateRejectsNonPositiveLiters(t *testing.T) {
	svc := newLogService(t, &stubLogRepo{}, &stubBookingFinder{bookings: map[uuid.UUID]*models.Booking{}})

	_, err := svc.Create(context.Background(), &CreateLogDTO{
		BookingID:         uuid.New(),
		TruckLicensePlate: "L123456",
		DriverName:        "M. Tremblay",
		LitersDelivered:   decimal.Zero,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateUnknownBookingNotFound(t *testing.T) {
	svc := newLogService(t, &stubLogRepo{}, &stubBookingFinder{bookings: map[uuid.UUID]*models.Booking{}})

	_, err := svc.Create(context.Background(), &CreateLogDTO{
		BookingID:         uuid.New(),
		TruckLicensePlate: "L123456",
		DriverName:        "M. Tremblay",
		LitersDelivered:   decimal.NewFromInt(500),
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateDefaultsDeliveryTimeToNow(t *testing.T) {
	ownerID := uuid.New()
	booking := &models.Booking{ID: uuid.New(), UserID: ownerID}
	svc := newLogService(t, &stubLogRepo{}, &stubBookingFinder{bookings: map[uuid.UUID]*models.Booking{booking.ID: booking}})

	fixed := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	svc.(*service).now = func() time.Time { return fixed }

	log, err := svc.Create(context.Background(), &CreateLogDTO{
		BookingID:         booking.ID,
		TruckLicensePlate: "L123456",
		DriverName:        "M. Tremblay",
		LitersDelivered:   decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !log.DeliveryTime.Equal(fixed) {
		t.Fatalf("expected clock default %v, got %v", fixed, log.DeliveryTime)
	}
}

func TestListForBookingForeignOwnerForbidden(t *testing.T) {
	booking := &models.Booking{ID: uuid.New(), UserID: uuid.New()}
	svc := newLogService(t, &stubLogRepo{}, &stubBookingFinder{bookings: map[uuid.UUID]*models.Booking{booking.ID: booking}})

	_, err := svc.ListForBooking(context.Background(), uuid.New(), false, booking.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// Admins read any booking's logs.
	if _, err := svc.ListForBooking(context.Background(), uuid.New(), true, booking.ID); err != nil {
		t.Fatalf("admin list: %v", err)
	}
}
