package deliverylogs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
	"github.com/borealpetro/fueldesk-backend/pkg/pagination"
)

// bookingFinder is the slice of the bookings repository this service needs
// for ownership checks.
type bookingFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
}

// LogDTO is the API representation of a delivery log entry.
type LogDTO struct {
	ID                uuid.UUID       `json:"id"`
	BookingID         uuid.UUID       `json:"booking_id"`
	TruckLicensePlate string          `json:"truck_license_plate"`
	DriverName        string          `json:"driver_name"`
	LitersDelivered   decimal.Decimal `json:"liters_delivered"`
	DeliveryTime      time.Time       `json:"delivery_time"`
	Notes             *string         `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// CreateLogDTO carries one recorded truck visit.
type CreateLogDTO struct {
	BookingID         uuid.UUID       `json:"booking_id" validate:"required"`
	TruckLicensePlate string          `json:"truck_license_plate" validate:"required,max=20"`
	DriverName        string          `json:"driver_name" validate:"required,max=120"`
	LitersDelivered   decimal.Decimal `json:"liters_delivered" validate:"required"`
	DeliveryTime      *time.Time      `json:"delivery_time,omitempty"`
	Notes             *string         `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// Service records and reads delivery logs.
type Service interface {
	Create(ctx context.Context, dto *CreateLogDTO) (*LogDTO, error)
	ListForBooking(ctx context.Context, requesterID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]LogDTO, error)
	ListRecent(ctx context.Context, limit int) ([]LogDTO, error)
}

type service struct {
	repo     Repository
	bookings bookingFinder
	now      func() time.Time
}

// NewService builds a delivery log service. Both collaborators are required.
func NewService(repo Repository, bookings bookingFinder) (Service, error) {
	if repo == nil || bookings == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "deliverylogs: missing required dependency")
	}
	return &service{repo: repo, bookings: bookings, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, dto *CreateLogDTO) (*LogDTO, error) {
	if !dto.LitersDelivered.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "liters_delivered must be positive")
	}
	if _, err := s.findBooking(ctx, dto.BookingID); err != nil {
		return nil, err
	}

	deliveryTime := s.now().UTC()
	if dto.DeliveryTime != nil {
		deliveryTime = dto.DeliveryTime.UTC()
	}
	log := &models.DeliveryLog{
		BookingID:         dto.BookingID,
		TruckLicensePlate: dto.TruckLicensePlate,
		DriverName:        dto.DriverName,
		LitersDelivered:   dto.LitersDelivered,
		DeliveryTime:      deliveryTime,
		Notes:             dto.Notes,
	}
	created, err := s.repo.Create(ctx, log)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create delivery log")
	}
	return fromModel(created), nil
}

func (s *service) ListForBooking(ctx context.Context, requesterID uuid.UUID, isAdmin bool, bookingID uuid.UUID) ([]LogDTO, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}

	list, err := s.repo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list delivery logs")
	}
	return fromModels(list), nil
}

func (s *service) ListRecent(ctx context.Context, limit int) ([]LogDTO, error) {
	list, err := s.repo.ListRecent(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recent delivery logs")
	}
	return fromModels(list), nil
}

func (s *service) findBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find booking")
	}
	return booking, nil
}

func fromModel(m *models.DeliveryLog) *LogDTO {
	return &LogDTO{
		ID:                m.ID,
		BookingID:         m.BookingID,
		TruckLicensePlate: m.TruckLicensePlate,
		DriverName:        m.DriverName,
		LitersDelivered:   m.LitersDelivered,
		DeliveryTime:      m.DeliveryTime,
		Notes:             m.Notes,
		CreatedAt:         m.CreatedAt,
	}
}

func fromModels(list []models.DeliveryLog) []LogDTO {
	out := make([]LogDTO, 0, len(list))
	for i := range list {
		out = append(out, *fromModel(&list[i]))
	}
	return out
}
