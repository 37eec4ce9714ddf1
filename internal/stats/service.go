package stats

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// StatsDTO is the platform summary returned to admins.
type StatsDTO struct {
	TotalBookings     int64           `json:"total_bookings"`
	PendingBookings   int64           `json:"pending_bookings"`
	ConfirmedBookings int64           `json:"confirmed_bookings"`
	InTransitBookings int64           `json:"in_transit_bookings"`
	DeliveredBookings int64           `json:"delivered_bookings"`
	CancelledBookings int64           `json:"cancelled_bookings"`
	TotalCustomers    int64           `json:"total_customers"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalLiters       decimal.Decimal `json:"total_liters_delivered"`
}

// Service assembles the admin dashboard summary.
type Service interface {
	Summary(ctx context.Context) (*StatsDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a stats service. The repository is required.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stats: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Summary(ctx context.Context) (*StatsDTO, error) {
	byStatus, err := s.repo.CountBookingsByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count bookings")
	}
	byRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count users")
	}
	totals, err := s.repo.DeliveredTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum delivered bookings")
	}

	summary := &StatsDTO{
		PendingBookings:   byStatus[enums.BookingStatusPending],
		ConfirmedBookings: byStatus[enums.BookingStatusConfirmed],
		InTransitBookings: byStatus[enums.BookingStatusInTransit],
		DeliveredBookings: byStatus[enums.BookingStatusDelivered],
		CancelledBookings: byStatus[enums.BookingStatusCancelled],
		TotalCustomers:    byRole[enums.UserRoleCustomer],
		TotalRevenue:      totals.Revenue,
		TotalLiters:       totals.Liters,
	}
	for _, count := range byStatus {
		summary.TotalBookings += count
	}
	return summary, nil
}
