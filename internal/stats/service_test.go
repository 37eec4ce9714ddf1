package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

type stubStatsRepo struct {
	byStatus  map[enums.BookingStatus]int64
	byRole    map[enums.UserRole]int64
	totals    *Totals
	totalsErr error
}

func (s *stubStatsRepo) CountBookingsByStatus(ctx context.Context) (map[enums.BookingStatus]int64, error) {
	return s.byStatus, nil
}

func (s *stubStatsRepo) CountUsersByRole(ctx context.Context) (map[enums.UserRole]int64, error) {
	return s.byRole, nil
}

func (s *stubStatsRepo) DeliveredTotals(ctx context.Context) (*Totals, error) {
	if s.totalsErr != nil {
		return nil, s.totalsErr
	}
	return s.totals, nil
}

func TestSummaryAggregatesCounts(t *testing.T) {
	repo := &stubStatsRepo{
		byStatus: map[enums.BookingStatus]int64{
			enums.BookingStatusPending:   4,
			enums.BookingStatusConfirmed: 2,
			enums.BookingStatusDelivered: 3,
			enums.BookingStatusCancelled: 1,
		},
		byRole: map[enums.UserRole]int64{
			enums.UserRoleCustomer: 12,
			enums.UserRoleAdmin:    2,
		},
		totals: &Totals{
			Revenue: decimal.RequireFromString("45210.75"),
			Liters:  decimal.NewFromInt(19800),
		},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalBookings != 10 {
		t.Fatalf("expected 10 total bookings, got %d", summary.TotalBookings)
	}
	if summary.PendingBookings != 4 || summary.DeliveredBookings != 3 {
		t.Fatalf("unexpected status breakdown %+v", summary)
	}
	if summary.TotalCustomers != 12 {
		t.Fatalf("admins must not count as customers, got %d", summary.TotalCustomers)
	}
	if !summary.TotalRevenue.Equal(decimal.RequireFromString("45210.75")) {
		t.Fatalf("unexpected revenue %s", summary.TotalRevenue)
	}
	if !summary.TotalLiters.Equal(decimal.NewFromInt(19800)) {
		t.Fatalf("unexpected liters %s", summary.TotalLiters)
	}
}

func TestSummaryEmptyPlatform(t *testing.T) {
	repo := &stubStatsRepo{
		byStatus: map[enums.BookingStatus]int64{},
		byRole:   map[enums.UserRole]int64{},
		totals:   &Totals{Revenue: decimal.Zero, Liters: decimal.Zero},
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalBookings != 0 || summary.TotalCustomers != 0 {
		t.Fatalf("expected zeroed summary, got %+v", summary)
	}
	if !summary.TotalRevenue.IsZero() {
		t.Fatalf("expected zero revenue, got %s", summary.TotalRevenue)
	}
}

func TestSummaryWrapsRepoFailure(t *testing.T) {
	repo := &stubStatsRepo{
		byStatus:  map[enums.BookingStatus]int64{},
		byRole:    map[enums.UserRole]int64{},
		totalsErr: errors.New("connection reset"),
	}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Summary(context.Background())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
