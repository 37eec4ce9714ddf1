package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	"github.com/borealpetro/fueldesk-backend/pkg/pagination"
)

func setupBookingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	bookings := `
CREATE TABLE IF NOT EXISTS bookings (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  user_name TEXT NOT NULL,
  user_email TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  fuel_type TEXT NOT NULL,
  quantity_liters NUMERIC NOT NULL,
  dispensed_liters NUMERIC,
  preferred_date TEXT NOT NULL,
  preferred_time TEXT NOT NULL,
  special_instructions TEXT,
  delivery_locations TEXT DEFAULT '{}',
  trucks TEXT,
  selected_tanks TEXT,
  selected_equipment TEXT,
  selected_sites TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  rack_price NUMERIC NOT NULL,
  customer_price_modifier NUMERIC NOT NULL,
  fuel_price_per_liter NUMERIC NOT NULL,
  federal_carbon_tax NUMERIC NOT NULL,
  quebec_carbon_tax NUMERIC NOT NULL,
  gst_rate NUMERIC NOT NULL,
  qst_rate NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  total_price NUMERIC NOT NULL,
  invoice_images TEXT DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(bookings).Error)
	return db
}

func createTestBooking(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.BookingStatus, created time.Time) *models.Booking {
	t.Helper()

	booking := &models.Booking{
		ID:                    uuid.New(),
		UserID:                userID,
		UserName:              "Test Customer",
		UserEmail:             "customer@example.com",
		DeliveryAddress:       "400 Rue Principale, Rouyn-Noranda",
		FuelType:              enums.FuelTypeDiesel,
		QuantityLiters:        decimal.NewFromInt(2000),
		PreferredDate:         "2026-09-10",
		PreferredTime:         "08:00",
		Status:                status,
		RackPrice:             decimal.RequireFromString("1.5000"),
		CustomerPriceModifier: decimal.Zero,
		FuelPricePerLiter:     decimal.RequireFromString("1.5000"),
		FederalCarbonTax:      decimal.RequireFromString("0.1400"),
		QuebecCarbonTax:       decimal.RequireFromString("0.0500"),
		GSTRate:               decimal.RequireFromString("0.05"),
		QSTRate:               decimal.RequireFromString("0.09975"),
		Subtotal:              decimal.RequireFromString("3380.00"),
		TotalPrice:            decimal.RequireFromString("3886.31"),
		CreatedAt:             created,
		UpdatedAt:             created,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func TestRepositoryListPagination(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now().UTC()

	oldest := createTestBooking(t, db, userID, enums.BookingStatusPending, now.Add(-2*time.Hour))
	middle := createTestBooking(t, db, userID, enums.BookingStatusConfirmed, now.Add(-time.Hour))
	newest := createTestBooking(t, db, userID, enums.BookingStatusPending, now)
	createTestBooking(t, db, otherID, enums.BookingStatusPending, now)

	list, err := repo.List(context.Background(), ListFilter{UserID: &userID, Limit: 2})
	require.NoError(t, err)
	// Limit+1 rows so the caller can detect the next page.
	require.Len(t, list, 3)
	assert.Equal(t, newest.ID, list[0].ID)
	assert.Equal(t, middle.ID, list[1].ID)

	cursor := &pagination.Cursor{CreatedAt: list[1].CreatedAt, ID: list[1].ID}
	second, err := repo.List(context.Background(), ListFilter{UserID: &userID, Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, oldest.ID, second[0].ID)
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	now := time.Now().UTC()
	createTestBooking(t, db, userID, enums.BookingStatusPending, now.Add(-time.Minute))
	confirmed := createTestBooking(t, db, userID, enums.BookingStatusConfirmed, now)

	list, err := repo.List(context.Background(), ListFilter{UserID: &userID, Status: enums.BookingStatusConfirmed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, confirmed.ID, list[0].ID)
}

func TestRepositoryUpdateStatusCompareAndSet(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	booking := createTestBooking(t, db, uuid.New(), enums.BookingStatusPending, time.Now().UTC())

	affected, err := repo.UpdateStatus(context.Background(), booking.ID, enums.BookingStatusPending, enums.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// The booking already left pending so the same transition must not apply twice.
	affected, err = repo.UpdateStatus(context.Background(), booking.ID, enums.BookingStatusPending, enums.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Zero(t, affected)

	fresh, err := repo.FindByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.BookingStatusConfirmed, fresh.Status)
}

func TestRepositoryCountByStatusScopesToUser(t *testing.T) {
	db := setupBookingsTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	otherID := uuid.New()
	now := time.Now().UTC()
	createTestBooking(t, db, userID, enums.BookingStatusPending, now)
	createTestBooking(t, db, userID, enums.BookingStatusPending, now)
	createTestBooking(t, db, userID, enums.BookingStatusDelivered, now)
	createTestBooking(t, db, otherID, enums.BookingStatusPending, now)

	counts, err := repo.CountByStatus(context.Background(), &userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[enums.BookingStatusPending])
	assert.Equal(t, int64(1), counts[enums.BookingStatusDelivered])

	all, err := repo.CountByStatus(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all[enums.BookingStatusPending])
}
