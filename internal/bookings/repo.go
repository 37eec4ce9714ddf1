package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	"github.com/borealpetro/fueldesk-backend/pkg/pagination"
)

// ListFilter narrows a booking listing. A nil UserID means all users, which is
// reserved for admin queries.
type ListFilter struct {
	UserID *uuid.UUID
	Status enums.BookingStatus
	Limit  int
	Cursor *pagination.Cursor
}

// Repository exposes booking persistence operations.
type Repository interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filter ListFilter) ([]models.Booking, error)
	Save(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (int64, error)
	CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.BookingStatus]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// List returns up to Limit+1 rows so the caller can detect another page.
// Ordering is newest first with the id as a tiebreaker, matching the cursor.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Booking, error) {
	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var list []models.Booking
	err := q.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) Save(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateStatus performs a compare-and-set on the status column. The returned
// row count is zero when the booking moved out of the expected state between
// read and write.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.BookingStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *repository) CountByStatus(ctx context.Context, userID *uuid.UUID) (map[enums.BookingStatus]int64, error) {
	type row struct {
		Status enums.BookingStatus
		Count  int64
	}
	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var rows []row
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[enums.BookingStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
