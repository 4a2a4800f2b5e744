package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
)

// ReservationFilter narrows reservation listings. Zero values mean "no
// filter"; Page is 1-based.
type ReservationFilter struct {
	Status  model.ReservationStatus
	Date    string
	UserID  *uuid.UUID
	Page    int
	PerPage int
}

// ReservationRepository defines reservation persistence operations.
// SumPartySizeForUpdate must be called inside WithTransaction: the
// locking read takes next-key locks on the slot index range so a
// concurrent create at the same slot blocks until commit.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	Update(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context, filter ReservationFilter) ([]model.Reservation, int64, error)
	SumPartySize(ctx context.Context, date, timeSlot string) (int, error)
	SumPartySizeForUpdate(ctx context.Context, date, timeSlot string) (int, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReservationRepository) error) error
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation.
func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

// Update saves an existing reservation.
func (r *reservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

// FindByID finds a reservation by ID.
func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// List returns a page of reservations matching the filter plus the
// total match count.
func (r *reservationRepository) List(ctx context.Context, filter ReservationFilter) ([]model.Reservation, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Reservation{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Date != "" {
		query = query.Where("date = ?", filter.Date)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PerPage > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PerPage).Limit(filter.PerPage)
	}

	var reservations []model.Reservation
	if err := query.Order("date ASC, time ASC, created_at ASC").Find(&reservations).Error; err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

// SumPartySize sums the party sizes of seat-holding reservations at a slot.
func (r *reservationRepository) SumPartySize(ctx context.Context, date, timeSlot string) (int, error) {
	return r.sumPartySize(ctx, date, timeSlot, false)
}

// SumPartySizeForUpdate is SumPartySize with a FOR UPDATE locking read.
func (r *reservationRepository) SumPartySizeForUpdate(ctx context.Context, date, timeSlot string) (int, error) {
	return r.sumPartySize(ctx, date, timeSlot, true)
}

func (r *reservationRepository) sumPartySize(ctx context.Context, date, timeSlot string, forUpdate bool) (int, error) {
	query := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Select("COALESCE(SUM(party_size), 0)").
		Where("date = ? AND time = ? AND status IN ?", date, timeSlot,
			[]model.ReservationStatus{model.ReservationStatusPending, model.ReservationStatusConfirmed})
	if forUpdate {
		query = query.Set("gorm:query_option", "FOR UPDATE")
	}

	var sum int
	if err := query.Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// WithTransaction executes a function within a database transaction.
func (r *reservationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo ReservationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &reservationRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
