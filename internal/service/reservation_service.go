package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/auth"
	apperrors "github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/errors"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/model"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/notify"
	"github.com/lorensation/SW1-specialty-coffee-shop-sub000/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	defaultPerPage = 20
	maxPerPage     = 100
)

// CreateReservationInput carries the fields of a reservation request.
type CreateReservationInput struct {
	Name      string
	Email     string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM
	PartySize int
	Message   string
}

// RescheduleInput moves a reservation to a new slot and party size.
type RescheduleInput struct {
	Date      string
	Time      string
	PartySize int
}

// ListReservationsInput filters and paginates reservation listings.
type ListReservationsInput struct {
	Status  model.ReservationStatus
	Date    string
	Page    int
	PerPage int
}

// ReservationPage is one page of reservations with pagination totals.
type ReservationPage struct {
	Items      []model.Reservation `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
}

// ReservationService orchestrates the reservation lifecycle: creation,
// status transitions, rescheduling and availability checks. It is the
// sole writer of reservation rows.
type ReservationService interface {
	Create(ctx context.Context, identity *auth.Identity, input CreateReservationInput) (*model.Reservation, error)
	List(ctx context.Context, identity *auth.Identity, input ListReservationsInput) (*ReservationPage, error)
	GetByID(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, identity *auth.Identity, id uuid.UUID, status model.ReservationStatus, note string) (*model.Reservation, error)
	Reschedule(ctx context.Context, identity *auth.Identity, id uuid.UUID, input RescheduleInput) (*model.Reservation, error)
	Cancel(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Reservation, error)
	CheckAvailability(ctx context.Context, date, timeSlot string) (*Availability, error)
}

type reservationService struct {
	repo   repository.ReservationRepository
	policy *CapacityPolicy
	mailer notify.Mailer
	events *notify.EventPublisher
}

// NewReservationService creates a new reservation service.
func NewReservationService(
	repo repository.ReservationRepository,
	policy *CapacityPolicy,
	mailer notify.Mailer,
	events *notify.EventPublisher,
) ReservationService {
	return &reservationService{
		repo:   repo,
		policy: policy,
		mailer: mailer,
		events: events,
	}
}

// Create validates the request and inserts a pending reservation. The
// capacity check and the insert share one transaction with a locking
// occupancy read, so two concurrent creates at the same slot cannot
// jointly exceed capacity.
func (s *reservationService) Create(ctx context.Context, identity *auth.Identity, input CreateReservationInput) (*model.Reservation, error) {
	if err := validateSlot(input.Date, input.Time); err != nil {
		return nil, err
	}
	if err := validateContact(input.Name, input.Email); err != nil {
		return nil, err
	}
	if input.PartySize < 1 {
		return nil, apperrors.NewValidation("party_size", "must be at least 1")
	}

	reservation := &model.Reservation{
		Name:      input.Name,
		Email:     input.Email,
		Date:      input.Date,
		Time:      input.Time,
		PartySize: input.PartySize,
		Status:    model.ReservationStatusPending,
		Message:   input.Message,
	}
	if identity != nil {
		ownerID := identity.ID
		reservation.UserID = &ownerID
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.ReservationRepository) error {
		occupancy, err := txRepo.SumPartySizeForUpdate(ctx, input.Date, input.Time)
		if err != nil {
			return apperrors.NewStorage("sum party size", err)
		}
		if avail := s.policy.Check(occupancy, input.PartySize); !avail.Available {
			return apperrors.NewConflict(fmt.Sprintf(
				"slot %s %s cannot seat %d more guests (%d of %d seats taken)",
				input.Date, input.Time, input.PartySize, avail.Occupancy, avail.Capacity))
		}
		if err := txRepo.Create(ctx, reservation); err != nil {
			return apperrors.NewStorage("create reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, coerceStorage("create reservation", err)
	}

	s.dispatch(ctx, notify.EmailReservationReceived, notify.SubjectReservationCreated, reservation)
	return reservation, nil
}

// List returns reservations visible to the caller: everything for
// admins, only the caller's own rows otherwise.
func (s *reservationService) List(ctx context.Context, identity *auth.Identity, input ListReservationsInput) (*ReservationPage, error) {
	if identity == nil {
		return nil, apperrors.NewForbidden("authentication required")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, apperrors.NewValidation("status", "unknown status")
	}
	if input.Date != "" {
		if _, err := time.Parse(dateLayout, input.Date); err != nil {
			return nil, apperrors.NewValidation("date", "must be YYYY-MM-DD")
		}
	}

	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	page := input.Page
	if page < 1 {
		page = 1
	}

	filter := repository.ReservationFilter{
		Status:  input.Status,
		Date:    input.Date,
		Page:    page,
		PerPage: perPage,
	}
	if !identity.IsAdmin() {
		ownerID := identity.ID
		filter.UserID = &ownerID
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStorage("list reservations", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &ReservationPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// GetByID fetches one reservation, enforcing ownership.
func (s *reservationService) GetByID(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Reservation, error) {
	return s.fetchOwned(ctx, identity, id)
}

// UpdateStatus is the staff-only transition operation. Moving a
// reservation into confirmed triggers the confirmation email.
func (s *reservationService) UpdateStatus(ctx context.Context, identity *auth.Identity, id uuid.UUID, status model.ReservationStatus, note string) (*model.Reservation, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.NewForbidden("administrator role required")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidation("status", "unknown status")
	}

	reservation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	// Re-cancelling is an idempotent no-op.
	if reservation.Status == model.ReservationStatusCancelled && status == model.ReservationStatusCancelled {
		return reservation, nil
	}
	if !reservation.Status.CanTransitionTo(status) {
		return nil, apperrors.NewConflict(fmt.Sprintf(
			"cannot move reservation from %s to %s", reservation.Status, status))
	}

	reservation.Status = status
	if note != "" {
		reservation.AdminNote = note
	}
	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, apperrors.NewStorage("update reservation status", err)
	}

	if status == model.ReservationStatusConfirmed {
		s.dispatch(ctx, notify.EmailReservationConfirmed, notify.SubjectReservationConfirmed, reservation)
	}
	return reservation, nil
}

// Reschedule moves a reservation to a new slot, re-validating capacity
// there. The reservation's own seats are discounted when the slot is
// unchanged so a same-slot party-size tweak is not double counted.
func (s *reservationService) Reschedule(ctx context.Context, identity *auth.Identity, id uuid.UUID, input RescheduleInput) (*model.Reservation, error) {
	if err := validateSlot(input.Date, input.Time); err != nil {
		return nil, err
	}
	if input.PartySize < 1 {
		return nil, apperrors.NewValidation("party_size", "must be at least 1")
	}

	reservation, err := s.fetchOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if reservation.Status == model.ReservationStatusCancelled || reservation.Status == model.ReservationStatusCompleted {
		return nil, apperrors.NewConflict(fmt.Sprintf(
			"cannot reschedule a %s reservation", reservation.Status))
	}

	sameSlot := reservation.Date == input.Date && reservation.Time == input.Time

	err = s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.ReservationRepository) error {
		occupancy, err := txRepo.SumPartySizeForUpdate(ctx, input.Date, input.Time)
		if err != nil {
			return apperrors.NewStorage("sum party size", err)
		}
		if sameSlot {
			occupancy -= reservation.PartySize
		}
		if avail := s.policy.Check(occupancy, input.PartySize); !avail.Available {
			return apperrors.NewConflict(fmt.Sprintf(
				"slot %s %s cannot seat %d more guests (%d of %d seats taken)",
				input.Date, input.Time, input.PartySize, avail.Occupancy, avail.Capacity))
		}

		reservation.Date = input.Date
		reservation.Time = input.Time
		reservation.PartySize = input.PartySize
		if err := txRepo.Update(ctx, reservation); err != nil {
			return apperrors.NewStorage("reschedule reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, coerceStorage("reschedule reservation", err)
	}
	return reservation, nil
}

// Cancel marks a reservation cancelled. Cancelling an already-cancelled
// reservation succeeds without changes.
func (s *reservationService) Cancel(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.fetchOwned(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	if reservation.Status == model.ReservationStatusCancelled {
		return reservation, nil
	}
	if !reservation.Status.CanTransitionTo(model.ReservationStatusCancelled) {
		return nil, apperrors.NewConflict(fmt.Sprintf(
			"cannot cancel a %s reservation", reservation.Status))
	}

	reservation.Status = model.ReservationStatusCancelled
	if err := s.repo.Update(ctx, reservation); err != nil {
		return nil, apperrors.NewStorage("cancel reservation", err)
	}
	return reservation, nil
}

// CheckAvailability reports the occupancy of a slot. Public operation,
// read-only, no locking.
func (s *reservationService) CheckAvailability(ctx context.Context, date, timeSlot string) (*Availability, error) {
	if err := validateSlot(date, timeSlot); err != nil {
		return nil, err
	}
	occupancy, err := s.repo.SumPartySize(ctx, date, timeSlot)
	if err != nil {
		return nil, apperrors.NewStorage("sum party size", err)
	}
	avail := s.policy.Occupancy(occupancy)
	return &avail, nil
}

func (s *reservationService) find(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("reservation")
		}
		return nil, apperrors.NewStorage("find reservation", err)
	}
	return reservation, nil
}

// fetchOwned loads a reservation and enforces the ownership rule:
// admins see everything, owners see their own rows, guest-created rows
// belong to nobody.
func (s *reservationService) fetchOwned(ctx context.Context, identity *auth.Identity, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.IsAdmin() {
		return reservation, nil
	}
	if identity == nil || !reservation.OwnedBy(identity.ID) {
		return nil, apperrors.NewForbidden("not the owner of this reservation")
	}
	return reservation, nil
}

// dispatch sends the email and event for a lifecycle step. Best effort:
// failures are logged and never surfaced to the caller.
func (s *reservationService) dispatch(ctx context.Context, kind notify.EmailKind, subject string, reservation *model.Reservation) {
	if s.mailer != nil {
		if err := s.mailer.SendReservationEmail(ctx, kind, reservation); err != nil {
			log.Printf("reservation %s: %v", reservation.ID, err)
		}
	}
	if payload, err := json.Marshal(reservation); err == nil {
		if err := s.events.Publish(ctx, subject, payload); err != nil {
			log.Printf("reservation %s: publish %s: %v", reservation.ID, subject, err)
		}
	}
}

func validateSlot(date, timeSlot string) error {
	if date == "" {
		return apperrors.NewValidation("date", "required")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperrors.NewValidation("date", "must be YYYY-MM-DD")
	}
	if timeSlot == "" {
		return apperrors.NewValidation("time", "required")
	}
	if _, err := time.Parse(timeLayout, timeSlot); err != nil {
		return apperrors.NewValidation("time", "must be HH:MM")
	}
	return nil
}

func validateContact(name, email string) error {
	if name == "" {
		return apperrors.NewValidation("name", "required")
	}
	if email == "" {
		return apperrors.NewValidation("email", "required")
	}
	return nil
}

// coerceStorage wraps non-domain transaction errors (e.g. a failed
// commit) as storage failures while passing typed errors through.
func coerceStorage(op string, err error) error {
	var (
		validation *apperrors.ValidationError
		notFound   *apperrors.NotFoundError
		forbidden  *apperrors.ForbiddenError
		conflict   *apperrors.ConflictError
		storage    *apperrors.StorageError
	)
	if errors.As(err, &validation) || errors.As(err, &notFound) ||
		errors.As(err, &forbidden) || errors.As(err, &conflict) ||
		errors.As(err, &storage) {
		return err
	}
	return apperrors.NewStorage(op, err)
}
