package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus represents the lifecycle status of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed,
		ReservationStatusCancelled, ReservationStatusCompleted:
		return true
	}
	return false
}

// CountsTowardCapacity reports whether a reservation in this status
// occupies seats at its slot. Cancelled and completed reservations free
// their seats.
func (s ReservationStatus) CountsTowardCapacity() bool {
	return s == ReservationStatusPending || s == ReservationStatusConfirmed
}

// CanTransitionTo reports whether the status may move to next.
// Cancelled is terminal; completed is only reachable from confirmed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationStatusPending:
		return next == ReservationStatusConfirmed || next == ReservationStatusCancelled
	case ReservationStatusConfirmed:
		return next == ReservationStatusCancelled || next == ReservationStatusCompleted
	default:
		return false
	}
}

// Reservation represents a table booking request. Guest reservations
// have a nil UserID and are only manageable by staff. Cancellation is a
// status change, never a row removal.
type Reservation struct {
	ID        uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    *uuid.UUID        `json:"user_id,omitempty" gorm:"type:char(36);index"`
	Name      string            `json:"name" gorm:"size:255;not null"`
	Email     string            `json:"email" gorm:"size:255;not null"`
	Date      string            `json:"date" gorm:"size:10;not null;index:idx_reservations_slot,priority:1"`  // YYYY-MM-DD
	Time      string            `json:"time" gorm:"size:5;not null;index:idx_reservations_slot,priority:2"`   // HH:MM
	PartySize int               `json:"party_size" gorm:"not null"`
	Status    ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index:idx_reservations_slot,priority:3"`
	AdminNote string            `json:"admin_note,omitempty" gorm:"size:500"`
	Message   string            `json:"message,omitempty" gorm:"size:1000"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether the reservation belongs to userID. Guest
// reservations are owned by nobody.
func (r *Reservation) OwnedBy(userID uuid.UUID) bool {
	return r.UserID != nil && *r.UserID == userID
}
