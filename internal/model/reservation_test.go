package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestReservationStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{"pending to confirmed", ReservationStatusPending, ReservationStatusConfirmed, true},
		{"pending to cancelled", ReservationStatusPending, ReservationStatusCancelled, true},
		{"pending to completed", ReservationStatusPending, ReservationStatusCompleted, false},
		{"confirmed to cancelled", ReservationStatusConfirmed, ReservationStatusCancelled, true},
		{"confirmed to completed", ReservationStatusConfirmed, ReservationStatusCompleted, true},
		{"confirmed back to pending", ReservationStatusConfirmed, ReservationStatusPending, false},
		{"cancelled is terminal", ReservationStatusCancelled, ReservationStatusPending, false},
		{"cancelled to confirmed", ReservationStatusCancelled, ReservationStatusConfirmed, false},
		{"completed is terminal", ReservationStatusCompleted, ReservationStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestReservationStatus_CountsTowardCapacity(t *testing.T) {
	assert.True(t, ReservationStatusPending.CountsTowardCapacity())
	assert.True(t, ReservationStatusConfirmed.CountsTowardCapacity())
	assert.False(t, ReservationStatusCancelled.CountsTowardCapacity())
	assert.False(t, ReservationStatusCompleted.CountsTowardCapacity())
}

func TestReservationStatus_Valid(t *testing.T) {
	assert.True(t, ReservationStatusPending.Valid())
	assert.True(t, ReservationStatusCompleted.Valid())
	assert.False(t, ReservationStatus("no-show").Valid())
	assert.False(t, ReservationStatus("").Valid())
}

func TestReservation_OwnedBy(t *testing.T) {
	ownerID := uuid.New()

	owned := Reservation{UserID: &ownerID}
	assert.True(t, owned.OwnedBy(ownerID))
	assert.False(t, owned.OwnedBy(uuid.New()))

	guest := Reservation{}
	assert.False(t, guest.OwnedBy(ownerID))
}
