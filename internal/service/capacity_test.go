package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapacityPolicy_Check(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		occupancy int
		requested int
		available bool
		remaining int
	}{
		{
			name:      "empty slot accepts a party",
			capacity:  50,
			occupancy: 0,
			requested: 6,
			available: true,
			remaining: 50,
		},
		{
			name:      "party fits exactly",
			capacity:  50,
			occupancy: 45,
			requested: 5,
			available: true,
			remaining: 5,
		},
		{
			name:      "party exceeds remaining seats",
			capacity:  50,
			occupancy: 45,
			requested: 6,
			available: false,
			remaining: 5,
		},
		{
			name:      "full slot rejects any party",
			capacity:  50,
			occupancy: 50,
			requested: 1,
			available: false,
			remaining: 0,
		},
		{
			name:      "overbooked slot reports negative remaining",
			capacity:  50,
			occupancy: 55,
			requested: 1,
			available: false,
			remaining: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewCapacityPolicy(tt.capacity)
			avail := policy.Check(tt.occupancy, tt.requested)

			assert.Equal(t, tt.available, avail.Available)
			assert.Equal(t, tt.occupancy, avail.Occupancy)
			assert.Equal(t, tt.capacity, avail.Capacity)
			assert.Equal(t, tt.remaining, avail.Remaining)
		})
	}
}

func TestCapacityPolicy_Occupancy(t *testing.T) {
	policy := NewCapacityPolicy(50)

	avail := policy.Occupancy(0)
	assert.True(t, avail.Available)
	assert.Equal(t, 50, avail.Remaining)

	avail = policy.Occupancy(49)
	assert.True(t, avail.Available)
	assert.Equal(t, 1, avail.Remaining)

	avail = policy.Occupancy(50)
	assert.False(t, avail.Available)
	assert.Equal(t, 0, avail.Remaining)

	// Overbooked slots report as unavailable, never as an error.
	avail = policy.Occupancy(60)
	assert.False(t, avail.Available)
	assert.Equal(t, -10, avail.Remaining)
}
