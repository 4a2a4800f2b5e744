package service

// Availability reports the seating state of one (date, time) slot.
// Remaining may be negative when existing bookings already exceed
// capacity; callers treat that as zero seats available.
type Availability struct {
	Available bool `json:"available"`
	Occupancy int  `json:"occupancy"`
	Capacity  int  `json:"capacity"`
	Remaining int  `json:"remaining"`
}

// CapacityPolicy decides whether a party fits in a slot. Capacity is a
// single configured number per slot; per-table layouts are not modeled.
type CapacityPolicy struct {
	capacity int
}

// NewCapacityPolicy creates a policy with the configured per-slot capacity.
func NewCapacityPolicy(capacity int) *CapacityPolicy {
	return &CapacityPolicy{capacity: capacity}
}

// Capacity returns the configured per-slot capacity.
func (p *CapacityPolicy) Capacity() int {
	return p.capacity
}

// Check answers whether a party of requested seats fits on top of the
// given occupancy.
func (p *CapacityPolicy) Check(occupancy, requested int) Availability {
	return Availability{
		Available: occupancy+requested <= p.capacity,
		Occupancy: occupancy,
		Capacity:  p.capacity,
		Remaining: p.capacity - occupancy,
	}
}

// Occupancy reports the slot state without a specific party size:
// available means at least one seat is free.
func (p *CapacityPolicy) Occupancy(occupancy int) Availability {
	return Availability{
		Available: occupancy < p.capacity,
		Occupancy: occupancy,
		Capacity:  p.capacity,
		Remaining: p.capacity - occupancy,
	}
}
