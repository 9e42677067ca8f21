package domain

import (
	"time"

	"github.com/google/uuid"
)

// Lead is a sales record of any kind. Invariant: AssignedTo is nil exactly
// when Status is StatusUnassigned; the state machine rejects transitions
// that would break the coupling.
type Lead struct {
	ID         uuid.UUID
	Name       string
	Kind       Kind
	Status     Status
	AssignedTo *uuid.UUID
	CreatedBy  *uuid.UUID
	AnchorID   *uuid.UUID // set for Dealer/Vendor spokes
	DealValue  float64
	Product    string
	Phone      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// LastTouched returns the update timestamp, falling back to creation time.
// Staleness and achievement reporting both key off this value.
func (l Lead) LastTouched() time.Time {
	if l.UpdatedAt.IsZero() {
		return l.CreatedAt
	}
	return l.UpdatedAt
}
