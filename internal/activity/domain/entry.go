// Package domain defines the append-only field activity log. Entries are
// written once and never mutated; staleness detection and achievement
// reporting read them as evidence.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one logged field action: a call, a visit, a record update. LeadID
// is set when the action touched a specific lead.
type Entry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	LeadID    *uuid.UUID
	Action    string
	Note      string
	CreatedAt time.Time
}
