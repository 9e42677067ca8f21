// Package domain holds the report computations: stale-lead detection and
// target-vs-achievement aggregation. Both are pure functions over their
// inputs; the service layer only gathers data and applies visibility.
package domain

import (
	"sort"
	"time"

	activitydomain "anchor_crm_backend/internal/activity/domain"
	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/visibility"

	"github.com/google/uuid"
)

// LastBusinessDayBoundary returns the start of the last completed business
// day before now. Weekends roll back to Friday: on Sunday and Monday the
// boundary is Friday 00:00, otherwise it is the preceding calendar day.
func LastBusinessDayBoundary(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch now.Weekday() {
	case time.Sunday:
		return midnight.AddDate(0, 0, -2)
	case time.Monday:
		return midnight.AddDate(0, 0, -3)
	default:
		return midnight.AddDate(0, 0, -1)
	}
}

// StaleLeads flags leads needing attention: for every visible
// individual-contributor user with no logged activity since the boundary,
// every lead of theirs whose last touch predates the boundary and that no
// activity entry references since the boundary. Returned oldest-first, most
// neglected at the top. Read-only; mutates nothing.
func StaleLeads(scope visibility.Scope, allUsers []orgdomain.User, leads []leaddomain.Lead, entries []activitydomain.Entry, now time.Time) []leaddomain.Lead {
	boundary := LastBusinessDayBoundary(now)

	activeUsers := make(map[uuid.UUID]struct{})
	touchedLeads := make(map[uuid.UUID]struct{})
	for _, e := range entries {
		if e.CreatedAt.Before(boundary) {
			continue
		}
		activeUsers[e.UserID] = struct{}{}
		if e.LeadID != nil {
			touchedLeads[*e.LeadID] = struct{}{}
		}
	}

	idle := make(map[uuid.UUID]struct{})
	for _, u := range allUsers {
		if !u.Role.IsIndividualContributor() || u.Status != orgdomain.UserActive {
			continue
		}
		if !scope.Allows(u.ID) {
			continue
		}
		if _, active := activeUsers[u.ID]; !active {
			idle[u.ID] = struct{}{}
		}
	}

	var stale []leaddomain.Lead
	for _, lead := range leads {
		if lead.AssignedTo == nil {
			continue
		}
		if _, ok := idle[*lead.AssignedTo]; !ok {
			continue
		}
		if !lead.LastTouched().Before(boundary) {
			continue
		}
		if _, touched := touchedLeads[lead.ID]; touched {
			continue
		}
		stale = append(stale, lead)
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].LastTouched().Before(stale[j].LastTouched())
	})
	return stale
}
