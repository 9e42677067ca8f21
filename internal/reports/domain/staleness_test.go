package domain

import (
	"testing"
	"time"

	activitydomain "anchor_crm_backend/internal/activity/domain"
	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/visibility"

	"github.com/google/uuid"
)

func TestLastBusinessDayBoundary(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			// 2024-06-11 is a Tuesday.
			name: "tuesday rolls back to monday",
			now:  time.Date(2024, 6, 11, 14, 30, 0, 0, loc),
			want: time.Date(2024, 6, 10, 0, 0, 0, 0, loc),
		},
		{
			// 2024-06-10 is a Monday.
			name: "monday rolls back to friday",
			now:  time.Date(2024, 6, 10, 9, 0, 0, 0, loc),
			want: time.Date(2024, 6, 7, 0, 0, 0, 0, loc),
		},
		{
			// 2024-06-09 is a Sunday.
			name: "sunday rolls back to friday",
			now:  time.Date(2024, 6, 9, 23, 59, 0, 0, loc),
			want: time.Date(2024, 6, 7, 0, 0, 0, 0, loc),
		},
		{
			// 2024-06-08 is a Saturday.
			name: "saturday rolls back to friday",
			now:  time.Date(2024, 6, 8, 8, 0, 0, 0, loc),
			want: time.Date(2024, 6, 7, 0, 0, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		if got := LastBusinessDayBoundary(tc.now); !got.Equal(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestStaleLeadsFlagsNeglectedLeads(t *testing.T) {
	manager := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleZonalSalesManager, Status: orgdomain.UserActive}
	officer := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, ManagerID: &manager.ID, Status: orgdomain.UserActive}
	users := []orgdomain.User{manager, officer}

	// Tuesday; boundary is Monday 00:00.
	now := time.Date(2024, 6, 11, 11, 0, 0, 0, time.UTC)

	neglected := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindAnchor, Status: leaddomain.StatusOnboarding,
		AssignedTo: &officer.ID,
		CreatedAt:  now.AddDate(0, 0, -10),
		UpdatedAt:  now.AddDate(0, 0, -4),
	}
	fresh := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusKYCPending,
		AssignedTo: &officer.ID,
		CreatedAt:  now.AddDate(0, 0, -10),
		UpdatedAt:  now.Add(-2 * time.Hour),
	}

	got := StaleLeads(visibility.Compute(manager, users), users, []leaddomain.Lead{fresh, neglected}, nil, now)

	if len(got) != 1 || got[0].ID != neglected.ID {
		t.Fatalf("expected only the neglected lead, got %d", len(got))
	}
}

func TestStaleLeadsSkipsUsersWithRecentActivity(t *testing.T) {
	manager := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleZonalSalesManager, Status: orgdomain.UserActive}
	officer := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, ManagerID: &manager.ID, Status: orgdomain.UserActive}
	users := []orgdomain.User{manager, officer}

	now := time.Date(2024, 6, 11, 11, 0, 0, 0, time.UTC)
	old := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusFollowUp,
		AssignedTo: &officer.ID,
		CreatedAt:  now.AddDate(0, 0, -8),
	}

	entries := []activitydomain.Entry{{
		ID: uuid.New(), UserID: officer.ID, Action: "call_logged",
		CreatedAt: now.Add(-1 * time.Hour),
	}}

	if got := StaleLeads(visibility.Compute(manager, users), users, []leaddomain.Lead{old}, entries, now); len(got) != 0 {
		t.Fatalf("user with recent activity should not be reported, got %d leads", len(got))
	}
}

func TestStaleLeadsHonorsPerLeadActivity(t *testing.T) {
	manager := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleZonalSalesManager, Status: orgdomain.UserActive}
	officerA := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, ManagerID: &manager.ID, Status: orgdomain.UserActive}
	officerB := orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, ManagerID: &manager.ID, Status: orgdomain.UserActive}
	users := []orgdomain.User{manager, officerA, officerB}

	now := time.Date(2024, 6, 13, 10, 0, 0, 0, time.UTC) // Thursday

	touched := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusKYCPending,
		AssignedTo: &officerA.ID, CreatedAt: now.AddDate(0, 0, -6),
	}
	older := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusInvited,
		AssignedTo: &officerB.ID, CreatedAt: now.AddDate(0, 0, -9),
	}
	newer := leaddomain.Lead{
		ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusInvited,
		AssignedTo: &officerB.ID, CreatedAt: now.AddDate(0, 0, -3),
	}

	// officerA logged activity against their lead; officerB logged nothing.
	entries := []activitydomain.Entry{{
		ID: uuid.New(), UserID: officerA.ID, LeadID: &touched.ID,
		Action: "visit_completed", CreatedAt: now.Add(-3 * time.Hour),
	}}

	got := StaleLeads(visibility.Compute(manager, users), users, []leaddomain.Lead{newer, touched, older}, entries, now)

	if len(got) != 2 {
		t.Fatalf("expected officerB's two leads, got %d", len(got))
	}
	if got[0].ID != older.ID || got[1].ID != newer.ID {
		t.Error("stale leads must be ordered oldest-first")
	}
}
