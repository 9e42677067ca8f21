// Package visibility computes which records an actor may see, from role and
// org hierarchy. Scopes are computed per request from the full user list and
// never cached: a stale scope silently leaks or hides records after a role
// change or manager re-assignment.
package visibility

import (
	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/org/hierarchy"

	"github.com/google/uuid"
)

// Scope is one actor's resolved visibility. Zero value admits nothing.
type Scope struct {
	actorID uuid.UUID
	role    orgdomain.Role

	// all short-circuits the id set for global roles.
	all bool
	// statusBased marks the onboarding-specialist exception: lead
	// visibility keys off anchor status, not assignment.
	statusBased bool

	visible map[uuid.UUID]struct{}
}

// Compute resolves the actor's scope against the current user list. Role
// dispatch lives here and in the transition tables only.
func Compute(actor orgdomain.User, allUsers []orgdomain.User) Scope {
	s := Scope{
		actorID: actor.ID,
		role:    actor.Role,
		visible: map[uuid.UUID]struct{}{actor.ID: {}},
	}

	switch {
	case actor.Role.IsGlobal():
		s.all = true
	case actor.Role.IsManager():
		for id := range hierarchy.SubordinatesOf(actor.ID, allUsers) {
			s.visible[id] = struct{}{}
		}
	case actor.Role == orgdomain.RoleOnboardingSpecialist:
		s.statusBased = true
	}

	return s
}

// ActorID returns the actor the scope was computed for.
func (s Scope) ActorID() uuid.UUID { return s.actorID }

// Role returns the actor's role.
func (s Scope) Role() orgdomain.Role { return s.role }

// Allows reports whether records owned by userID are visible.
func (s Scope) Allows(userID uuid.UUID) bool {
	if s.all {
		return true
	}
	_, ok := s.visible[userID]
	return ok
}

// VisibleUserIDs materializes the visible-user-id set. Global roles see
// every id in allUsers.
func (s Scope) VisibleUserIDs(allUsers []orgdomain.User) map[uuid.UUID]struct{} {
	if s.all {
		out := make(map[uuid.UUID]struct{}, len(allUsers))
		for _, u := range allUsers {
			out[u.ID] = struct{}{}
		}
		return out
	}

	out := make(map[uuid.UUID]struct{}, len(s.visible))
	for id := range s.visible {
		out[id] = struct{}{}
	}
	return out
}

// FilterLeads keeps the leads the actor may see. For assignment-based roles
// that means leads assigned to a visible user; the unassigned pool is only
// visible to global roles. The onboarding specialist instead sees anchors in
// Onboarding status and the spokes attached to them, regardless of
// assignment, plus their own records.
func FilterLeads(s Scope, leads []leaddomain.Lead) []leaddomain.Lead {
	if s.statusBased {
		return filterOnboarding(s, leads)
	}
	if s.all {
		out := make([]leaddomain.Lead, len(leads))
		copy(out, leads)
		return out
	}

	out := make([]leaddomain.Lead, 0, len(leads))
	for _, lead := range leads {
		if lead.AssignedTo != nil && s.Allows(*lead.AssignedTo) {
			out = append(out, lead)
		}
	}
	return out
}

func filterOnboarding(s Scope, leads []leaddomain.Lead) []leaddomain.Lead {
	onboardingAnchors := make(map[uuid.UUID]struct{})
	for _, lead := range leads {
		if lead.Kind == leaddomain.KindAnchor && lead.Status == leaddomain.StatusOnboarding {
			onboardingAnchors[lead.ID] = struct{}{}
		}
	}

	out := make([]leaddomain.Lead, 0, len(leads))
	for _, lead := range leads {
		switch {
		case lead.Kind == leaddomain.KindAnchor && lead.Status == leaddomain.StatusOnboarding:
			out = append(out, lead)
		case lead.AnchorID != nil:
			if _, ok := onboardingAnchors[*lead.AnchorID]; ok {
				out = append(out, lead)
			}
		case lead.AssignedTo != nil && *lead.AssignedTo == s.actorID:
			out = append(out, lead)
		}
	}
	return out
}

// FilterOwned keeps the items whose owner is visible to the actor. Tasks
// and activity entries filter through this.
func FilterOwned[T any](s Scope, items []T, ownerOf func(T) uuid.UUID) []T {
	if s.all {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if s.Allows(ownerOf(item)) {
			out = append(out, item)
		}
	}
	return out
}
