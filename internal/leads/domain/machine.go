package domain

import (
	"errors"
	"sort"

	orgdomain "anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when the target status is not reachable
// from the lead's current status for its kind, or when the transition would
// leave status and assignee inconsistent.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnauthorized is returned when the actor's role may not traverse the
// requested edge.
var ErrUnauthorized = errors.New("role not permitted for transition")

// TransitionInput carries one requested status change.
type TransitionInput struct {
	Target    Status
	ActorRole orgdomain.Role
	// AssignTo must be set when the lead leaves the unassigned status; it
	// may also be set mid-pipeline to reassign in the same call.
	AssignTo *uuid.UUID
}

// TransitionResult is the state the caller should persist. NewStatus may
// differ from the requested target when the docs-approval gate substitutes
// the intermediate status.
type TransitionResult struct {
	NewStatus        Status
	NewAssignedTo    *uuid.UUID
	RequiresApproval bool
}

// AllowedTransitions returns the target statuses the actor may request from
// the lead's current status, sorted for deterministic output. The
// docs-submission target is listed for non-approvers too: requesting it is
// legal, it just lands on the intermediate status.
func AllowedTransitions(lead Lead, role orgdomain.Role) []Status {
	edges := transitionsFor(lead.Kind)[lead.Status]

	out := make([]Status, 0, len(edges))
	for _, e := range edges {
		if roleAllowed(e.perm, role) {
			out = append(out, e.to)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply validates and computes one status transition. It is pure: the
// caller persists the result, conditioned on the status and assignee it
// read (single-writer-wins).
func Apply(lead Lead, in TransitionInput) (TransitionResult, error) {
	if !IsKnownStatus(lead.Kind, in.Target) {
		return TransitionResult{}, ErrInvalidTransition
	}
	if !orgdomain.IsKnownRole(in.ActorRole) {
		return TransitionResult{}, ErrUnauthorized
	}

	// A record that already violates the coupling invariant is not
	// transitioned further; the caller must repair it first.
	if (lead.AssignedTo == nil) != (lead.Status == StatusUnassigned) {
		return TransitionResult{}, ErrInvalidTransition
	}

	match, ok := findEdge(lead.Kind, lead.Status, in.Target)
	if !ok {
		return TransitionResult{}, ErrInvalidTransition
	}
	if !roleAllowed(match.perm, in.ActorRole) {
		return TransitionResult{}, ErrUnauthorized
	}

	resolved := in.Target
	requiresApproval := false

	// Docs-approval gate: a non-approver cannot place a spoke directly in
	// the documents-submitted status. The request lands on the intermediate
	// status and an approver resolves it. This is what rules out
	// self-approval.
	if lead.Kind.IsSpoke() &&
		in.Target == StatusPartialDocs &&
		lead.Status != StatusAwaitingDocsApproval &&
		!in.ActorRole.IsApprover() {
		resolved = StatusAwaitingDocsApproval
		requiresApproval = true
	}

	assignee, err := resolveAssignee(lead, resolved, in.AssignTo)
	if err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{
		NewStatus:        resolved,
		NewAssignedTo:    assignee,
		RequiresApproval: requiresApproval,
	}, nil
}

// resolveAssignee enforces the assignment/status coupling atomically with
// the status change.
func resolveAssignee(lead Lead, target Status, assignTo *uuid.UUID) (*uuid.UUID, error) {
	if target == StatusUnassigned {
		return nil, nil
	}

	if lead.Status == StatusUnassigned {
		if assignTo == nil {
			return nil, ErrInvalidTransition
		}
		return assignTo, nil
	}

	if assignTo != nil {
		return assignTo, nil
	}
	return lead.AssignedTo, nil
}

func findEdge(kind Kind, from, to Status) (edge, bool) {
	for _, e := range transitionsFor(kind)[from] {
		if e.to == to {
			return e, true
		}
	}
	return edge{}, false
}

func roleAllowed(perm permission, role orgdomain.Role) bool {
	switch perm {
	case permApprover:
		return role.IsApprover()
	case permAdmin:
		return role == orgdomain.RoleAdmin
	default:
		return orgdomain.IsKnownRole(role)
	}
}
