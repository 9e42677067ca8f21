package domain

import (
	"errors"
	"testing"

	orgdomain "anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

func spokeLead(status Status, assignedTo *uuid.UUID) Lead {
	return Lead{ID: uuid.New(), Kind: KindDealer, Status: status, AssignedTo: assignedTo}
}

func anchorLead(status Status, assignedTo *uuid.UUID) Lead {
	return Lead{ID: uuid.New(), Kind: KindAnchor, Status: status, AssignedTo: assignedTo}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestApplyRequiresAssigneeWhenLeavingUnassigned(t *testing.T) {
	lead := spokeLead(StatusUnassigned, nil)

	_, err := Apply(lead, TransitionInput{Target: StatusInvited, ActorRole: orgdomain.RoleSalesOfficer})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition without assignee, got %v", err)
	}

	officer := uuid.New()
	res, err := Apply(lead, TransitionInput{Target: StatusInvited, ActorRole: orgdomain.RoleSalesOfficer, AssignTo: ptr(officer)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusInvited {
		t.Errorf("expected Invited, got %s", res.NewStatus)
	}
	if res.NewAssignedTo == nil || *res.NewAssignedTo != officer {
		t.Error("expected assignee to be set with the transition")
	}
}

func TestApplyNullsAssigneeWhenUnassigning(t *testing.T) {
	officer := uuid.New()
	lead := spokeLead(StatusInvited, ptr(officer))

	res, err := Apply(lead, TransitionInput{Target: StatusUnassigned, ActorRole: orgdomain.RoleZonalSalesManager})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewAssignedTo != nil {
		t.Error("unassigning must null the assignee")
	}
}

func TestApplyRejectsInconsistentRecord(t *testing.T) {
	// Assigned but marked unassigned: repair before transitioning.
	lead := spokeLead(StatusUnassigned, ptr(uuid.New()))
	if _, err := Apply(lead, TransitionInput{Target: StatusInvited, ActorRole: orgdomain.RoleSalesOfficer, AssignTo: ptr(uuid.New())}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for inconsistent record, got %v", err)
	}
}

func TestDocsSubmissionGateSubstitutesIntermediateStatus(t *testing.T) {
	officer := uuid.New()
	lead := spokeLead(StatusKYCPending, ptr(officer))

	res, err := Apply(lead, TransitionInput{Target: StatusPartialDocs, ActorRole: orgdomain.RoleSalesOfficer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusAwaitingDocsApproval {
		t.Fatalf("non-approver must land on Awaiting Docs Approval, got %s", res.NewStatus)
	}
	if !res.RequiresApproval {
		t.Error("expected RequiresApproval to be set")
	}
}

func TestDocsApprovalEdgeIsApproverOnly(t *testing.T) {
	officer := uuid.New()
	lead := spokeLead(StatusAwaitingDocsApproval, ptr(officer))

	if _, err := Apply(lead, TransitionInput{Target: StatusPartialDocs, ActorRole: orgdomain.RoleSalesOfficer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("sales role must not approve docs, got %v", err)
	}

	res, err := Apply(lead, TransitionInput{Target: StatusPartialDocs, ActorRole: orgdomain.RoleBIU})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusPartialDocs || res.RequiresApproval {
		t.Errorf("approver should apply Partial Docs directly, got %s", res.NewStatus)
	}

	rejected, err := Apply(lead, TransitionInput{Target: StatusFollowUp, ActorRole: orgdomain.RoleBusinessDevelopment})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rejected.NewStatus != StatusFollowUp {
		t.Errorf("docs rejection should land on Follow Up, got %s", rejected.NewStatus)
	}
}

func TestApproverMaySubmitDocsDirectly(t *testing.T) {
	lead := spokeLead(StatusKYCPending, ptr(uuid.New()))

	res, err := Apply(lead, TransitionInput{Target: StatusPartialDocs, ActorRole: orgdomain.RoleBusinessDevelopment})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusPartialDocs {
		t.Errorf("approver should bypass the gate, got %s", res.NewStatus)
	}
}

func TestTerminalStatesAcceptOnlyAdminReactivation(t *testing.T) {
	lead := spokeLead(StatusRejected, ptr(uuid.New()))

	if _, err := Apply(lead, TransitionInput{Target: StatusKYCPending, ActorRole: orgdomain.RoleAdmin}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition out of terminal state, got %v", err)
	}
	if _, err := Apply(lead, TransitionInput{Target: StatusFollowUp, ActorRole: orgdomain.RoleSalesOfficer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-admin reactivation, got %v", err)
	}

	res, err := Apply(lead, TransitionInput{Target: StatusFollowUp, ActorRole: orgdomain.RoleAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusFollowUp {
		t.Errorf("admin reactivation should land on Follow Up, got %s", res.NewStatus)
	}
}

func TestAnchorPendingApprovalResolution(t *testing.T) {
	creator := uuid.New()
	lead := anchorLead(StatusPendingApproval, ptr(creator))

	if _, err := Apply(lead, TransitionInput{Target: StatusUnassigned, ActorRole: orgdomain.RoleSalesOfficer}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for sales resolving pending approval, got %v", err)
	}

	res, err := Apply(lead, TransitionInput{Target: StatusUnassigned, ActorRole: orgdomain.RoleBIU})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewStatus != StatusUnassigned || res.NewAssignedTo != nil {
		t.Error("releasing into the pool must unassign the anchor")
	}
}

func TestApplyRejectsUnknownStatusForKind(t *testing.T) {
	lead := anchorLead(StatusLead, ptr(uuid.New()))

	// KYC Pending is a spoke status, not an anchor status.
	if _, err := Apply(lead, TransitionInput{Target: StatusKYCPending, ActorRole: orgdomain.RoleAdmin}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for foreign status, got %v", err)
	}
}

func TestAllowedTransitionsFiltersByRole(t *testing.T) {
	lead := spokeLead(StatusAwaitingDocsApproval, ptr(uuid.New()))

	if got := AllowedTransitions(lead, orgdomain.RoleSalesOfficer); len(got) != 0 {
		t.Fatalf("sales officer should have no edges from Awaiting Docs Approval, got %v", got)
	}

	got := AllowedTransitions(lead, orgdomain.RoleBIU)
	if len(got) != 2 || got[0] != StatusFollowUp || got[1] != StatusPartialDocs {
		t.Fatalf("expected sorted [Follow Up, Partial Docs], got %v", got)
	}
}

func TestAllowedTransitionsMidPipeline(t *testing.T) {
	lead := spokeLead(StatusActive, ptr(uuid.New()))

	got := AllowedTransitions(lead, orgdomain.RoleSalesOfficer)
	if len(got) != 1 || got[0] != StatusInactive {
		t.Fatalf("expected [Inactive], got %v", got)
	}
}
