package visibility

import (
	"testing"

	leaddomain "anchor_crm_backend/internal/leads/domain"
	orgdomain "anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

func makeUser(role orgdomain.Role, managerID *uuid.UUID) orgdomain.User {
	return orgdomain.User{ID: uuid.New(), Role: role, ManagerID: managerID, Status: orgdomain.UserActive}
}

func assignedSpoke(owner uuid.UUID) leaddomain.Lead {
	return leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusInvited, AssignedTo: &owner}
}

func TestManagerSeesSelfAndSubordinates(t *testing.T) {
	manager := makeUser(orgdomain.RoleZonalSalesManager, nil)
	report := makeUser(orgdomain.RoleSalesOfficer, &manager.ID)
	outsider := makeUser(orgdomain.RoleSalesOfficer, nil)
	users := []orgdomain.User{manager, report, outsider}

	scope := Compute(manager, users)
	ids := scope.VisibleUserIDs(users)

	if len(ids) != 2 {
		t.Fatalf("expected 2 visible ids, got %d", len(ids))
	}
	if !scope.Allows(manager.ID) || !scope.Allows(report.ID) {
		t.Error("manager must see self and report")
	}
	if scope.Allows(outsider.ID) {
		t.Error("manager must not see unrelated users")
	}
}

func TestLeadFilteringPerActor(t *testing.T) {
	manager := makeUser(orgdomain.RoleRegionalSalesManager, nil)
	report := makeUser(orgdomain.RoleSalesOfficer, &manager.ID)
	outsider := makeUser(orgdomain.RoleSalesOfficer, nil)
	users := []orgdomain.User{manager, report, outsider}

	lead := assignedSpoke(report.ID)
	leads := []leaddomain.Lead{lead}

	if got := FilterLeads(Compute(manager, users), leads); len(got) != 1 {
		t.Errorf("manager should see the report's lead, got %d", len(got))
	}
	if got := FilterLeads(Compute(report, users), leads); len(got) != 1 {
		t.Errorf("owner should see their own lead, got %d", len(got))
	}
	if got := FilterLeads(Compute(outsider, users), leads); len(got) != 0 {
		t.Errorf("unrelated user should see nothing, got %d", len(got))
	}
}

func TestGlobalRolesSeeEverything(t *testing.T) {
	admin := makeUser(orgdomain.RoleAdmin, nil)
	biu := makeUser(orgdomain.RoleBIU, nil)
	officer := makeUser(orgdomain.RoleSalesOfficer, nil)
	users := []orgdomain.User{admin, biu, officer}

	leads := []leaddomain.Lead{assignedSpoke(officer.ID)}

	for _, actor := range []orgdomain.User{admin, biu} {
		scope := Compute(actor, users)
		if len(scope.VisibleUserIDs(users)) != len(users) {
			t.Errorf("%s should see all users", actor.Role)
		}
		if got := FilterLeads(scope, leads); len(got) != 1 {
			t.Errorf("%s should see all leads", actor.Role)
		}
	}
}

func TestUnassignedLeadsHiddenFromNonGlobalRoles(t *testing.T) {
	officer := makeUser(orgdomain.RoleSalesOfficer, nil)
	admin := makeUser(orgdomain.RoleAdmin, nil)
	users := []orgdomain.User{officer, admin}

	pool := leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusUnassigned}
	if got := FilterLeads(Compute(officer, users), []leaddomain.Lead{pool}); len(got) != 0 {
		t.Fatalf("unassigned pool leads are not visible to an officer, got %d", len(got))
	}
	if got := FilterLeads(Compute(admin, users), []leaddomain.Lead{pool}); len(got) != 1 {
		t.Fatalf("unassigned pool leads are visible to global roles, got %d", len(got))
	}
}

func TestOnboardingSpecialistStatusBasedVisibility(t *testing.T) {
	specialist := makeUser(orgdomain.RoleOnboardingSpecialist, nil)
	officer := makeUser(orgdomain.RoleSalesOfficer, nil)
	users := []orgdomain.User{specialist, officer}

	onboardingAnchor := leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindAnchor, Status: leaddomain.StatusOnboarding, AssignedTo: &officer.ID}
	activeAnchor := leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindAnchor, Status: leaddomain.StatusActive, AssignedTo: &officer.ID}
	attachedSpoke := leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindVendor, Status: leaddomain.StatusKYCPending, AssignedTo: &officer.ID, AnchorID: &onboardingAnchor.ID}
	detachedSpoke := leaddomain.Lead{ID: uuid.New(), Kind: leaddomain.KindVendor, Status: leaddomain.StatusKYCPending, AssignedTo: &officer.ID, AnchorID: &activeAnchor.ID}

	scope := Compute(specialist, users)
	got := FilterLeads(scope, []leaddomain.Lead{onboardingAnchor, activeAnchor, attachedSpoke, detachedSpoke})

	if len(got) != 2 {
		t.Fatalf("expected onboarding anchor and its spoke, got %d leads", len(got))
	}
	for _, lead := range got {
		if lead.ID != onboardingAnchor.ID && lead.ID != attachedSpoke.ID {
			t.Errorf("unexpected lead %s in onboarding scope", lead.ID)
		}
	}
}

func TestFilterOwned(t *testing.T) {
	manager := makeUser(orgdomain.RoleZonalSalesManager, nil)
	report := makeUser(orgdomain.RoleSalesOfficer, &manager.ID)
	outsider := makeUser(orgdomain.RoleSalesOfficer, nil)
	users := []orgdomain.User{manager, report, outsider}

	type entry struct{ owner uuid.UUID }
	entries := []entry{{report.ID}, {outsider.ID}}

	got := FilterOwned(Compute(manager, users), entries, func(e entry) uuid.UUID { return e.owner })
	if len(got) != 1 || got[0].owner != report.ID {
		t.Fatalf("expected only the report's entry, got %v", got)
	}
}
