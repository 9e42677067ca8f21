package hierarchy

import (
	"testing"

	"anchor_crm_backend/internal/org/domain"

	"github.com/google/uuid"
)

func user(id uuid.UUID, managerID *uuid.UUID) domain.User {
	return domain.User{ID: id, Role: domain.RoleSalesOfficer, ManagerID: managerID, Status: domain.UserActive}
}

func TestSubordinatesOfTransitiveClosure(t *testing.T) {
	nsm := uuid.New()
	rsm := uuid.New()
	officerA := uuid.New()
	officerB := uuid.New()
	unrelated := uuid.New()

	users := []domain.User{
		user(nsm, nil),
		user(rsm, &nsm),
		user(officerA, &rsm),
		user(officerB, &rsm),
		user(unrelated, nil),
	}

	got := SubordinatesOf(nsm, users)

	if len(got) != 3 {
		t.Fatalf("expected 3 subordinates, got %d", len(got))
	}
	for _, id := range []uuid.UUID{rsm, officerA, officerB} {
		if _, ok := got[id]; !ok {
			t.Errorf("expected %s in subordinate set", id)
		}
	}
	if _, ok := got[nsm]; ok {
		t.Error("subordinate set must not include the root user itself")
	}
	if _, ok := got[unrelated]; ok {
		t.Error("subordinate set must not include users outside the chain")
	}
}

func TestSubordinatesOfLeafUser(t *testing.T) {
	manager := uuid.New()
	officer := uuid.New()
	users := []domain.User{user(manager, nil), user(officer, &manager)}

	if got := SubordinatesOf(officer, users); len(got) != 0 {
		t.Fatalf("leaf user should have no subordinates, got %d", len(got))
	}
}

func TestSubordinatesOfTerminatesOnCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	// a -> b -> c -> a is malformed; expansion must stop, not loop.
	users := []domain.User{user(a, &c), user(b, &a), user(c, &b)}

	got := SubordinatesOf(a, users)
	if _, ok := got[a]; ok {
		t.Error("cycle expansion must not re-admit the root")
	}
	if len(got) != 2 {
		t.Fatalf("expected the two other cycle members, got %d", len(got))
	}
}

func TestCyclicUsers(t *testing.T) {
	root := uuid.New()
	ok1 := uuid.New()
	cycA := uuid.New()
	cycB := uuid.New()

	users := []domain.User{
		user(root, nil),
		user(ok1, &root),
		user(cycA, &cycB),
		user(cycB, &cycA),
	}

	got := CyclicUsers(users)
	if len(got) != 2 {
		t.Fatalf("expected 2 cyclic users, got %d", len(got))
	}

	if cyclic := CyclicUsers(users[:2]); len(cyclic) != 0 {
		t.Fatalf("well-formed forest should report no cycles, got %d", len(cyclic))
	}
}
