package service

import (
	"context"
	"sync"
	"testing"

	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/tasks/domain"
	"anchor_crm_backend/internal/tasks/repository"
	"anchor_crm_backend/internal/tasks/transport"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[uuid.UUID]domain.Task)}
}

func (f *fakeStore) put(t domain.Task) domain.Task {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = domain.TaskToDo
	}
	f.tasks[t.ID] = t
	return t
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) Create(ctx context.Context, params repository.CreateTaskParams) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(domain.Task{
		Title:              params.Title,
		Description:        params.Description,
		AssignedTo:         params.AssignedTo,
		AssociatedAnchorID: params.AssociatedAnchorID,
		Priority:           params.Priority,
		DueDate:            params.DueDate,
		CreatedBy:          params.CreatedBy,
	}), nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, params repository.UpdateTaskParams) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, repository.ErrNotFound
	}
	if params.Title != nil {
		t.Title = *params.Title
	}
	if params.AssignedTo != nil {
		t.AssignedTo = *params.AssignedTo
	}
	if params.Status != nil {
		t.Status = *params.Status
	}
	if params.Priority != nil {
		t.Priority = *params.Priority
	}
	if params.DueDateSet {
		t.DueDate = params.DueDate
	}
	f.tasks[id] = t
	return t, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.tasks, id)
	return nil
}

type fakeDirectory struct {
	users []orgdomain.User
}

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]orgdomain.User, error) {
	return f.users, nil
}

func newTestService(store *fakeStore, users []orgdomain.User) *Service {
	return New(store, &fakeDirectory{users: users}, logger.New("test"))
}

// manager -> officer chain plus one unrelated officer.
func testOrg() (manager, officer, outsider orgdomain.User) {
	manager = orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleZonalSalesManager, Status: orgdomain.UserActive}
	officer = orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, ManagerID: &manager.ID, Status: orgdomain.UserActive}
	outsider = orgdomain.User{ID: uuid.New(), Role: orgdomain.RoleSalesOfficer, Status: orgdomain.UserActive}
	return manager, officer, outsider
}

func TestListFiltersByScope(t *testing.T) {
	manager, officer, outsider := testOrg()
	store := newFakeStore()
	store.put(domain.Task{Title: "own", AssignedTo: manager.ID, CreatedBy: manager.ID})
	store.put(domain.Task{Title: "subordinate", AssignedTo: officer.ID, CreatedBy: manager.ID})
	store.put(domain.Task{Title: "foreign", AssignedTo: outsider.ID, CreatedBy: outsider.ID})
	svc := newTestService(store, []orgdomain.User{manager, officer, outsider})

	tasks, err := svc.List(context.Background(), manager.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("manager should see 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.AssignedTo == outsider.ID {
			t.Error("foreign task leaked into manager scope")
		}
	}

	tasks, err = svc.List(context.Background(), officer.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "subordinate" {
		t.Errorf("officer should see only their own task, got %d", len(tasks))
	}
}

func TestCreateRejectsAssigneeOutsideScope(t *testing.T) {
	manager, _, outsider := testOrg()
	store := newFakeStore()
	svc := newTestService(store, []orgdomain.User{manager, outsider})

	_, err := svc.Create(context.Background(), manager.ID, transport.CreateTaskRequest{
		Title:      "call anchor",
		AssignedTo: outsider.ID,
	})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for out-of-scope assignee, got %v", err)
	}
}

func TestCreateDefaultsPriority(t *testing.T) {
	manager, officer, _ := testOrg()
	store := newFakeStore()
	svc := newTestService(store, []orgdomain.User{manager, officer})

	task, err := svc.Create(context.Background(), manager.ID, transport.CreateTaskRequest{
		Title:      "collect KYC docs",
		AssignedTo: officer.ID,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Priority != string(domain.PriorityMedium) {
		t.Errorf("expected default Medium priority, got %s", task.Priority)
	}
	if task.Status != string(domain.TaskToDo) {
		t.Errorf("expected To-Do status, got %s", task.Status)
	}
}

func TestUpdateStatusOnInvisibleTaskReadsAsNotFound(t *testing.T) {
	manager, _, outsider := testOrg()
	store := newFakeStore()
	task := store.put(domain.Task{Title: "foreign", AssignedTo: outsider.ID, CreatedBy: outsider.ID})
	svc := newTestService(store, []orgdomain.User{manager, outsider})

	status := string(domain.TaskCompleted)
	_, err := svc.Update(context.Background(), manager.ID, task.ID, transport.UpdateTaskRequest{Status: &status})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("invisible task must read as not found, got %v", err)
	}
}

func TestUpdateRejectsReassignOutsideScope(t *testing.T) {
	manager, officer, outsider := testOrg()
	store := newFakeStore()
	task := store.put(domain.Task{Title: "follow up", AssignedTo: officer.ID, CreatedBy: manager.ID})
	svc := newTestService(store, []orgdomain.User{manager, officer, outsider})

	_, err := svc.Update(context.Background(), manager.ID, task.ID, transport.UpdateTaskRequest{AssignedTo: &outsider.ID})
	if !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden for out-of-scope reassign, got %v", err)
	}
}

func TestDeleteVisibleTask(t *testing.T) {
	manager, officer, _ := testOrg()
	store := newFakeStore()
	task := store.put(domain.Task{Title: "done", AssignedTo: officer.ID, CreatedBy: manager.ID})
	svc := newTestService(store, []orgdomain.User{manager, officer})

	if err := svc.Delete(context.Background(), manager.ID, task.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.GetByID(context.Background(), task.ID); err != repository.ErrNotFound {
		t.Error("task should be gone after delete")
	}
}
