package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"anchor_crm_backend/internal/leads/domain"
	"anchor_crm_backend/internal/leads/repository"
	"anchor_crm_backend/internal/leads/transport"
	orgdomain "anchor_crm_backend/internal/org/domain"
	"anchor_crm_backend/internal/storage"
	"anchor_crm_backend/platform/apperr"
	"anchor_crm_backend/platform/events"
	"anchor_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	leads map[uuid.UUID]domain.Lead
	docs  map[uuid.UUID][]domain.Document
	// conflictOnce makes the next ApplyTransition lose the race.
	conflictOnce bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads: make(map[uuid.UUID]domain.Lead),
		docs:  make(map[uuid.UUID][]domain.Document),
	}
}

func (f *fakeRepo) put(l domain.Lead) domain.Lead {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	f.leads[l.ID] = l
	return l
}

func (f *fakeRepo) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Lead, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeRepo) ListLeadsByKind(ctx context.Context, kind domain.Kind) ([]domain.Lead, error) {
	all, _ := f.ListLeads(ctx)
	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	return l, nil
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.put(domain.Lead{
		Name:       params.Name,
		Kind:       params.Kind,
		Status:     params.Status,
		AssignedTo: params.AssignedTo,
		CreatedBy:  params.CreatedBy,
		AnchorID:   params.AnchorID,
		DealValue:  params.DealValue,
		Product:    params.Product,
		Phone:      params.Phone,
	}), nil
}

func (f *fakeRepo) UpdateDetails(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[id]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.DealValue != nil {
		l.DealValue = *params.DealValue
	}
	f.leads[id] = l
	return l, nil
}

func (f *fakeRepo) ApplyTransition(ctx context.Context, params repository.TransitionParams) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leads[params.ID]
	if !ok {
		return domain.Lead{}, repository.ErrNotFound
	}
	if f.conflictOnce {
		f.conflictOnce = false
		return domain.Lead{}, repository.ErrConflict
	}
	if l.Status != params.ExpectedStatus || !sameAssignee(l.AssignedTo, params.ExpectedAssignedTo) {
		return domain.Lead{}, repository.ErrConflict
	}
	l.Status = params.NewStatus
	l.AssignedTo = params.NewAssignedTo
	f.leads[params.ID] = l
	return l, nil
}

func (f *fakeRepo) AddDocument(ctx context.Context, doc domain.Document) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc.ID = uuid.New()
	f.docs[doc.LeadID] = append(f.docs[doc.LeadID], doc)
	return doc, nil
}

func (f *fakeRepo) ListDocuments(ctx context.Context, leadID uuid.UUID) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[leadID], nil
}

func sameAssignee(a, b *uuid.UUID) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

type fakeDirectory struct {
	users []orgdomain.User
}

func (f *fakeDirectory) ListUsers(ctx context.Context) ([]orgdomain.User, error) {
	return f.users, nil
}

type fakeDocs struct{}

func (fakeDocs) Upload(ctx context.Context, leadID, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	return leadID + "/" + fileName, nil
}
func (fakeDocs) DownloadURL(ctx context.Context, objectKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://example.test/" + objectKey, ObjectKey: objectKey}, nil
}
func (fakeDocs) Delete(ctx context.Context, objectKey string) error { return nil }
func (fakeDocs) EnsureBucket(ctx context.Context) error             { return nil }
func (fakeDocs) ValidateUpload(contentType string, sizeBytes int64) error {
	if sizeBytes <= 0 {
		return errors.New("empty file")
	}
	return nil
}

func newTestService(repo *fakeRepo, users []orgdomain.User) *Service {
	log := logger.New("test")
	return New(repo, &fakeDirectory{users: users}, fakeDocs{}, events.NewInMemoryBus(log), log)
}

func testUser(role orgdomain.Role) orgdomain.User {
	return orgdomain.User{ID: uuid.New(), Role: role, Status: orgdomain.UserActive}
}

func TestTransitionHappyPath(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	lead := repo.put(domain.Lead{Kind: domain.KindDealer, Status: domain.StatusInvited, AssignedTo: &officer.ID})
	svc := newTestService(repo, []orgdomain.User{officer})

	resp, err := svc.Transition(context.Background(), officer.ID, lead.ID, transport.TransitionRequest{
		Target: string(domain.StatusKYCPending),
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if resp.Lead.Status != string(domain.StatusKYCPending) {
		t.Errorf("expected KYC Pending, got %s", resp.Lead.Status)
	}
	if resp.RequiresApproval {
		t.Error("plain pipeline move must not require approval")
	}
}

func TestTransitionDocsGateForNonApprover(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	lead := repo.put(domain.Lead{Kind: domain.KindVendor, Status: domain.StatusKYCPending, AssignedTo: &officer.ID})
	svc := newTestService(repo, []orgdomain.User{officer})

	resp, err := svc.Transition(context.Background(), officer.ID, lead.ID, transport.TransitionRequest{
		Target: string(domain.StatusPartialDocs),
	})
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if resp.Lead.Status != string(domain.StatusAwaitingDocsApproval) {
		t.Errorf("expected docs gate substitution, got %s", resp.Lead.Status)
	}
	if !resp.RequiresApproval {
		t.Error("gated submission must be flagged for approval")
	}
}

func TestTransitionConflictSurfacesAsConflict(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	lead := repo.put(domain.Lead{Kind: domain.KindDealer, Status: domain.StatusInvited, AssignedTo: &officer.ID})
	repo.conflictOnce = true
	svc := newTestService(repo, []orgdomain.User{officer})

	_, err := svc.Transition(context.Background(), officer.ID, lead.ID, transport.TransitionRequest{
		Target: string(domain.StatusKYCPending),
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}

	// The lead is untouched; the retry applies cleanly.
	resp, err := svc.Transition(context.Background(), officer.ID, lead.ID, transport.TransitionRequest{
		Target: string(domain.StatusKYCPending),
	})
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if resp.Lead.Status != string(domain.StatusKYCPending) {
		t.Errorf("retry should apply, got %s", resp.Lead.Status)
	}
}

func TestTransitionInvisibleLeadReadsAsNotFound(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	other := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	lead := repo.put(domain.Lead{Kind: domain.KindDealer, Status: domain.StatusInvited, AssignedTo: &other.ID})
	svc := newTestService(repo, []orgdomain.User{officer, other})

	_, err := svc.Transition(context.Background(), officer.ID, lead.ID, transport.TransitionRequest{
		Target: string(domain.StatusKYCPending),
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("expected not found for invisible lead, got %v", err)
	}
}

func TestCreateEnforcesStatusAssigneeCoupling(t *testing.T) {
	admin := testUser(orgdomain.RoleAdmin)
	repo := newFakeRepo()
	svc := newTestService(repo, []orgdomain.User{admin})

	_, err := svc.Create(context.Background(), admin.ID, transport.CreateLeadRequest{
		Name: "Acme Dealer",
		Kind: string(domain.KindDealer),
		Status: func() *string {
			s := string(domain.StatusInvited)
			return &s
		}(),
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("assigned status without assignee must fail validation, got %v", err)
	}

	created, err := svc.Create(context.Background(), admin.ID, transport.CreateLeadRequest{
		Name: "Acme Dealer",
		Kind: string(domain.KindDealer),
	})
	if err != nil {
		t.Fatalf("unassigned creation failed: %v", err)
	}
	if created.Status != string(domain.StatusUnassigned) || created.AssignedTo != nil {
		t.Errorf("default creation must be unassigned with nil assignee")
	}
}

func TestUpdateRejectsNonAnchorReference(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	anchor := repo.put(domain.Lead{Kind: domain.KindAnchor, Status: domain.StatusOnboarding, AssignedTo: &officer.ID})
	otherSpoke := repo.put(domain.Lead{Kind: domain.KindVendor, Status: domain.StatusInvited, AssignedTo: &officer.ID})
	dealer := repo.put(domain.Lead{Kind: domain.KindDealer, Status: domain.StatusKYCPending, AssignedTo: &officer.ID})
	svc := newTestService(repo, []orgdomain.User{officer})

	_, err := svc.Update(context.Background(), officer.ID, dealer.ID, transport.UpdateLeadRequest{
		AnchorID:    &otherSpoke.ID,
		AnchorIDSet: true,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("re-pointing a spoke at another spoke must fail validation, got %v", err)
	}

	missing := uuid.New()
	_, err = svc.Update(context.Background(), officer.ID, dealer.ID, transport.UpdateLeadRequest{
		AnchorID:    &missing,
		AnchorIDSet: true,
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("unknown anchor must read as not found, got %v", err)
	}

	if _, err := svc.Update(context.Background(), officer.ID, dealer.ID, transport.UpdateLeadRequest{
		AnchorID:    &anchor.ID,
		AnchorIDSet: true,
	}); err != nil {
		t.Fatalf("re-pointing at a real anchor failed: %v", err)
	}

	_, err = svc.Update(context.Background(), officer.ID, anchor.ID, transport.UpdateLeadRequest{
		AnchorID:    &anchor.ID,
		AnchorIDSet: true,
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("anchors must not accept an anchor reference, got %v", err)
	}
}

func TestUploadAndDownloadDocument(t *testing.T) {
	officer := testUser(orgdomain.RoleSalesOfficer)
	repo := newFakeRepo()
	lead := repo.put(domain.Lead{Kind: domain.KindDealer, Status: domain.StatusKYCPending, AssignedTo: &officer.ID})
	svc := newTestService(repo, []orgdomain.User{officer})

	doc, err := svc.UploadDocument(context.Background(), officer.ID, lead.ID, "pan.pdf", "application/pdf", nil, 1024)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	dl, err := svc.DocumentDownload(context.Background(), officer.ID, lead.ID, doc.ID)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if dl.Download == nil || dl.Download.URL == "" {
		t.Error("expected a presigned download URL")
	}
}
