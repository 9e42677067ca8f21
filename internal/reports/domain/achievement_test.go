package domain

import (
	"reflect"
	"testing"
	"time"

	leaddomain "anchor_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

func TestBuildAchievementReport(t *testing.T) {
	manager := uuid.New()
	officer := uuid.New()
	hidden := uuid.New()
	visible := map[uuid.UUID]struct{}{manager: {}, officer: {}}

	anchorA := leaddomain.Lead{ID: uuid.New(), Name: "Apex Steel", Kind: leaddomain.KindAnchor, Status: leaddomain.StatusActive}
	anchorB := leaddomain.Lead{ID: uuid.New(), Name: "Borealis Motors", Kind: leaddomain.KindAnchor, Status: leaddomain.StatusActive}
	anchors := []leaddomain.Lead{anchorA, anchorB}

	june := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)

	spokes := []leaddomain.Lead{
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorA.ID, AssignedTo: &officer, DealValue: 100, UpdatedAt: june},
		{ID: uuid.New(), Kind: leaddomain.KindVendor, Status: leaddomain.StatusActive, AnchorID: &anchorA.ID, AssignedTo: &manager, DealValue: 250, UpdatedAt: june},
		// Wrong month.
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorA.ID, AssignedTo: &officer, DealValue: 999, UpdatedAt: july},
		// Untracked status.
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusInvited, AnchorID: &anchorA.ID, AssignedTo: &officer, DealValue: 50, UpdatedAt: june},
		// Assignee outside the visible set.
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorA.ID, AssignedTo: &hidden, DealValue: 70, UpdatedAt: june},
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorB.ID, AssignedTo: &officer, DealValue: 40, UpdatedAt: june},
	}

	cfg := DashboardConfig{
		UserID:        manager,
		StatusToTrack: []leaddomain.Status{leaddomain.StatusActive},
		Targets: map[uuid.UUID]map[string]TargetSet{
			anchorA.ID: {
				"2024-06": {StatusCountTarget: 5, DealValueTarget: 500, SanctionValueTarget: 100, SanctionValueAchieved: 80},
				"2024-07": {StatusCountTarget: 3, DealValueTarget: 300},
			},
			anchorB.ID: {
				"2024-06": {StatusCountTarget: 2, DealValueTarget: 100},
			},
		},
	}

	rows := BuildAchievementReport(cfg, anchors, visible, spokes, "")

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Sorted by anchor name then month.
	if rows[0].AnchorName != "Apex Steel" || rows[0].Month != "2024-06" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[0].AchievedCount != 2 || rows[0].AchievedDealValue != 350 {
		t.Errorf("anchor A June: got count=%d value=%v, want 2/350", rows[0].AchievedCount, rows[0].AchievedDealValue)
	}
	if rows[0].SanctionValueAchieved != 80 {
		t.Errorf("manually entered sanction value must pass through, got %v", rows[0].SanctionValueAchieved)
	}
	if rows[1].Month != "2024-07" || rows[1].AchievedCount != 1 || rows[1].AchievedDealValue != 999 {
		t.Errorf("anchor A July row wrong: %+v", rows[1])
	}
	if rows[2].AnchorName != "Borealis Motors" || rows[2].AchievedCount != 1 {
		t.Errorf("anchor B row wrong: %+v", rows[2])
	}
}

func TestBuildAchievementReportMonthFilter(t *testing.T) {
	anchor := leaddomain.Lead{ID: uuid.New(), Name: "Apex Steel", Kind: leaddomain.KindAnchor}
	cfg := DashboardConfig{
		Targets: map[uuid.UUID]map[string]TargetSet{
			anchor.ID: {
				"2024-06": {StatusCountTarget: 1},
				"2024-07": {StatusCountTarget: 2},
			},
		},
	}

	rows := BuildAchievementReport(cfg, []leaddomain.Lead{anchor}, nil, nil, "2024-07")
	if len(rows) != 1 || rows[0].Month != "2024-07" {
		t.Fatalf("month filter should keep a single row, got %v", rows)
	}
}

func TestBuildAchievementReportSkipsDeletedAnchors(t *testing.T) {
	cfg := DashboardConfig{
		Targets: map[uuid.UUID]map[string]TargetSet{
			uuid.New(): {"2024-06": {StatusCountTarget: 1}},
		},
	}

	if rows := BuildAchievementReport(cfg, nil, nil, nil, ""); len(rows) != 0 {
		t.Fatalf("targets for missing anchors are skipped, got %d rows", len(rows))
	}
}

func TestBuildAchievementReportIsDeterministic(t *testing.T) {
	officer := uuid.New()
	visible := map[uuid.UUID]struct{}{officer: {}}
	anchorA := leaddomain.Lead{ID: uuid.New(), Name: "Apex Steel", Kind: leaddomain.KindAnchor}
	anchorB := leaddomain.Lead{ID: uuid.New(), Name: "Borealis Motors", Kind: leaddomain.KindAnchor}
	anchors := []leaddomain.Lead{anchorA, anchorB}

	june := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	spokes := []leaddomain.Lead{
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorA.ID, AssignedTo: &officer, DealValue: 10, UpdatedAt: june},
		{ID: uuid.New(), Kind: leaddomain.KindDealer, Status: leaddomain.StatusActive, AnchorID: &anchorB.ID, AssignedTo: &officer, DealValue: 20, UpdatedAt: june},
	}

	cfg := DashboardConfig{
		StatusToTrack: []leaddomain.Status{leaddomain.StatusActive},
		Targets: map[uuid.UUID]map[string]TargetSet{
			anchorA.ID: {"2024-06": {}, "2024-05": {}},
			anchorB.ID: {"2024-06": {}},
		},
	}

	first := BuildAchievementReport(cfg, anchors, visible, spokes, "")
	for i := 0; i < 10; i++ {
		if again := BuildAchievementReport(cfg, anchors, visible, spokes, ""); !reflect.DeepEqual(first, again) {
			t.Fatal("identical inputs must yield identical rows")
		}
	}
}
