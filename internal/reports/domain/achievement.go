package domain

import (
	"sort"

	leaddomain "anchor_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// TargetSet holds one anchor-month target. Sanction and AUM figures
// originate outside the lead records; both target and achieved values are
// entered manually on the config and passed through untouched.
type TargetSet struct {
	StatusCountTarget     int     `json:"statusCountTarget"`
	DealValueTarget       float64 `json:"dealValueTarget"`
	SanctionValueTarget   float64 `json:"sanctionValueTarget"`
	SanctionValueAchieved float64 `json:"sanctionValueAchieved"`
	AUMValueTarget        float64 `json:"aumValueTarget"`
	AUMValueAchieved      float64 `json:"aumValueAchieved"`
}

// DashboardConfig is a manager's saved report configuration. Created and
// edited by admins, read here as immutable input. Targets is keyed by
// anchor id, then month ("YYYY-MM").
type DashboardConfig struct {
	UserID            uuid.UUID
	SelectedAnchorIDs []uuid.UUID
	StatusToTrack     []leaddomain.Status
	Targets           map[uuid.UUID]map[string]TargetSet
}

// AchievementRow is one anchor-month line of the target-vs-achievement
// report.
type AchievementRow struct {
	AnchorID              uuid.UUID `json:"anchorId"`
	AnchorName            string    `json:"anchorName"`
	Month                 string    `json:"month"`
	StatusCountTarget     int       `json:"statusCountTarget"`
	AchievedCount         int       `json:"achievedCount"`
	DealValueTarget       float64   `json:"dealValueTarget"`
	AchievedDealValue     float64   `json:"achievedDealValue"`
	SanctionValueTarget   float64   `json:"sanctionValueTarget"`
	SanctionValueAchieved float64   `json:"sanctionValueAchieved"`
	AUMValueTarget        float64   `json:"aumValueTarget"`
	AUMValueAchieved      float64   `json:"aumValueAchieved"`
}

// BuildAchievementReport joins configured targets against the spokes the
// manager can see. A spoke counts toward an (anchor, month) pair when its
// status is tracked and its last touch falls in that month. Rows are sorted
// by anchor name then month, so identical inputs always produce identical
// output. Target entries for anchors that no longer exist are skipped, not
// errors: configs may outlive their anchors.
func BuildAchievementReport(cfg DashboardConfig, anchors []leaddomain.Lead, visibleUserIDs map[uuid.UUID]struct{}, spokes []leaddomain.Lead, monthFilter string) []AchievementRow {
	anchorNames := make(map[uuid.UUID]string, len(anchors))
	for _, a := range anchors {
		anchorNames[a.ID] = a.Name
	}

	tracked := make(map[leaddomain.Status]struct{}, len(cfg.StatusToTrack))
	for _, s := range cfg.StatusToTrack {
		tracked[s] = struct{}{}
	}

	rows := make([]AchievementRow, 0)
	for anchorID, byMonth := range cfg.Targets {
		name, exists := anchorNames[anchorID]
		if !exists {
			continue
		}

		for month, target := range byMonth {
			if monthFilter != "" && month != monthFilter {
				continue
			}

			count := 0
			dealValue := 0.0
			for _, spoke := range spokes {
				if spoke.AnchorID == nil || *spoke.AnchorID != anchorID {
					continue
				}
				if spoke.AssignedTo == nil {
					continue
				}
				if _, visible := visibleUserIDs[*spoke.AssignedTo]; !visible {
					continue
				}
				if _, ok := tracked[spoke.Status]; !ok {
					continue
				}
				if spoke.LastTouched().Format("2006-01") != month {
					continue
				}
				count++
				dealValue += spoke.DealValue
			}

			rows = append(rows, AchievementRow{
				AnchorID:              anchorID,
				AnchorName:            name,
				Month:                 month,
				StatusCountTarget:     target.StatusCountTarget,
				AchievedCount:         count,
				DealValueTarget:       target.DealValueTarget,
				AchievedDealValue:     dealValue,
				SanctionValueTarget:   target.SanctionValueTarget,
				SanctionValueAchieved: target.SanctionValueAchieved,
				AUMValueTarget:        target.AUMValueTarget,
				AUMValueAchieved:      target.AUMValueAchieved,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AnchorName != rows[j].AnchorName {
			return rows[i].AnchorName < rows[j].AnchorName
		}
		if rows[i].Month != rows[j].Month {
			return rows[i].Month < rows[j].Month
		}
		return rows[i].AnchorID.String() < rows[j].AnchorID.String()
	})
	return rows
}
