package formatter

import (
	"time"

	json "github.com/goccy/go-json"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// FormatVersion エクスポート形式のバージョン
const FormatVersion = "1.0"

// ExportedCandidate エクスポートする候補1件
type ExportedCandidate struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	FormattedText   string `json:"formatted_text"`
	DayOfWeek       int    `json:"day_of_week"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Snapshot 候補一覧のエクスポート
type Snapshot struct {
	ExportedAt      string              `json:"exported_at"`
	FormatVersion   string              `json:"format_version"`
	TotalCandidates int                 `json:"total_candidates"`
	Candidates      []ExportedCandidate `json:"candidates"`
}

// NewSnapshot 並べ替えた候補からスナップショットを作成
func NewSnapshot(candidates []domain.Candidate, now time.Time) Snapshot {
	sorted := candidate.Sort(candidates)
	exported := make([]ExportedCandidate, 0, len(sorted))
	for _, c := range sorted {
		exported = append(exported, ExportedCandidate{
			ID:              c.ID,
			Date:            c.Date.Format(time.RFC3339),
			StartTime:       c.StartClock(),
			EndTime:         c.EndClock(),
			FormattedText:   Format(c, TemplateStandard),
			DayOfWeek:       int(c.Date.Weekday()),
			DurationMinutes: c.DurationMinutes(),
		})
	}
	return Snapshot{
		ExportedAt:      now.Format(time.RFC3339),
		FormatVersion:   FormatVersion,
		TotalCandidates: len(exported),
		Candidates:      exported,
	}
}

// Export スナップショットをJSONに変換
func Export(candidates []domain.Candidate, now time.Time) ([]byte, error) {
	return json.MarshalIndent(NewSnapshot(candidates, now), "", "  ")
}
