package candidate

import (
	"sort"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// Sort 日付昇順、同じ日なら開始時刻昇順に並べたコピーを返す（安定ソート）
func Sort(candidates []domain.Candidate) []domain.Candidate {
	sorted := append([]domain.Candidate(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !domain.SameDate(sorted[i].Date, sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].StartMinutes() < sorted[j].StartMinutes()
	})
	return sorted
}

// MergeContiguous 同じ日で接する・重なる候補を1つにまとめた表示用の一覧を返す。
// 入力は変更しない。範囲が不正な候補は除外する。
func MergeContiguous(candidates []domain.Candidate) []domain.Candidate {
	valid := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.StartMinutes() < c.EndMinutes() {
			valid = append(valid, c)
		}
	}

	sorted := Sort(valid)
	merged := make([]domain.Candidate, 0, len(sorted))
	for _, c := range sorted {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if domain.SameDate(last.Date, c.Date) && c.StartMinutes() <= last.EndMinutes() {
				end := last.EndMinutes()
				if c.EndMinutes() > end {
					end = c.EndMinutes()
				}
				fullDay := last.IsFullDay && c.IsFullDay
				*last = last.WithRange(last.StartMinutes(), end)
				last.IsFullDay = fullDay
				continue
			}
		}
		merged = append(merged, c)
	}
	return merged
}

// Conflict 時間が重なっている候補の組
type Conflict struct {
	A domain.Candidate
	B domain.Candidate
}

// DetectConflicts 同じ日で時間が重なる候補の組をすべて返す。接しているだけなら重複ではない
func DetectConflicts(candidates []domain.Candidate) []Conflict {
	var conflicts []Conflict
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if !domain.SameDate(a.Date, b.Date) {
				continue
			}
			if a.StartMinutes() < b.EndMinutes() && a.EndMinutes() > b.StartMinutes() {
				conflicts = append(conflicts, Conflict{A: a, B: b})
			}
		}
	}
	return conflicts
}

// Within 候補がspanの日付・時間範囲に収まっているか
func Within(c, span domain.Candidate) bool {
	return domain.SameDate(c.Date, span.Date) &&
		c.StartMinutes() >= span.StartMinutes() &&
		c.EndMinutes() <= span.EndMinutes()
}
