package candidate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

var jst = time.FixedZone("JST", 9*60*60)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, jst)
}

// cand テスト用の候補を作るヘルパー
func cand(id string, d, sh, sm, eh, em int) domain.Candidate {
	return domain.Candidate{
		ID:          id,
		Date:        day(d),
		StartHour:   sh,
		StartMinute: sm,
		EndHour:     eh,
		EndMinute:   em,
	}
}

// --- Sort テスト ---

func TestSort(t *testing.T) {
	input := []domain.Candidate{
		cand("c", 16, 13, 0, 14, 0),
		cand("a", 15, 10, 0, 11, 0),
		cand("b", 15, 9, 0, 10, 0),
		cand("d", 15, 9, 0, 9, 30),
	}

	sorted := Sort(input)

	ids := make([]string, 0, len(sorted))
	for _, c := range sorted {
		ids = append(ids, c.ID)
	}
	// 同じ開始時刻は元の順序を保つ
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
	assert.Equal(t, "c", input[0].ID, "入力は変更されない")
}

// --- MergeContiguous テスト ---

func TestMergeContiguous_Adjacent(t *testing.T) {
	merged := MergeContiguous([]domain.Candidate{
		cand("a", 15, 9, 0, 10, 0),
		cand("b", 15, 10, 0, 11, 0),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "09:00", merged[0].StartClock())
	assert.Equal(t, "11:00", merged[0].EndClock())
	assert.Equal(t, "a", merged[0].ID)
}

func TestMergeContiguous_Gap(t *testing.T) {
	input := []domain.Candidate{
		cand("a", 15, 9, 0, 10, 0),
		cand("b", 15, 10, 15, 11, 0),
	}

	merged := MergeContiguous(input)

	assert.Equal(t, input, merged)
}

func TestMergeContiguous_Overlapping(t *testing.T) {
	merged := MergeContiguous([]domain.Candidate{
		cand("b", 15, 9, 30, 10, 30),
		cand("a", 15, 9, 0, 10, 0),
		cand("c", 15, 9, 45, 10, 0),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "09:00", merged[0].StartClock())
	assert.Equal(t, "10:30", merged[0].EndClock())
}

func TestMergeContiguous_DifferentDates(t *testing.T) {
	merged := MergeContiguous([]domain.Candidate{
		cand("a", 15, 9, 0, 10, 0),
		cand("b", 16, 10, 0, 11, 0),
		cand("c", 15, 10, 0, 11, 0),
	})

	require.Len(t, merged, 2)
	assert.Equal(t, day(15), merged[0].Date)
	assert.Equal(t, "11:00", merged[0].EndClock())
	assert.Equal(t, day(16), merged[1].Date)
}

func TestMergeContiguous_Idempotent(t *testing.T) {
	input := []domain.Candidate{
		cand("a", 15, 9, 0, 10, 0),
		cand("b", 15, 10, 0, 11, 0),
		cand("c", 15, 13, 0, 14, 0),
		cand("d", 17, 9, 0, 18, 0),
		cand("e", 17, 12, 0, 12, 30),
		cand("f", 16, 16, 0, 17, 0),
	}

	once := MergeContiguous(input)
	twice := MergeContiguous(once)

	assert.Equal(t, once, twice)
	assert.Len(t, once, 4)
}

func TestMergeContiguous_FullDayFlag(t *testing.T) {
	full := FullDay(day(15))
	other := cand("x", 15, 10, 0, 11, 0)

	merged := MergeContiguous([]domain.Candidate{full, other})
	require.Len(t, merged, 1)
	assert.False(t, merged[0].IsFullDay)

	merged = MergeContiguous([]domain.Candidate{full})
	require.Len(t, merged, 1)
	assert.True(t, merged[0].IsFullDay)
}

func TestMergeContiguous_SkipsInvalidRanges(t *testing.T) {
	merged := MergeContiguous([]domain.Candidate{
		cand("a", 15, 9, 0, 10, 0),
		cand("reversed", 15, 12, 0, 11, 0),
		cand("empty", 15, 13, 0, 13, 0),
	})

	require.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ID)
}

// --- DetectConflicts テスト ---

func TestDetectConflicts(t *testing.T) {
	tests := []struct {
		name     string
		input    []domain.Candidate
		expected int
	}{
		{"重なりあり", []domain.Candidate{cand("a", 15, 9, 0, 10, 0), cand("b", 15, 9, 30, 10, 30)}, 1},
		{"接しているだけ", []domain.Candidate{cand("a", 15, 9, 0, 10, 0), cand("b", 15, 10, 0, 11, 0)}, 0},
		{"別の日", []domain.Candidate{cand("a", 15, 9, 0, 10, 0), cand("b", 16, 9, 30, 10, 30)}, 0},
		{"包含", []domain.Candidate{cand("a", 15, 9, 0, 12, 0), cand("b", 15, 10, 0, 11, 0), cand("c", 15, 11, 30, 13, 0)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, DetectConflicts(tt.input), tt.expected)
		})
	}
}

func TestDetectConflicts_Pair(t *testing.T) {
	a := cand("a", 15, 9, 0, 10, 0)
	b := cand("b", 15, 9, 30, 10, 30)

	conflicts := DetectConflicts([]domain.Candidate{a, b})

	require.Len(t, conflicts, 1)
	assert.Equal(t, Conflict{A: a, B: b}, conflicts[0])
}
