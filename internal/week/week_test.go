package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

func TestWeekContaining(t *testing.T) {
	// 2025-01-13(月)〜2025-01-19(日) の各曜日と月曜以外の境界を確認
	base := time.Date(2025, 1, 13, 0, 0, 0, 0, jst)
	for i := 0; i < 14; i++ {
		date := base.AddDate(0, 0, i-3).Add(15 * time.Hour)
		t.Run(date.Format("2006-01-02 Mon"), func(t *testing.T) {
			w := WeekContaining(date)

			assert.Equal(t, time.Monday, w.Start().Weekday())
			assert.Equal(t, time.Sunday, w.End().Weekday())
			assert.True(t, w.Contains(date))
			for j := 1; j < len(w); j++ {
				assert.Equal(t, w[j-1].AddDate(0, 0, 1), w[j])
			}
			assert.Equal(t, 0, w[0].Hour())
		})
	}
}

func TestWeekContaining_SundayBelongsToPreviousMonday(t *testing.T) {
	sunday := time.Date(2025, 1, 19, 12, 0, 0, 0, jst)

	w := WeekContaining(sunday)

	assert.Equal(t, time.Date(2025, 1, 13, 0, 0, 0, 0, jst), w.Start())
	assert.Equal(t, 6, w.DayOffset(sunday))
}

func TestWeekContaining_AcrossYearBoundary(t *testing.T) {
	w := WeekContaining(time.Date(2025, 1, 1, 0, 0, 0, 0, jst))

	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, jst), w.Start())
	assert.Equal(t, time.Date(2025, 1, 5, 0, 0, 0, 0, jst), w.End())
}

func TestWeek_DayOffset_NotContained(t *testing.T) {
	w := WeekContaining(time.Date(2025, 1, 15, 0, 0, 0, 0, jst))

	assert.Equal(t, -1, w.DayOffset(time.Date(2025, 1, 20, 0, 0, 0, 0, jst)))
}

func TestTimeSlots_Default(t *testing.T) {
	slots := TimeSlots(Config{StartHour: 9, EndHour: 18, MinuteInterval: 15})

	require.Len(t, slots, 37)
	assert.Equal(t, 9, slots[0].Hour)
	assert.Equal(t, 0, slots[0].Minute)
	assert.Equal(t, "9:00", slots[0].Label)

	last := slots[len(slots)-1]
	assert.Equal(t, 18, last.Hour)
	assert.Equal(t, 0, last.Minute)

	var marks []int
	for _, s := range slots {
		assert.LessOrEqual(t, s.Minutes(), 18*60)
		if s.IsHourMark {
			assert.Equal(t, 0, s.Minute)
			marks = append(marks, s.Hour)
		}
	}
	assert.Equal(t, []int{9, 10, 11, 12, 13, 14, 15, 16, 17, 18}, marks)
}

func TestTimeSlots_ThirtyMinutes(t *testing.T) {
	slots := TimeSlots(Config{StartHour: 10, EndHour: 12, MinuteInterval: 30})

	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30", "12:00"}, labels)
}

func TestIsValidRange(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name                       string
		startH, startM, endH, endM int
		expected                   bool
	}{
		{"通常の範囲", 9, 0, 10, 0, true},
		{"終了時刻ちょうど", 17, 45, 18, 0, true},
		{"終了が開始と同じ", 10, 0, 10, 0, false},
		{"終了が開始より前", 11, 0, 10, 0, false},
		{"開始が表示範囲より前", 8, 45, 10, 0, false},
		{"終了が18:00を超える", 17, 0, 18, 15, false},
		{"間隔に揃っていない", 9, 10, 10, 0, false},
		{"分が60以上", 9, 60, 10, 0, false},
		{"分が負", 9, -15, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidRange(tt.startH, tt.startM, tt.endH, tt.endM, cfg))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.ErrorIs(t, Config{StartHour: 18, EndHour: 9, MinuteInterval: 15}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{StartHour: 9, EndHour: 18, MinuteInterval: 7}.Validate(), ErrInvalidConfig)
	assert.ErrorIs(t, Config{StartHour: 9, EndHour: 25, MinuteInterval: 15}.Validate(), ErrInvalidConfig)
}
