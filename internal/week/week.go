// Package week はMonday始まりの週グリッドとタイムスロットを扱う。
package week

import (
	"errors"
	"fmt"
	"time"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// ErrInvalidConfig グリッド設定が不正
var ErrInvalidConfig = errors.New("グリッド設定が不正です")

// Config 週グリッドの表示設定
type Config struct {
	StartHour      int
	EndHour        int
	MinuteInterval int
}

// DefaultConfig 9:00〜18:00を15分刻みで表示するデフォルト設定
func DefaultConfig() Config {
	return Config{StartHour: 9, EndHour: 18, MinuteInterval: 15}
}

// Validate 設定値の整合性を確認
func (c Config) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("%w: 表示時間 %d〜%d", ErrInvalidConfig, c.StartHour, c.EndHour)
	}
	if c.MinuteInterval <= 0 || 60%c.MinuteInterval != 0 {
		return fmt.Errorf("%w: 間隔 %d分", ErrInvalidConfig, c.MinuteInterval)
	}
	return nil
}

// Week 月曜日から日曜日までの7日間
type Week [7]time.Time

// Start 週の月曜日
func (w Week) Start() time.Time {
	return w[0]
}

// End 週の日曜日
func (w Week) End() time.Time {
	return w[6]
}

// Contains 指定日がこの週に含まれるか
func (w Week) Contains(date time.Time) bool {
	for _, d := range w {
		if domain.SameDate(d, date) {
			return true
		}
	}
	return false
}

// DayOffset 指定日の月曜日からのオフセット。含まれない場合は-1
func (w Week) DayOffset(date time.Time) int {
	for i, d := range w {
		if domain.SameDate(d, date) {
			return i
		}
	}
	return -1
}

// WeekContaining 指定日を含む週（月曜始まり）を返す
func WeekContaining(date time.Time) Week {
	day := domain.DateOf(date)
	weekday := int(day.Weekday())
	monday := day.AddDate(0, 0, -((weekday + 6) % 7))

	var w Week
	for i := range w {
		w[i] = monday.AddDate(0, 0, i)
	}
	return w
}

// TimeSlots 開始時刻から終了時刻（含む）までのスロットを生成
func TimeSlots(cfg Config) []domain.TimeSlot {
	if cfg.MinuteInterval <= 0 {
		return nil
	}

	end := cfg.EndHour * 60
	slots := make([]domain.TimeSlot, 0, (end-cfg.StartHour*60)/cfg.MinuteInterval+1)
	for m := cfg.StartHour * 60; m <= end; m += cfg.MinuteInterval {
		hour, minute := m/60, m%60
		slots = append(slots, domain.TimeSlot{
			Hour:       hour,
			Minute:     minute,
			Label:      fmt.Sprintf("%d:%02d", hour, minute),
			IsHourMark: minute == 0,
		})
	}
	return slots
}

// IsValidRange 時間範囲がグリッド内で有効かどうか
func IsValidRange(startH, startM, endH, endM int, cfg Config) bool {
	if cfg.MinuteInterval <= 0 {
		return false
	}
	for _, h := range []int{startH, endH} {
		if h < cfg.StartHour || h > cfg.EndHour {
			return false
		}
	}
	for _, m := range []int{startM, endM} {
		if m < 0 || m >= 60 || m%cfg.MinuteInterval != 0 {
			return false
		}
	}

	start := startH*60 + startM
	end := endH*60 + endM
	return end > start && end <= cfg.EndHour*60
}
