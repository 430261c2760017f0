// Package candidate は日程候補の生成・並べ替え・結合・重複検出と、その保管を扱う。
package candidate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
	"github.com/k-negishi/schedule-candidate-picker/internal/week"
)

var (
	// ErrInvalidRange 候補の時間範囲が不正
	ErrInvalidRange = errors.New("候補の時間範囲が不正です")
	// ErrNotFound 候補が見つからない
	ErrNotFound = errors.New("候補が見つかりません")
)

// 終日候補の時間帯
const (
	fullDayStartHour = 9
	fullDayEndHour   = 18
)

// NewID 候補IDを発行
func NewID() string {
	return uuid.NewString()
}

// Validate 候補の範囲が逆転・長さゼロ・間隔ずれでないことを確認
func Validate(c domain.Candidate, interval int) error {
	for _, m := range []int{c.StartMinute, c.EndMinute} {
		if m < 0 || m >= 60 {
			return fmt.Errorf("%w: 分の値 %d", ErrInvalidRange, m)
		}
		if interval > 0 && m%interval != 0 {
			return fmt.Errorf("%w: %d分が%d分間隔に揃っていません", ErrInvalidRange, m, interval)
		}
	}
	if c.StartHour < 0 || c.EndMinutes() > 24*60 {
		return fmt.Errorf("%w: %s〜%s", ErrInvalidRange, c.StartClock(), c.EndClock())
	}
	if c.StartMinutes() >= c.EndMinutes() {
		return fmt.Errorf("%w: 開始 %s が終了 %s 以降です", ErrInvalidRange, c.StartClock(), c.EndClock())
	}
	if c.Date.IsZero() {
		return fmt.Errorf("%w: 日付が設定されていません", ErrInvalidRange)
	}
	return nil
}

// ValidateInGrid Validateに加え、表示グリッドの時間帯に収まることを確認。終日候補は固定の時間帯のため対象外
func ValidateInGrid(c domain.Candidate, cfg week.Config) error {
	if err := Validate(c, cfg.MinuteInterval); err != nil {
		return err
	}
	if c.IsFullDay {
		return nil
	}
	if !week.IsValidRange(c.StartHour, c.StartMinute, c.EndHour, c.EndMinute, cfg) {
		return fmt.Errorf("%w: %s〜%s は %d:00〜%d:00 の範囲外です",
			ErrInvalidRange, c.StartClock(), c.EndClock(), cfg.StartHour, cfg.EndHour)
	}
	return nil
}

// FromDrag 同じ日のセル間のドラッグから候補を作成する。
// 終了側は最後のセルを含めるため1コマ分延長し、表示終了時刻で打ち切る。
func FromDrag(date time.Time, a, b domain.TimeSlot, cfg week.Config) (domain.Candidate, error) {
	start, end := a.Minutes(), b.Minutes()
	if end < start {
		start, end = end, start
	}
	end += cfg.MinuteInterval
	if limit := cfg.EndHour * 60; end > limit {
		end = limit
	}

	c := domain.Candidate{
		ID:        NewID(),
		Date:      domain.DateOf(date),
		DayOffset: week.WeekContaining(date).DayOffset(date),
	}.WithRange(start, end)

	if !week.IsValidRange(c.StartHour, c.StartMinute, c.EndHour, c.EndMinute, cfg) {
		return domain.Candidate{}, fmt.Errorf("%w: %s〜%s", ErrInvalidRange, c.StartClock(), c.EndClock())
	}
	return c, nil
}

// FullDay 終日（9:00〜18:00）の候補を作成
func FullDay(date time.Time) domain.Candidate {
	return domain.Candidate{
		ID:        NewID(),
		Date:      domain.DateOf(date),
		StartHour: fullDayStartHour,
		EndHour:   fullDayEndHour,
		IsFullDay: true,
		DayOffset: week.WeekContaining(date).DayOffset(date),
	}
}
