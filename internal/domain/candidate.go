package domain

import (
	"fmt"
	"time"
)

// Candidate 日程候補のドメインエンティティ
type Candidate struct {
	ID          string
	Date        time.Time
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	IsFullDay   bool
	DayOffset   int
}

// StartMinutes 開始時刻を0時からの経過分で返す
func (c Candidate) StartMinutes() int {
	return c.StartHour*60 + c.StartMinute
}

// EndMinutes 終了時刻を0時からの経過分で返す
func (c Candidate) EndMinutes() int {
	return c.EndHour*60 + c.EndMinute
}

// DurationMinutes 候補の長さ（分）
func (c Candidate) DurationMinutes() int {
	return c.EndMinutes() - c.StartMinutes()
}

// DateKey 日付をYYYY-MM-DD形式で返す
func (c Candidate) DateKey() string {
	return c.Date.Format(DateLayout)
}

// StartClock 開始時刻をHH:MM形式で返す
func (c Candidate) StartClock() string {
	return fmt.Sprintf("%02d:%02d", c.StartHour, c.StartMinute)
}

// EndClock 終了時刻をHH:MM形式で返す
func (c Candidate) EndClock() string {
	return fmt.Sprintf("%02d:%02d", c.EndHour, c.EndMinute)
}

// WithRange 範囲だけを差し替えたコピーを返す
func (c Candidate) WithRange(startMinutes, endMinutes int) Candidate {
	c.StartHour, c.StartMinute = startMinutes/60, startMinutes%60
	c.EndHour, c.EndMinute = endMinutes/60, endMinutes%60
	return c
}

// TimeSlot 週グリッドの1コマ
type TimeSlot struct {
	Hour       int
	Minute     int
	Label      string
	IsHourMark bool
}

// Minutes 0時からの経過分
func (s TimeSlot) Minutes() int {
	return s.Hour*60 + s.Minute
}

// DateLayout ISO形式の日付レイアウト
const DateLayout = "2006-01-02"

// DateOf 時刻成分を落とした日付を返す
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate 同じ暦日かどうか
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
