// Package holiday は祝日判定を提供する。
//
// 祝日キャッシュの読み込みに成功した場合はそのデータ（Primary）を、失敗した場合は
// 固定祝日とハッピーマンデーの規則（Fallback）を使う。どちらを使うかは初期化時に
// 一度だけ決まり、以後切り替わらない。
package holiday

import (
	"sort"
	"time"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// Mode 祝日判定の動作モード
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModePrimary       Mode = "primary"
	ModeFallback      Mode = "fallback"
)

// Lookup 祝日判定のポート
type Lookup interface {
	IsHoliday(date time.Time) bool
	HolidayName(date time.Time) (string, bool)
	HolidaysInYear(year int) []domain.HolidayEntry
	Mode() Mode
}

// PrimaryLookup キャッシュ済みの祝日データを使った判定
type PrimaryLookup struct {
	byYear map[int][]domain.HolidayEntry
	index  map[string]string
}

// NewPrimaryLookup 年ごとの祝日一覧から判定器を作成
func NewPrimaryLookup(byYear map[int][]domain.HolidayEntry) *PrimaryLookup {
	l := &PrimaryLookup{
		byYear: make(map[int][]domain.HolidayEntry, len(byYear)),
		index:  map[string]string{},
	}
	for year, entries := range byYear {
		sorted := append([]domain.HolidayEntry(nil), entries...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
		l.byYear[year] = sorted
		for _, e := range sorted {
			l.index[e.Date] = e.Name
		}
	}
	return l
}

// IsHoliday 指定日が祝日かどうか
func (l *PrimaryLookup) IsHoliday(date time.Time) bool {
	_, ok := l.HolidayName(date)
	return ok
}

// HolidayName 指定日の祝日名
func (l *PrimaryLookup) HolidayName(date time.Time) (string, bool) {
	if _, ok := l.byYear[date.Year()]; !ok {
		return "", false
	}
	name, ok := l.index[date.Format(domain.DateLayout)]
	return name, ok
}

// HolidaysInYear 指定年の祝日一覧（日付昇順）
func (l *PrimaryLookup) HolidaysInYear(year int) []domain.HolidayEntry {
	return append([]domain.HolidayEntry(nil), l.byYear[year]...)
}

// Mode 常にModePrimary
func (l *PrimaryLookup) Mode() Mode {
	return ModePrimary
}
