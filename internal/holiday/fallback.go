package holiday

import (
	"sort"
	"time"

	cal "github.com/rickar/cal/v2"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// calcNthWeekday ハッピーマンデー用の計算関数
func calcNthWeekday(h *cal.Holiday, year int) time.Time {
	return NthWeekdayOfMonth(year, h.Month, h.Weekday, h.Offset)
}

func fixed(name string, month time.Month, day int) *cal.Holiday {
	return &cal.Holiday{Name: name, Month: month, Day: day, Func: cal.CalcDayOfMonth}
}

func nthMonday(name string, month time.Month, n int) *cal.Holiday {
	return &cal.Holiday{Name: name, Month: month, Weekday: time.Monday, Offset: n, Func: calcNthWeekday}
}

// fallbackHolidays キャッシュが使えない場合の祝日定義
func fallbackHolidays() []*cal.Holiday {
	return []*cal.Holiday{
		fixed("元日", time.January, 1),
		fixed("建国記念の日", time.February, 11),
		fixed("昭和の日", time.April, 29),
		fixed("憲法記念日", time.May, 3),
		fixed("みどりの日", time.May, 4),
		fixed("こどもの日", time.May, 5),
		fixed("山の日", time.August, 11),
		fixed("文化の日", time.November, 3),
		fixed("勤労感謝の日", time.November, 23),
		fixed("天皇誕生日", time.December, 23),
		nthMonday("成人の日", time.January, 2),
		nthMonday("海の日", time.July, 3),
		nthMonday("敬老の日", time.September, 3),
		nthMonday("スポーツの日", time.October, 2),
	}
}

// FallbackLookup 固定祝日と第n月曜日の規則による判定
type FallbackLookup struct {
	calendar *cal.BusinessCalendar
	holidays []*cal.Holiday
}

// NewFallbackLookup フォールバック判定器を作成
func NewFallbackLookup() *FallbackLookup {
	holidays := fallbackHolidays()
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	return &FallbackLookup{calendar: c, holidays: holidays}
}

// IsHoliday 指定日が祝日かどうか
func (l *FallbackLookup) IsHoliday(date time.Time) bool {
	_, ok := l.HolidayName(date)
	return ok
}

// HolidayName 指定日の祝日名
func (l *FallbackLookup) HolidayName(date time.Time) (string, bool) {
	actual, observed, h := l.calendar.IsHoliday(date)
	if (!actual && !observed) || h == nil {
		return "", false
	}
	// 移動祝日は曜日も一致している必要がある
	if isMovingRule(h) && date.Weekday() != h.Weekday {
		return "", false
	}
	return h.Name, true
}

// HolidaysInYear 指定年の祝日を規則から計算して返す
func (l *FallbackLookup) HolidaysInYear(year int) []domain.HolidayEntry {
	entries := make([]domain.HolidayEntry, 0, len(l.holidays))
	for _, h := range l.holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		entries = append(entries, domain.HolidayEntry{
			Date: actual.Format(domain.DateLayout),
			Name: h.Name,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

// Mode 常にModeFallback
func (l *FallbackLookup) Mode() Mode {
	return ModeFallback
}

func isMovingRule(h *cal.Holiday) bool {
	return h.Offset != 0
}
