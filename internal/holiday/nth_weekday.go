package holiday

import "time"

// NthWeekdayOfMonth 指定月の第n週の曜日の日付を返す（例: 1月の第2月曜日）
func NthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	firstDay := 1 + ((int(weekday) - int(first.Weekday()) + 7) % 7)
	return first.AddDate(0, 0, firstDay-1+(n-1)*7)
}
