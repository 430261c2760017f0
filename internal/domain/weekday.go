package domain

import "time"

var weekdaysJapanese = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayJapanese 曜日を日本語に変換
func WeekdayJapanese(weekday time.Weekday) string {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ""
	}
	return weekdaysJapanese[weekday]
}
