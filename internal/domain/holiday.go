package domain

// HolidayEntry 祝日1件
type HolidayEntry struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Name string `json:"name" validate:"required"`
}

// HolidayCache 祝日キャッシュファイルの構造体
type HolidayCache struct {
	LastUpdated string                    `json:"lastUpdated" validate:"required"`
	GeneratedBy string                    `json:"generatedBy"`
	DataSource  string                    `json:"dataSource"`
	SourceURL   string                    `json:"sourceUrl"`
	Holidays    map[string][]HolidayEntry `json:"holidays" validate:"required"`
}
