package holiday

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

var jst = time.FixedZone("JST", 9*60*60)

// MockCacheSource は CacheSource のテスト用モック
type MockCacheSource struct {
	mock.Mock
}

func (m *MockCacheSource) ReadHolidayCache(ctx context.Context) (*domain.HolidayCache, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HolidayCache), args.Error(1)
}

func validCache() *domain.HolidayCache {
	return &domain.HolidayCache{
		LastUpdated: "2025-01-01T00:00:00Z",
		GeneratedBy: "holiday-refresh",
		DataSource:  "内閣府",
		Holidays: map[string][]domain.HolidayEntry{
			"2025": {
				{Date: "2025-01-13", Name: "成人の日"},
				{Date: "2025-01-01", Name: "元日"},
			},
			"2026": {
				{Date: "2026-01-01", Name: "元日"},
			},
		},
	}
}

// --- NthWeekdayOfMonth テスト ---

func TestNthWeekdayOfMonth(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		weekday  time.Weekday
		n        int
		expected int
	}{
		{"2025年1月の第2月曜日", 2025, time.January, time.Monday, 2, 13},
		{"2025年7月の第3月曜日", 2025, time.July, time.Monday, 3, 21},
		{"2025年9月の第3月曜日", 2025, time.September, time.Monday, 3, 15},
		{"2025年10月の第2月曜日", 2025, time.October, time.Monday, 2, 13},
		{"1日が該当曜日", 2025, time.September, time.Monday, 1, 1},
		{"2024年2月の第5木曜日", 2024, time.February, time.Thursday, 5, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NthWeekdayOfMonth(tt.year, tt.month, tt.weekday, tt.n)
			assert.Equal(t, tt.year, d.Year())
			assert.Equal(t, tt.month, d.Month())
			assert.Equal(t, tt.expected, d.Day())
			assert.Equal(t, tt.weekday, d.Weekday())
		})
	}
}

// --- FallbackLookup テスト ---

func TestFallbackLookup_IsHoliday(t *testing.T) {
	l := NewFallbackLookup()

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"元日", time.Date(2025, 1, 1, 0, 0, 0, 0, jst), true},
		{"建国記念の日", time.Date(2025, 2, 11, 0, 0, 0, 0, jst), true},
		{"天皇誕生日（12/23）", time.Date(2025, 12, 23, 0, 0, 0, 0, jst), true},
		{"成人の日 2025", time.Date(2025, 1, 13, 0, 0, 0, 0, jst), true},
		{"海の日 2025（第3月曜）", time.Date(2025, 7, 21, 0, 0, 0, 0, jst), true},
		{"7月の第2月曜は祝日ではない", time.Date(2025, 7, 14, 0, 0, 0, 0, jst), false},
		{"敬老の日 2025", time.Date(2025, 9, 15, 0, 0, 0, 0, jst), true},
		{"スポーツの日 2025", time.Date(2025, 10, 13, 0, 0, 0, 0, jst), true},
		{"平日", time.Date(2025, 6, 10, 0, 0, 0, 0, jst), false},
		{"時刻付きでも判定できる", time.Date(2025, 5, 5, 23, 30, 0, 0, jst), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.IsHoliday(tt.date))
		})
	}
}

func TestFallbackLookup_HolidayName(t *testing.T) {
	l := NewFallbackLookup()

	name, ok := l.HolidayName(time.Date(2025, 7, 21, 0, 0, 0, 0, jst))
	assert.True(t, ok)
	assert.Equal(t, "海の日", name)
	assert.Equal(t, ModeFallback, l.Mode())
}

func TestFallbackLookup_HolidaysInYear(t *testing.T) {
	entries := NewFallbackLookup().HolidaysInYear(2025)

	require.Len(t, entries, 14)
	assert.Equal(t, domain.HolidayEntry{Date: "2025-01-01", Name: "元日"}, entries[0])
	assert.Equal(t, domain.HolidayEntry{Date: "2025-01-13", Name: "成人の日"}, entries[1])
	assert.Equal(t, domain.HolidayEntry{Date: "2025-12-23", Name: "天皇誕生日"}, entries[13])
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Date, entries[i].Date)
	}
}

// --- PrimaryLookup テスト ---

func TestPrimaryLookup(t *testing.T) {
	l := NewPrimaryLookup(map[int][]domain.HolidayEntry{
		2025: {
			{Date: "2025-11-24", Name: "休日"},
			{Date: "2025-01-01", Name: "元日"},
		},
	})

	assert.True(t, l.IsHoliday(time.Date(2025, 1, 1, 10, 0, 0, 0, jst)))
	assert.True(t, l.IsHoliday(time.Date(2025, 11, 24, 0, 0, 0, 0, jst)))
	assert.False(t, l.IsHoliday(time.Date(2025, 1, 2, 0, 0, 0, 0, jst)))
	// データにない年はフォールバックせず祝日なし
	assert.False(t, l.IsHoliday(time.Date(2030, 1, 1, 0, 0, 0, 0, jst)))

	entries := l.HolidaysInYear(2025)
	require.Len(t, entries, 2)
	assert.Equal(t, "2025-01-01", entries[0].Date)
	assert.Equal(t, ModePrimary, l.Mode())
}

// --- Loader テスト ---

func TestLoader_Load_Success(t *testing.T) {
	source := new(MockCacheSource)
	source.On("ReadHolidayCache", mock.Anything).Return(validCache(), nil)

	result := NewLoader(source).Load(context.Background())

	require.True(t, result.OK())
	assert.Len(t, result.Holidays, 2)
	assert.Equal(t, "2025-01-01", result.Holidays[2025][0].Date)
	assert.Equal(t, "2025-01-13", result.Holidays[2025][1].Date)
	source.AssertExpectations(t)
}

func TestLoader_Load_SourceError(t *testing.T) {
	source := new(MockCacheSource)
	source.On("ReadHolidayCache", mock.Anything).Return(nil, errors.New("network down"))

	result := NewLoader(source).Load(context.Background())

	assert.False(t, result.OK())
	assert.Contains(t, result.Err.Error(), "network down")
}

func TestLoader_Load_InvalidShape(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *domain.HolidayCache)
	}{
		{"holidaysがない", func(c *domain.HolidayCache) { c.Holidays = nil }},
		{"年のキーが数値でない", func(c *domain.HolidayCache) {
			c.Holidays["abc"] = []domain.HolidayEntry{{Date: "2025-01-01", Name: "元日"}}
		}},
		{"日付が不正", func(c *domain.HolidayCache) {
			c.Holidays["2025"] = []domain.HolidayEntry{{Date: "2025/01/01", Name: "元日"}}
		}},
		{"名前が空", func(c *domain.HolidayCache) {
			c.Holidays["2025"] = []domain.HolidayEntry{{Date: "2025-01-01"}}
		}},
		{"年と日付が一致しない", func(c *domain.HolidayCache) {
			c.Holidays["2026"] = []domain.HolidayEntry{{Date: "2025-01-01", Name: "元日"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := validCache()
			tt.mutate(cache)
			source := new(MockCacheSource)
			source.On("ReadHolidayCache", mock.Anything).Return(cache, nil)

			result := NewLoader(source).Load(context.Background())

			assert.False(t, result.OK())
			assert.Contains(t, result.Err.Error(), "祝日キャッシュの形式が不正です")
		})
	}
}

// --- Service テスト ---

func TestService_BeforeInit(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewService(NewLoader(new(MockCacheSource)), zap.New(core))

	assert.False(t, s.IsHoliday(time.Date(2025, 1, 1, 0, 0, 0, 0, jst)))
	assert.Equal(t, ModeUninitialized, s.Mode())
	assert.Equal(t, 1, logs.FilterMessageSnippet("初期化前").Len())

	_, err := s.HolidaysInYear(2025)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestService_InitPrimary(t *testing.T) {
	source := new(MockCacheSource)
	source.On("ReadHolidayCache", mock.Anything).Return(validCache(), nil).Once()
	s := NewService(NewLoader(source), zap.NewNop())

	assert.Equal(t, ModePrimary, s.Init(context.Background()))
	// 2回目以降は読み込み直さない
	assert.Equal(t, ModePrimary, s.Init(context.Background()))

	assert.True(t, s.IsHoliday(time.Date(2025, 1, 13, 0, 0, 0, 0, jst)))
	// キャッシュにない日はフォールバック規則では判定しない
	assert.False(t, s.IsHoliday(time.Date(2025, 7, 21, 0, 0, 0, 0, jst)))
	source.AssertExpectations(t)
}

func TestService_InitFallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	source := new(MockCacheSource)
	source.On("ReadHolidayCache", mock.Anything).Return(nil, errors.New("404"))
	s := NewService(NewLoader(source), zap.New(core))

	assert.Equal(t, ModeFallback, s.Init(context.Background()))
	assert.Equal(t, ModeFallback, s.Mode())
	assert.True(t, s.IsHoliday(time.Date(2025, 7, 21, 0, 0, 0, 0, jst)))
	assert.False(t, s.IsHoliday(time.Date(2025, 7, 14, 0, 0, 0, 0, jst)))
	assert.Equal(t, 1, logs.FilterMessageSnippet("フォールバック").Len())

	name, ok := s.HolidayName(time.Date(2025, 1, 13, 0, 0, 0, 0, jst))
	assert.True(t, ok)
	assert.Equal(t, "成人の日", name)
}
