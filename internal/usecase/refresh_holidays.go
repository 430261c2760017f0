package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// GeneratedBy キャッシュを生成したツール名
const GeneratedBy = "schedule-candidate-picker/holiday-refresh"

// HolidaySource 祝日一覧を取得するポート
type HolidaySource interface {
	FetchHolidays(ctx context.Context) ([]domain.HolidayEntry, error)
	DataSource() string
	SourceURL() string
}

// HolidayCacheWriter 祝日キャッシュを書き込むポート
type HolidayCacheWriter interface {
	WriteHolidayCache(ctx context.Context, cache *domain.HolidayCache) error
}

// RefreshHolidaysUseCase 祝日キャッシュ更新ユースケース
type RefreshHolidaysUseCase struct {
	source HolidaySource
	writer HolidayCacheWriter
	clock  func() time.Time
	logger *zap.Logger
}

// NewRefreshHolidaysUseCase ユースケースを生成
func NewRefreshHolidaysUseCase(source HolidaySource, writer HolidayCacheWriter, clock func() time.Time, logger *zap.Logger) *RefreshHolidaysUseCase {
	return &RefreshHolidaysUseCase{
		source: source,
		writer: writer,
		clock:  clock,
		logger: logger,
	}
}

// Execute 祝日を取得し、今年以降の分を年ごとにまとめてキャッシュへ書き込む。
// 今年以降の祝日が1件もない場合は既存のキャッシュを残し、skippedをtrueで返す
func (uc *RefreshHolidaysUseCase) Execute(ctx context.Context) (cache *domain.HolidayCache, skipped bool, err error) {
	entries, err := uc.source.FetchHolidays(ctx)
	if err != nil {
		uc.logger.Error("祝日の取得に失敗しました", zap.Error(err))
		return nil, false, err
	}

	now := uc.clock()
	holidays := groupByYear(entries, now.Year())
	if len(holidays) == 0 {
		uc.logger.Warn("今年以降の祝日が1件も取得できなかったため、キャッシュを更新しません",
			zap.Int("fetched", len(entries)),
			zap.Int("fromYear", now.Year()),
		)
		return nil, true, nil
	}

	cache = &domain.HolidayCache{
		LastUpdated: now.Format(time.RFC3339),
		GeneratedBy: GeneratedBy,
		DataSource:  uc.source.DataSource(),
		SourceURL:   uc.source.SourceURL(),
		Holidays:    holidays,
	}

	if err := uc.writer.WriteHolidayCache(ctx, cache); err != nil {
		uc.logger.Error("祝日キャッシュの書き込みに失敗しました", zap.Error(err))
		return nil, false, fmt.Errorf("祝日キャッシュの書き込みに失敗しました: %w", err)
	}

	uc.logger.Info("祝日キャッシュを更新しました",
		zap.Int("years", len(holidays)),
		zap.Int("holidays", countEntries(holidays)),
		zap.String("dataSource", cache.DataSource),
	)
	return cache, false, nil
}

// groupByYear fromYear以降の祝日を年ごとに日付順でまとめる。同じ日付は先勝ち
func groupByYear(entries []domain.HolidayEntry, fromYear int) map[string][]domain.HolidayEntry {
	holidays := make(map[string][]domain.HolidayEntry)
	seen := make(map[string]bool)
	for _, e := range entries {
		date, err := time.Parse(domain.DateLayout, e.Date)
		if err != nil || date.Year() < fromYear || seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		key := strconv.Itoa(date.Year())
		holidays[key] = append(holidays[key], e)
	}

	for _, list := range holidays {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date < list[j].Date
		})
	}
	return holidays
}

func countEntries(holidays map[string][]domain.HolidayEntry) int {
	n := 0
	for _, list := range holidays {
		n += len(list)
	}
	return n
}
