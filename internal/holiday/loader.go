package holiday

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// CacheSource 祝日キャッシュを読み込むポート
type CacheSource interface {
	ReadHolidayCache(ctx context.Context) (*domain.HolidayCache, error)
}

// LoadResult 祝日データの読み込み結果。Errがnilなら成功
type LoadResult struct {
	Holidays    map[int][]domain.HolidayEntry
	LastUpdated string
	Err         error
}

// OK 読み込みに成功したかどうか
func (r LoadResult) OK() bool {
	return r.Err == nil
}

// Loader 祝日キャッシュを読み込み検証する
type Loader struct {
	source   CacheSource
	validate *validator.Validate
}

// NewLoader ローダーを作成
func NewLoader(source CacheSource) *Loader {
	return &Loader{
		source:   source,
		validate: validator.New(),
	}
}

// Load キャッシュを読み込み、結果を返す。失敗しても理由付きのLoadResultを返す
func (l *Loader) Load(ctx context.Context) LoadResult {
	if l.source == nil {
		return LoadResult{Err: errors.New("祝日キャッシュの読み込み元が設定されていません")}
	}

	cache, err := l.source.ReadHolidayCache(ctx)
	if err != nil {
		return LoadResult{Err: fmt.Errorf("祝日キャッシュの読み込みに失敗しました: %w", err)}
	}
	if cache == nil {
		return LoadResult{Err: errors.New("祝日キャッシュが空です")}
	}

	holidays, err := l.decode(cache)
	if err != nil {
		return LoadResult{Err: fmt.Errorf("祝日キャッシュの形式が不正です: %w", err)}
	}

	return LoadResult{Holidays: holidays, LastUpdated: cache.LastUpdated}
}

// decode キャッシュの形を検証し、年ごとのマップに変換
func (l *Loader) decode(cache *domain.HolidayCache) (map[int][]domain.HolidayEntry, error) {
	if err := l.validate.Struct(cache); err != nil {
		return nil, err
	}

	holidays := make(map[int][]domain.HolidayEntry, len(cache.Holidays))
	for key, entries := range cache.Holidays {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("年のキー %q が数値ではありません", key)
		}
		prefix := fmt.Sprintf("%04d-", year)
		for i, e := range entries {
			if err := l.validate.Struct(e); err != nil {
				return nil, fmt.Errorf("%d年の%d件目: %w", year, i+1, err)
			}
			if !strings.HasPrefix(e.Date, prefix) {
				return nil, fmt.Errorf("%d年の%d件目: 日付 %s が年と一致しません", year, i+1, e.Date)
			}
		}
		sorted := append([]domain.HolidayEntry(nil), entries...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })
		holidays[year] = sorted
	}
	return holidays, nil
}

// NewLookup 読み込み結果に応じて判定器を選択
func NewLookup(result LoadResult, logger *zap.Logger) Lookup {
	if !result.OK() {
		logger.Warn("祝日データを読み込めなかったためフォールバックの祝日定義を使用します", zap.Error(result.Err))
		return NewFallbackLookup()
	}

	logger.Info("祝日データを読み込みました",
		zap.Int("years", len(result.Holidays)),
		zap.String("lastUpdated", result.LastUpdated))
	return NewPrimaryLookup(result.Holidays)
}
