package gateway

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/config"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// HolidayCacheReader 祝日キャッシュの読み込み
type HolidayCacheReader interface {
	ReadHolidayCache(ctx context.Context) (*domain.HolidayCache, error)
}

// HolidayCacheWriter 祝日キャッシュの書き込み
type HolidayCacheWriter interface {
	WriteHolidayCache(ctx context.Context, cache *domain.HolidayCache) error
}

// HolidaySource 祝日一覧の取得元
type HolidaySource interface {
	FetchHolidays(ctx context.Context) ([]domain.HolidayEntry, error)
	DataSource() string
	SourceURL() string
}

// NewHolidaySource 設定に応じた祝日の取得元を作成
func NewHolidaySource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (HolidaySource, error) {
	switch cfg.HolidaySource {
	case config.HolidaySourceGoogle:
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		return NewGoogleHolidaySource(ctx, []byte(cfg.GoogleCredentials), cfg.HolidayCalendarID, loc, logger)
	case config.HolidaySourceCSV:
		return NewCabinetOfficeCSVSource(cfg.HolidayCSVURL, logger), nil
	default:
		return nil, fmt.Errorf("HOLIDAY_SOURCEの値が不正です: %s", cfg.HolidaySource)
	}
}

// NewHolidayCacheReader 設定に応じた読み込み先。バケット、URL、ファイルの順に優先する
func NewHolidayCacheReader(cfg *config.Config) (HolidayCacheReader, error) {
	switch {
	case cfg.HolidayCacheBucket != "":
		return newObjectHolidayCacheFromConfig(cfg)
	case cfg.HolidayCacheURL != "":
		return NewHTTPHolidayCache(cfg.HolidayCacheURL), nil
	default:
		return NewFileHolidayCache(cfg.HolidayCachePath), nil
	}
}

// NewHolidayCacheWriter 設定に応じた書き込み先。バケットがなければファイルに書く
func NewHolidayCacheWriter(cfg *config.Config) (HolidayCacheWriter, error) {
	if cfg.HolidayCacheBucket != "" {
		return newObjectHolidayCacheFromConfig(cfg)
	}
	return NewFileHolidayCache(cfg.HolidayCachePath), nil
}

func newObjectHolidayCacheFromConfig(cfg *config.Config) (*ObjectHolidayCache, error) {
	store, err := NewMinioObjectStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL)
	if err != nil {
		return nil, err
	}
	return NewObjectHolidayCache(store, cfg.HolidayCacheBucket, cfg.HolidayCacheObject), nil
}
