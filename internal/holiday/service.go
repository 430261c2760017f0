package holiday

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// ErrNotInitialized 初期化前に祝日データを要求された
var ErrNotInitialized = errors.New("祝日サービスが初期化されていません")

// Service 祝日判定サービス。利用側へ明示的に注入して使う
type Service struct {
	mu     sync.RWMutex
	loader *Loader
	lookup Lookup
	logger *zap.Logger
}

// NewService 祝日サービスを作成。Initを呼ぶまでは常に祝日なしと判定する
func NewService(loader *Loader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		loader: loader,
		logger: logger,
	}
}

// Init 祝日データを一度だけ読み込み、動作モードを確定する
func (s *Service) Init(ctx context.Context) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookup != nil {
		return s.lookup.Mode()
	}

	var result LoadResult
	if s.loader == nil {
		result = LoadResult{Err: errors.New("ローダーが設定されていません")}
	} else {
		result = s.loader.Load(ctx)
	}
	s.lookup = NewLookup(result, s.logger)
	return s.lookup.Mode()
}

// Mode 現在の動作モード
func (s *Service) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.lookup == nil {
		return ModeUninitialized
	}
	return s.lookup.Mode()
}

// IsHoliday 指定日が祝日かどうか。初期化前はfalse
func (s *Service) IsHoliday(date time.Time) bool {
	_, ok := s.HolidayName(date)
	return ok
}

// HolidayName 指定日の祝日名。初期化前は祝日なし
func (s *Service) HolidayName(date time.Time) (string, bool) {
	s.mu.RLock()
	lookup := s.lookup
	s.mu.RUnlock()

	if lookup == nil {
		s.logger.Warn("祝日サービスの初期化前に祝日判定が呼ばれました",
			zap.String("date", date.Format(domain.DateLayout)))
		return "", false
	}
	return lookup.HolidayName(date)
}

// HolidaysInYear 指定年の祝日一覧
func (s *Service) HolidaysInYear(year int) ([]domain.HolidayEntry, error) {
	s.mu.RLock()
	lookup := s.lookup
	s.mu.RUnlock()

	if lookup == nil {
		return nil, ErrNotInitialized
	}
	return lookup.HolidaysInYear(year), nil
}
