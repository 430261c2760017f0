package candidate

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
	"github.com/k-negishi/schedule-candidate-picker/internal/week"
)

// SelectionClearer 候補削除時にUI側の選択表示を消すポート
type SelectionClearer interface {
	ClearSelection(ids []string)
}

// Store 日程候補の保管場所
type Store struct {
	mu         sync.RWMutex
	candidates []domain.Candidate
	cfg        week.Config
	clearer    SelectionClearer
	logger     *zap.Logger
}

// NewStore 候補ストアを作成。clearerはnilでもよい
func NewStore(cfg week.Config, clearer SelectionClearer, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		cfg:     cfg,
		clearer: clearer,
		logger:  logger,
	}
}

// Add 候補を追加。IDが空なら発行する。グリッドの時間帯外は ErrInvalidRange
func (s *Store) Add(c domain.Candidate) (domain.Candidate, error) {
	if c.ID == "" {
		c.ID = NewID()
	}
	c.Date = domain.DateOf(c.Date)
	if err := ValidateInGrid(c, s.cfg); err != nil {
		return domain.Candidate{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.ID) >= 0 {
		return domain.Candidate{}, fmt.Errorf("候補ID %s は既に存在します", c.ID)
	}
	s.candidates = append(s.candidates, c)

	s.logger.Debug("候補を追加しました",
		zap.String("id", c.ID),
		zap.String("date", c.DateKey()),
		zap.String("start", c.StartClock()),
		zap.String("end", c.EndClock()))
	return c, nil
}

// Get IDで候補を取得
func (s *Store) Get(id string) (domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Candidate{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.candidates[i], nil
}

// Replace 既存候補の範囲を変更する。元の候補は削除され、新しいIDの候補に置き換わる
func (s *Store) Replace(id string, startMinutes, endMinutes int) (domain.Candidate, error) {
	s.mu.Lock()

	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return domain.Candidate{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := s.candidates[i].WithRange(startMinutes, endMinutes)
	next.ID = NewID()
	next.IsFullDay = false
	if err := ValidateInGrid(next, s.cfg); err != nil {
		s.mu.Unlock()
		return domain.Candidate{}, err
	}
	s.candidates[i] = next
	s.mu.Unlock()

	s.notifyRemoved([]string{id})
	return next, nil
}

// Remove 候補を1件削除
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.candidates = append(s.candidates[:i], s.candidates[i+1:]...)
	s.mu.Unlock()

	s.notifyRemoved([]string{id})
	return nil
}

// RemoveMerged 結合表示された候補を削除する。範囲内に収まる元の候補をすべて削除し、そのIDを返す
func (s *Store) RemoveMerged(span domain.Candidate) ([]string, error) {
	s.mu.Lock()
	var removed []string
	kept := s.candidates[:0]
	for _, c := range s.candidates {
		if Within(c, span) {
			removed = append(removed, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	s.candidates = kept
	s.mu.Unlock()

	if len(removed) == 0 {
		return nil, fmt.Errorf("%w: %s %s〜%s", ErrNotFound, span.DateKey(), span.StartClock(), span.EndClock())
	}
	s.notifyRemoved(removed)
	return removed, nil
}

// ToggleFullDay 終日候補を切り替える。既にあれば削除し、なければ追加する
func (s *Store) ToggleFullDay(date time.Time) (domain.Candidate, bool, error) {
	s.mu.RLock()
	var existing *domain.Candidate
	for i := range s.candidates {
		if s.candidates[i].IsFullDay && domain.SameDate(s.candidates[i].Date, date) {
			c := s.candidates[i]
			existing = &c
			break
		}
	}
	s.mu.RUnlock()

	if existing != nil {
		if err := s.Remove(existing.ID); err != nil {
			return domain.Candidate{}, false, err
		}
		return *existing, false, nil
	}

	c, err := s.Add(FullDay(date))
	if err != nil {
		return domain.Candidate{}, false, err
	}
	return c, true, nil
}

// List 日付・開始時刻順の候補一覧
func (s *Store) List() []domain.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Sort(s.candidates)
}

// Merged 結合済みの表示用一覧
func (s *Store) Merged() []domain.Candidate {
	return MergeContiguous(s.List())
}

// Conflicts 時間が重なる候補の組
func (s *Store) Conflicts() []Conflict {
	return DetectConflicts(s.List())
}

// Len 候補数
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.candidates)
}

// Reset すべての候補を削除
func (s *Store) Reset() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.candidates))
	for _, c := range s.candidates {
		ids = append(ids, c.ID)
	}
	s.candidates = nil
	s.mu.Unlock()

	if len(ids) > 0 {
		s.notifyRemoved(ids)
	}
}

func (s *Store) indexOf(id string) int {
	for i, c := range s.candidates {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notifyRemoved(ids []string) {
	s.logger.Debug("候補を削除しました", zap.Strings("ids", ids))
	if s.clearer != nil {
		s.clearer.ClearSelection(ids)
	}
}
