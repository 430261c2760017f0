package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
	"github.com/k-negishi/schedule-candidate-picker/internal/formatter"
)

// CandidateLister 日程候補の一覧を取得するポート
type CandidateLister interface {
	List() []domain.Candidate
}

// CandidateNotifier 日程候補を送信するポート
type CandidateNotifier interface {
	SendCandidates(ctx context.Context, text string, count int) error
}

// ShareCandidatesUseCase 日程候補共有ユースケース
type ShareCandidatesUseCase struct {
	lister   CandidateLister
	notifier CandidateNotifier
	logger   *zap.Logger
}

// NewShareCandidatesUseCase ユースケースを生成
func NewShareCandidatesUseCase(lister CandidateLister, notifier CandidateNotifier, logger *zap.Logger) *ShareCandidatesUseCase {
	return &ShareCandidatesUseCase{
		lister:   lister,
		notifier: notifier,
		logger:   logger,
	}
}

// Execute 候補をチャット形式に整形して送信する。候補がなければスキップ
func (uc *ShareCandidatesUseCase) Execute(ctx context.Context, opts formatter.Options) (text string, skipped bool, err error) {
	candidates := uc.lister.List()
	if len(candidates) == 0 {
		return "", true, nil
	}

	text = formatter.FormatChat(candidates, opts)
	count := len(candidates)
	if opts.Merge {
		count = len(candidate.MergeContiguous(candidates))
	}

	if err := uc.notifier.SendCandidates(ctx, text, count); err != nil {
		uc.logger.Error("日程候補の送信に失敗しました", zap.Error(err))
		return "", false, err
	}

	uc.logger.Info("日程候補を共有しました", zap.Int("count", count))
	return text, false, nil
}
