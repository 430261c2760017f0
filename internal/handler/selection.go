package handler

import "go.uber.org/zap"

// SelectionLogger 候補削除の通知をログに残すSelectionClearer。
// 選択表示の解除はブラウザ側が削除済みIDを受け取って行う
type SelectionLogger struct {
	logger *zap.Logger
}

// NewSelectionLogger SelectionLoggerを作成
func NewSelectionLogger(logger *zap.Logger) *SelectionLogger {
	return &SelectionLogger{logger: logger}
}

// ClearSelection 解除対象のIDを記録
func (s *SelectionLogger) ClearSelection(ids []string) {
	s.logger.Debug("選択表示を解除します", zap.Strings("ids", ids))
}
