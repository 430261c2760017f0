package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/formatter"
	"github.com/k-negishi/schedule-candidate-picker/internal/holiday"
)

var (
	// errBadRequest リクエストの形式が不正
	errBadRequest = errors.New("リクエストが不正です")
	// errShareDisabled 共有機能が設定されていない
	errShareDisabled = errors.New("共有機能が有効になっていません")
)

// response APIの共通レスポンス
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// writeSuccess 成功レスポンスを書き込む
func writeSuccess(w http.ResponseWriter, code int, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// writeError エラーに応じたステータスでレスポンスを書き込む
func writeError(logger *zap.Logger, w http.ResponseWriter, err error) {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error("リクエストの処理に失敗しました", zap.Error(err))
		message = "サーバー内部でエラーが発生しました"
	} else {
		logger.Debug("リクエストを拒否しました", zap.Int("status", code), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response{
		Success: false,
		Message: message,
	})
}

func statusOf(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, candidate.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, candidate.ErrInvalidRange),
		errors.Is(err, formatter.ErrUnknownTemplate),
		errors.Is(err, formatter.ErrUnknownStyle),
		errors.Is(err, errBadRequest),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, holiday.ErrNotInitialized),
		errors.Is(err, errShareDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
