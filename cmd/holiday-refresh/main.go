package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/config"
	"github.com/k-negishi/schedule-candidate-picker/internal/gateway"
	"github.com/k-negishi/schedule-candidate-picker/internal/logger"
	"github.com/k-negishi/schedule-candidate-picker/internal/usecase"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	// EventBridge Schedulerからの実行なので特に使用しない
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// handler 祝日キャッシュを更新する
func handler(ctx context.Context, _ LambdaEvent) (LambdaResponse, error) {
	cfg, err := config.Load()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "設定読み込みエラー",
		}, err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "ロガー初期化エラー",
		}, err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "タイムゾーン読み込みエラー",
		}, err
	}

	source, err := gateway.NewHolidaySource(ctx, cfg, log)
	if err != nil {
		log.Error("祝日の取得元の初期化に失敗しました", zap.Error(err))
		return LambdaResponse{
			StatusCode: 500,
			Message:    "祝日取得元の初期化エラー",
		}, err
	}

	writer, err := gateway.NewHolidayCacheWriter(cfg)
	if err != nil {
		log.Error("祝日キャッシュの初期化に失敗しました", zap.Error(err))
		return LambdaResponse{
			StatusCode: 500,
			Message:    "祝日キャッシュの初期化エラー",
		}, err
	}

	uc := usecase.NewRefreshHolidaysUseCase(source, writer, func() time.Time {
		return time.Now().In(loc)
	}, log)

	cache, skipped, err := uc.Execute(ctx)
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "祝日キャッシュ更新エラー",
		}, err
	}

	if skipped {
		return LambdaResponse{
			StatusCode: 200,
			Message:    "今年以降の祝日がないため更新をスキップしました",
		}, nil
	}

	return LambdaResponse{
		StatusCode: 200,
		Message:    fmt.Sprintf("祝日キャッシュ更新完了 (%d年分)", len(cache.Holidays)),
	}, nil
}

func main() {
	// AWS Lambda環境ではスケジュール実行、それ以外は1回だけ実行して終了
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(handler)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resp, err := handler(ctx, LambdaEvent{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", resp.Message, err)
		stop()
		os.Exit(1)
	}
	fmt.Println(resp.Message)
}
