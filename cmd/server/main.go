package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/config"
	"github.com/k-negishi/schedule-candidate-picker/internal/gateway"
	"github.com/k-negishi/schedule-candidate-picker/internal/handler"
	"github.com/k-negishi/schedule-candidate-picker/internal/holiday"
	"github.com/k-negishi/schedule-candidate-picker/internal/logger"
	"github.com/k-negishi/schedule-candidate-picker/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "サーバーの起動に失敗しました: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 祝日データは起動時に一度だけ読み込む。失敗時は組み込みの祝日で動作する
	cacheReader, err := gateway.NewHolidayCacheReader(cfg)
	if err != nil {
		return err
	}
	holidays := holiday.NewService(holiday.NewLoader(cacheReader), log)
	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	mode := holidays.Init(initCtx)
	cancel()
	log.Info("祝日データを初期化しました", zap.String("mode", string(mode)))

	store := candidate.NewStore(cfg.Grid, handler.NewSelectionLogger(log), log)

	var sharer handler.Sharer
	if cfg.LineShareEnabled {
		notifier := gateway.NewLINENotifier(cfg.LineChannelAccessToken, cfg.LineUserID, loc)
		sharer = usecase.NewShareCandidatesUseCase(store, notifier, log)
	}

	h := handler.NewHandler(store, holidays, sharer, cfg.Grid, loc, time.Now, log)
	server := &http.Server{
		Addr: cfg.ServerAddr,
		Handler: handler.NewRouter(h, handler.RouterOptions{
			AllowedOrigins:    cfg.AllowedOrigins,
			RequestsPerSecond: cfg.RateLimitPerSecond,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("サーバーを起動しました", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("サーバーを停止します")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
