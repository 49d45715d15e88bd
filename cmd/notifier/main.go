package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"tg-vault-notifier/internal/adapters/httpapi"
	"tg-vault-notifier/internal/adapters/repo"
	"tg-vault-notifier/internal/adapters/store"
	"tg-vault-notifier/internal/adapters/telegram"
	"tg-vault-notifier/internal/adapters/vault"
	"tg-vault-notifier/internal/domain"
	"tg-vault-notifier/internal/infra/cache"
	"tg-vault-notifier/internal/infra/config"
	"tg-vault-notifier/internal/infra/db"
	httpinfra "tg-vault-notifier/internal/infra/http"
	loginfra "tg-vault-notifier/internal/infra/log"
	"tg-vault-notifier/internal/infra/metrics"
	"tg-vault-notifier/internal/usecase/notify"
	"tg-vault-notifier/internal/usecase/scan"
)

func main() {
	cfg := config.Load()
	logger := loginfra.NewLogger(cfg.AppEnv)
	metrics.MustRegister()

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("неизвестный часовой пояс")
	}

	defaults := cfg.DefaultSettings()

	var (
		ledger       domain.Ledger
		settingsRepo domain.SettingsRepo
	)
	if cfg.PGDSN != "" {
		pool, err := db.Connect(cfg.PGDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("не удалось подключиться к БД")
		}
		defer pool.Close()
		pg := repo.NewPostgres(pool, defaults)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("не удалось подготовить схему БД")
		}
		ledger, settingsRepo = pg, pg
	} else {
		fileStore := store.NewFile(cfg.DataFile, defaults)
		ledger, settingsRepo = fileStore, fileStore
	}

	var extractCache domain.Cache
	if cfg.RedisAddr != "" {
		extractCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	sender := telegram.NewSender(settingsRepo, logger)
	notifier := notify.NewService(sender, ledger, logger)
	notesVault := vault.NewFS(cfg.VaultDir)
	scanService := scan.NewService(notesVault, settingsRepo, ledger, notifier, extractCache, loc, cfg.Scan.FreshnessWindow, logger)
	scheduler := scan.NewScheduler(scanService, cfg.Scan.Interval, logger)

	srv := httpinfra.NewServer(logger)
	httpapi.NewSettingsHandler(settingsRepo, logger).Register(srv.Router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP сервер остановлен")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	<-stop
	logger.Info().Msg("остановка сервиса")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
