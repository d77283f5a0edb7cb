package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ray1047820-bit/discord-auth-bot/bot"
	"github.com/ray1047820-bit/discord-auth-bot/config"
	"github.com/ray1047820-bit/discord-auth-bot/db"
	"github.com/ray1047820-bit/discord-auth-bot/models"
	"github.com/ray1047820-bit/discord-auth-bot/verify"
	"github.com/ray1047820-bit/discord-auth-bot/web"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to app config; env vars only when empty")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// run owns the whole lifecycle so every exit path, fatal ones included,
// unwinds through the defers below.
func run(configPath string) error {
	conf, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	logger := slog.New(NewConsoleLogHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(conf.AppConfig.LogLevel),
	}))
	slog.SetDefault(logger)

	bunDB, err := db.Connect(&conf.DBConfig)
	if err != nil {
		return fmt.Errorf("could not connect to db: %w", err)
	}
	defer bunDB.Close()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer cancel()

	// The token table has always been created on startup; cmd/migrate is the
	// managed path for anything beyond that.
	if _, err := bunDB.NewCreateTable().
		Model((*models.VerificationToken)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("could not create token table: %w", err)
	}

	granter := verify.NewDiscordRoleGranter(
		conf.DiscordConfig.BotToken,
		conf.DiscordConfig.GuildID,
		conf.DiscordConfig.RoleID,
	)
	svc := verify.NewService(bunDB, logger, granter, conf.DiscordConfig.AdminID)

	b, err := bot.New(&conf.DiscordConfig, conf.HTTPConfig.BaseURL, svc, logger)
	if err != nil {
		return fmt.Errorf("could not set up bot: %w", err)
	}

	srv := &http.Server{
		Addr:         conf.HTTPConfig.Addr,
		Handler:      web.NewServer(logger, svc).Router(),
		ReadTimeout:  conf.HTTPConfig.ReadTimeout,
		WriteTimeout: conf.HTTPConfig.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("web server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if err := b.Start(); err != nil {
		// The web server is already listening; take it down before bailing.
		shutdownServer(logger, srv)
		return fmt.Errorf("could not start bot: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("web server failed", "err", err)
		cancel()
	}

	shutdownServer(logger, srv)
	if err := b.Stop(); err != nil {
		logger.Error("could not close discord session", "err", err)
	}

	logger.Warn("stopped")
	return nil
}

func shutdownServer(logger *slog.Logger, srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("could not shut down web server", "err", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.FromFile(path)
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
