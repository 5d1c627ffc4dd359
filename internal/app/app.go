package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/qugu2427/alienpls-api/internal/controller"
	"github.com/qugu2427/alienpls-api/internal/repository/eventbus"
	"github.com/qugu2427/alienpls-api/internal/repository/redis"
	"github.com/qugu2427/alienpls-api/internal/service/room"
	"github.com/qugu2427/alienpls-api/pkg/ctxlogger"
	"github.com/qugu2427/alienpls-api/pkg/mediadata"
	"github.com/qugu2427/alienpls-api/pkg/redisclient"
	"github.com/qugu2427/alienpls-api/pkg/twitchauth"
)

type AppConfig struct {
	Host               string `json:"host"`
	Port               int    `json:"port"`
	LogLevel           string `json:"log_level"`
	QueueLimit         int    `json:"queue_limit"`
	BufferTimeMs       int    `json:"buffer_time_ms"`
	RefreshIntervalMs  int    `json:"refresh_interval_ms"`
	AdminUser          string `json:"admin_user"`
	RedisHost          string `json:"redis_host"`
	RedisPort          int    `json:"redis_port"`
	RedisPassword      string `json:"-"`
	TwitchClientId     string `json:"twitch_client_id"`
	TwitchClientSecret string `json:"-"`
	TwitchRedirectURI  string `json:"twitch_redirect_uri"`
	TwitchScope        string `json:"twitch_scope"`
	YoutubeKey         string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.QueueLimit < 1 {
		return fmt.Errorf("queue limit must be greater than 0")
	}
	if cfg.BufferTimeMs < 0 {
		return fmt.Errorf("buffer time must not be negative")
	}
	if cfg.RefreshIntervalMs < 1 {
		return fmt.Errorf("refresh interval must be greater than 0")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return err
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomRepo := redis.NewRepo(rc, logger)
	bus := eventbus.NewBus(rc)
	identity := twitchauth.NewClient(&twitchauth.Config{
		ClientId:     cfg.TwitchClientId,
		ClientSecret: cfg.TwitchClientSecret,
		RedirectURI:  cfg.TwitchRedirectURI,
		Scope:        cfg.TwitchScope,
	})
	resolver := mediadata.NewResolver(&mediadata.Config{
		YoutubeKey:     cfg.YoutubeKey,
		TwitchClientId: cfg.TwitchClientId,
	})
	roomService := room.NewService(roomRepo, bus, resolver, logger, &room.Config{
		QueueLimit:      cfg.QueueLimit,
		BufferTime:      time.Duration(cfg.BufferTimeMs) * time.Millisecond,
		RefreshInterval: time.Duration(cfg.RefreshIntervalMs) * time.Millisecond,
		AdminUser:       cfg.AdminUser,
	})
	controller := controller.NewController(roomService, identity, bus, logger)

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	// periodic sweep; it shares the server's lifetime
	go func() {
		if err := roomService.Run(serverCtx); err != nil && err != context.Canceled {
			logger.ErrorContext(serverCtx, "sweep stopped", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
