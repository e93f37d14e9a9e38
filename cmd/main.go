package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwrk-planet/chat-service/config"
	"github.com/cwrk-planet/chat-service/internal/registry"
	"github.com/cwrk-planet/chat-service/internal/service"
	httpx "github.com/cwrk-planet/chat-service/internal/transport/http"
	"github.com/cwrk-planet/chat-service/internal/transport/ws"
	"github.com/cwrk-planet/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- core: реестр, комнаты, presence, маршрутизатор, координатор ---
	// Всё состояние собирается здесь явно и живёт до остановки процесса.
	reg := registry.NewRegistry()
	rooms := service.NewRoomDirectory(cfg.Chat.HistoryLimit)
	presence := service.NewPresenceTracker()
	router := service.NewMessageRouter(reg, rooms, presence, cfg.Chat.DefaultRoom, cfg.Chat.MaxAttachmentBytes)
	coord := service.NewCoordinator(reg, rooms, presence, router, cfg.Chat.DefaultRoom)

	// --- WS Server ---
	wsServer := ws.NewServer(coord, cfg.HTTP.ClientOrigin, cfg.Chat.MaxMessageBytes)

	// --- HTTP ---
	handler := httpx.NewHandler(rooms, presence, cfg.Chat.DefaultRoom)
	mux := httpx.NewRouter(handler, wsServer, cfg.HTTP.ClientOrigin)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
