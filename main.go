package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chathubgo/internal/chat"
	"chathubgo/internal/config"
	"chathubgo/internal/http/http_server"
	"chathubgo/internal/ws"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room registry + background stale-room sweep
	registry := chat.NewRegistry(chat.RegistryOptions{
		PurgeGrace:    cfg.RoomPurgeGrace,
		SweepInterval: cfg.RoomSweepInterval,
		MaxIdle:       cfg.RoomMaxIdle,
	})
	go registry.Run(ctx)

	// 4. Chat hub service
	chatSvc := chat.NewService(registry, chat.Options{
		HistoryLimit:  cfg.HistoryLimit,
		TypingWindow:  cfg.TypingWindow,
		MaxNameLen:    cfg.MaxNameLen,
		MaxMessageLen: cfg.MaxMessageLen,
	})

	// 5. WebSocket server
	wsSrv := ws.NewWsServer(chatSvc)

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, registry, chatSvc)
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		Log.Info("Shutting down")
		if err := httpServer.Dispose(); err != nil {
			Log.Error("Shutdown error", zap.Error(err))
		}
	}
}
