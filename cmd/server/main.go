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

	"chathub/api"
	"chathub/coordinator"
	"chathub/gateway"
	"chathub/internal"
	"chathub/moderation"
	"chathub/observability"
	"chathub/presence"
	"chathub/repositories"
	"chathub/rooms"
	"chathub/services"
	"chathub/transport"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle and
// centralizes error reporting so every defer executes before exit.
func run() error {
	// 1. Configuration & logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.GetLoggerFromString(config.LogLevel)

	if err := os.MkdirAll(config.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("uploads directory: %w", err)
	}

	// 2. Durable storage: BadgerDB for records, Bluge for search
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}

	// 3. Components, leaves first
	monitor := observability.NewMonitor(log)
	searchIndex := repositories.NewSearchIndex(blugeWriter, log)
	defer func() {
		log.Info("Closing search index...")
		_ = searchIndex.Close()
	}()
	messageStore := repositories.NewMessageRepository(db, searchIndex, log)
	userRepository := repositories.NewUserRepository(db)
	authService := services.NewAuthService(userRepository,
		[]byte(config.TokenSecret), "chathub", config.TokenDuration)

	registry := presence.NewRegistry()
	directory := rooms.NewDirectory(config.RoomNames(), registry)
	gw := gateway.NewGateway(log, registry, monitor)

	moderator, err := loadModerator(config)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	coord := coordinator.NewCoordinator(log, messageStore, authService,
		registry, directory, gw, moderator, monitor,
		config.HistoryLimit, config.BufferSize)

	// 4. Context & signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		_ = coord.Run(ctx)
	}()

	// 5. HTTP + websocket server
	ws := transport.NewServer(log, coord, gw, monitor, config.ConnectionBufferSize)
	handler := api.NewHandler(log, messageStore, searchIndex, directory,
		authService.Tokens(), monitor, config.UploadsDir)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           handler.Routes(ws.ServeWS),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server running", "address", address, "rooms", config.Rooms)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// loadModerator builds the optional body censor; no wordlist configured
// means no moderation.
func loadModerator(config Config) (*moderation.Moderator, error) {
	if config.CensoredWordsPath == "" {
		return nil, nil
	}
	replacement, err := config.CensoredRune()
	if err != nil {
		return nil, err
	}
	words, err := moderation.LoadWordlist(config.CensoredWordsPath)
	if err != nil {
		return nil, err
	}
	return moderation.NewModerator(words, replacement)
}
