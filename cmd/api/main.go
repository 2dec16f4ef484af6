package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/config"
	"github.com/scythe504/impostor-backend/internal/database"
	"github.com/scythe504/impostor-backend/internal/game"
	"github.com/scythe504/impostor-backend/internal/ratelimit"
	"github.com/scythe504/impostor-backend/internal/registry"
	"github.com/scythe504/impostor-backend/internal/server"
	"github.com/scythe504/impostor-backend/internal/store"
	"github.com/scythe504/impostor-backend/internal/utils"
	"github.com/scythe504/impostor-backend/internal/websocket"
)

const shutdownTimeout = 5 * time.Second

func gracefulShutdown(apiServer *http.Server, gameService *game.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}
	gameService.Close()

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	questions := utils.DefaultQuestionPairs
	if cfg.QuestionsFile != "" {
		questions, err = utils.ReadQuestionsCsvFile(cfg.QuestionsFile)
		if err != nil {
			log.Fatalf("failed to load questions: %v", err)
		}
		log.Printf("loaded %d question pairs from %s", len(questions), cfg.QuestionsFile)
	}

	var (
		db       database.Service
		recorder game.HistoryRecorder
	)
	if cfg.DatabaseURL != "" {
		db, err = database.New(startupCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		recorder = db
	} else {
		log.Println("DATABASE_URL not set, round history disabled")
	}

	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		var client *redis.Client
		client, err = ratelimit.Connect(startupCtx, cfg.RedisAddr)
		if err != nil {
			log.Printf("redis unavailable, connect rate limiting disabled: %v", err)
		} else {
			defer client.Close()
			limiter = ratelimit.NewLimiter(client, "ws-connect", cfg.ConnectRateLimit, cfg.ConnectRateWindow)
		}
	}

	rooms := store.NewRoomStore()
	conns := registry.New()
	gameService := game.NewService(cfg.Game, rooms, conns, questions, recorder)
	wsHandler := websocket.NewHandler(gameService, conns, limiter)

	apiServer := server.NewServer(cfg.Port, gameService, db, wsHandler, cfg.StaticDir)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(apiServer, gameService, done)

	log.Printf("impostor server listening on :%s (max %d players per room)", cfg.Port, internal.MaxPlayersPerRoom)
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}
