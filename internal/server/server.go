package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/impostor-backend/internal/database"
	"github.com/scythe504/impostor-backend/internal/game"
)

type Server struct {
	port      string
	game      *game.Service
	db        database.Service
	ws        http.Handler
	staticDir string
}

// NewServer builds the HTTP server. db may be nil, in which case the history
// endpoint reports itself unavailable.
func NewServer(port string, gameService *game.Service, db database.Service, ws http.Handler, staticDir string) *http.Server {
	s := &Server{
		port:      port,
		game:      gameService,
		db:        db,
		ws:        ws,
		staticDir: staticDir,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%s", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
