package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// Apply CORS middleware
	r.Use(s.corsMiddleware)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}", s.GetRoomHandler).Methods(http.MethodGet)
	r.HandleFunc("/rooms/{code}/history", s.GetRoomHistoryHandler).Methods(http.MethodGet)

	if s.ws != nil {
		r.Handle("/ws", s.ws)
	}

	if s.staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}

	return r
}

// CORS middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Credentials", "false")

		// If it's a websocket upgrade, skip further CORS checks
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	health := map[string]any{
		"status":      "up",
		"rooms":       s.game.RoomCount(),
		"connections": s.game.ConnectionCount(),
		"database":    "disabled",
	}
	if s.db != nil {
		health["database"] = s.db.Health(r.Context())
	}

	writeResponse(w, startTime, http.StatusOK, health)
}

func (s *Server) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	code := utils.NormalizeRoomCode(mux.Vars(r)["code"])

	if !utils.IsValidRoomCode(code) {
		writeResponse(w, startTime, http.StatusBadRequest, "Invalid room code")
		return
	}

	summary, ok := s.game.RoomSummary(code)
	if !ok {
		writeResponse(w, startTime, http.StatusNotFound, "Room not found")
		return
	}
	writeResponse(w, startTime, http.StatusOK, summary)
}

func (s *Server) GetRoomHistoryHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()
	code := utils.NormalizeRoomCode(mux.Vars(r)["code"])

	if s.db == nil {
		writeResponse(w, startTime, http.StatusServiceUnavailable, "History is disabled")
		return
	}
	if !utils.IsValidRoomCode(code) {
		writeResponse(w, startTime, http.StatusBadRequest, "Invalid room code")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeResponse(w, startTime, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	rounds, err := s.db.RecentRounds(r.Context(), code, limit)
	if err != nil {
		log.Printf("[GetRoomHistoryHandler] room=%s: %v", code, err)
		writeResponse(w, startTime, http.StatusInternalServerError, "Failed to load history")
		return
	}
	writeResponse(w, startTime, http.StatusOK, rounds)
}

func writeResponse(w http.ResponseWriter, startTime int64, statusCode int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    statusCode,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
