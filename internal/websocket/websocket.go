package websocket

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/scythe504/impostor-backend/internal/game"
	"github.com/scythe504/impostor-backend/internal/registry"
)

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ConnectLimiter decides whether a client address may open another
// connection.
type ConnectLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type Handler struct {
	service *game.Service
	conns   *registry.Registry
	limiter ConnectLimiter
}

// NewHandler wires the upgrade endpoint to the game service. limiter may be
// nil, in which case every connection is accepted.
func NewHandler(service *game.Service, conns *registry.Registry, limiter ConnectLimiter) *Handler {
	return &Handler{service: service, conns: conns, limiter: limiter}
}

// ServeHTTP upgrades the request and runs the connection's pumps until it
// closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(r.Context(), ClientIP(r))
		if err != nil {
			log.Printf("[HandleWebSocket] rate limiter error, allowing connection: %v", err)
		}
		if !allowed {
			log.Printf("[HandleWebSocket] rate limited %s", ClientIP(r))
			http.Error(w, "too many connections", http.StatusTooManyRequests)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[HandleWebSocket] upgrade failed: %v", err)
		return
	}

	client := NewClient(h.conns.NewID(), conn)
	h.service.Connect(client)
	log.Printf("[HandleWebSocket] client %s connected from %s", client.ID(), ClientIP(r))

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		h.service.HandleMessage(client, data)
	})

	h.service.Disconnect(client)
	log.Printf("[HandleWebSocket] client %s disconnected", client.ID())
}

// ClientIP returns the first X-Forwarded-For hop, or the remote host.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
