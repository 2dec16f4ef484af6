package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/registry"
	"github.com/scythe504/impostor-backend/internal/store"
)

type fakeConn struct {
	id internal.ConnID

	mu     sync.Mutex
	msgs   []internal.Outbound
	closed bool
}

func (c *fakeConn) ID() internal.ConnID { return c.id }

func (c *fakeConn) Send(msg internal.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errors.New("connection closed")
	}
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) all(msgType string) []internal.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []internal.Outbound
	for _, m := range c.msgs {
		if m.MessageType() == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) count(msgType string) int {
	return len(c.all(msgType))
}

func (c *fakeConn) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

// last returns the most recent message of msgType, or nil.
func (c *fakeConn) last(msgType string) internal.Outbound {
	msgs := c.all(msgType)
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}

func (c *fakeConn) lastError() string {
	msg, ok := c.last(internal.MsgError).(internal.ErrorMessage)
	if !ok {
		return ""
	}
	return msg.Message
}

type harness struct {
	t     *testing.T
	svc   *Service
	rooms *store.RoomStore
	conns *registry.Registry

	nextConn int
	nextCode int
}

func testConfig() Config {
	return Config{
		TransitionDeadline: time.Hour,
		RedirectGrace:      time.Hour,
		EmptyRoomTTL:       time.Hour,
		PhaseTimerSlack:    time.Hour,
		MinPlayers:         2,
	}
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		t:     t,
		rooms: store.NewRoomStore(),
		conns: registry.New(),
	}
	h.svc = NewService(cfg, h.rooms, h.conns, nil, nil)
	h.svc.rng = rand.New(rand.NewSource(42))
	h.svc.newCode = func() string {
		code := fmt.Sprintf("AA%c%c", 'A'+h.nextCode/26, 'A'+h.nextCode%26)
		h.nextCode++
		return code
	}
	t.Cleanup(h.svc.Close)
	return h
}

func (h *harness) connect(label string) *fakeConn {
	h.nextConn++
	conn := &fakeConn{id: internal.ConnID(fmt.Sprintf("%s-%d", label, h.nextConn))}
	h.svc.Connect(conn)
	return conn
}

func (h *harness) send(conn *fakeConn, fields map[string]any) {
	h.t.Helper()
	data, err := json.Marshal(fields)
	require.NoError(h.t, err)
	h.svc.HandleMessage(conn, data)
}

func (h *harness) createRoom(name string) (*fakeConn, string) {
	h.t.Helper()
	conn := h.connect(name)
	h.send(conn, map[string]any{"type": internal.MsgCreateRoom, "name": name, "avatar": "Avatar2.png"})
	created, ok := conn.last(internal.MsgRoomCreated).(internal.RoomCreatedMessage)
	require.True(h.t, ok, "room-created not received: %s", conn.lastError())
	return conn, created.Code
}

func (h *harness) joinRoom(code, name string) *fakeConn {
	h.t.Helper()
	conn := h.connect(name)
	h.send(conn, map[string]any{"type": internal.MsgJoinRoom, "code": code, "name": name})
	require.Empty(h.t, conn.lastError())
	return conn
}

// startedGame creates a room for names, the first being the leader, and
// starts a game in it.
func (h *harness) startedGame(names ...string) (string, map[string]*fakeConn) {
	h.t.Helper()
	conns := make(map[string]*fakeConn, len(names))
	leader, code := h.createRoom(names[0])
	conns[names[0]] = leader
	for _, name := range names[1:] {
		conns[name] = h.joinRoom(code, name)
	}
	h.send(leader, map[string]any{"type": internal.MsgStartGame, "code": code})
	require.Empty(h.t, leader.lastError())
	return code, conns
}

// inspect runs fn against the room under the service lock.
func (h *harness) inspect(code string, fn func(room *internal.Room)) {
	h.t.Helper()
	h.svc.mu.Lock()
	defer h.svc.mu.Unlock()
	room, ok := h.rooms.Get(code)
	require.True(h.t, ok, "room %s not found", code)
	fn(room)
}

func (h *harness) impostorOf(code string) string {
	var impostor string
	h.inspect(code, func(room *internal.Room) { impostor = room.Game.Impostor })
	return impostor
}

func (h *harness) answerAll(code string, conns map[string]*fakeConn, order ...string) {
	for _, name := range order {
		h.send(conns[name], map[string]any{
			"type":   internal.MsgSubmitAnswer,
			"code":   code,
			"answer": "answer from " + name,
		})
	}
}
