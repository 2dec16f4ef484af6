package game

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/registry"
	"github.com/scythe504/impostor-backend/internal/store"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// SERVICE
// =============================================================================

type Config struct {
	// TransitionDeadline bounds the lobby -> game reconnection window.
	TransitionDeadline time.Duration
	// RedirectGrace is how long after start-game unknown names may still join.
	RedirectGrace   time.Duration
	EmptyRoomTTL    time.Duration
	PhaseTimerSlack time.Duration
	MinPlayers      int
}

func DefaultConfig() Config {
	return Config{
		TransitionDeadline: 8 * time.Second,
		RedirectGrace:      4 * time.Second,
		EmptyRoomTTL:       2 * time.Minute,
		PhaseTimerSlack:    5 * time.Second,
		MinPlayers:         2,
	}
}

// HistoryRecorder archives finished rounds and games.
type HistoryRecorder interface {
	RecordRound(ctx context.Context, rec internal.RoundRecord) error
	RecordGame(ctx context.Context, rec internal.GameRecord) error
}

const recordTimeout = 5 * time.Second

// Service owns all room mutation. Every inbound message and every timer
// callback runs under mu, so handlers never interleave.
type Service struct {
	cfg       Config
	rooms     *store.RoomStore
	conns     *registry.Registry
	questions []internal.QuestionPair
	recorder  HistoryRecorder

	mu      sync.Mutex
	rng     *rand.Rand
	now     func() time.Time
	newCode func() string
	pending sync.WaitGroup
}

func NewService(cfg Config, rooms *store.RoomStore, conns *registry.Registry, questions []internal.QuestionPair, recorder HistoryRecorder) *Service {
	if len(questions) == 0 {
		questions = utils.DefaultQuestionPairs
	}
	return &Service{
		cfg:       cfg,
		rooms:     rooms,
		conns:     conns,
		questions: questions,
		recorder:  recorder,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		newCode:   utils.GenerateRoomCode,
	}
}

// RoomSummary is the public lobby-browser view of a room.
type RoomSummary struct {
	Code    string `json:"code"`
	Players int    `json:"players"`
	InGame  bool   `json:"inGame"`
	Full    bool   `json:"full"`
}

func (s *Service) RoomSummary(code string) (RoomSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms.Get(utils.NormalizeRoomCode(code))
	if !ok {
		return RoomSummary{}, false
	}
	return RoomSummary{
		Code:    room.Code,
		Players: room.GetPlayerCount(),
		InGame:  !room.InLobby(),
		Full:    room.IsFull(),
	}, true
}

func (s *Service) RoomCount() int {
	return s.rooms.Len()
}

func (s *Service) ConnectionCount() int {
	return s.conns.Len()
}

// record runs an archive write off the handler path.
func (s *Service) record(what string, write func(ctx context.Context, rec HistoryRecorder) error) {
	if s.recorder == nil {
		return
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := write(ctx, s.recorder); err != nil {
			log.Printf("[record] failed to archive %s: %v", what, err)
		}
	}()
}

// Close cancels every room timer and waits for pending archive writes.
func (s *Service) Close() {
	s.mu.Lock()
	for _, room := range s.rooms.All() {
		cancelAllTimers(room)
	}
	s.mu.Unlock()
	s.pending.Wait()
}
