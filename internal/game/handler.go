package game

import (
	"encoding/json"
	"log"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// MESSAGE DISPATCH
// =============================================================================

// Connect registers a new connection with the service.
func (s *Service) Connect(conn internal.Connection) {
	s.conns.Add(conn)
	log.Printf("[Connect] connection %s registered (%d live)", conn.ID(), s.conns.Len())
}

// Disconnect removes the connection's player, subject to the transition
// exception, and invalidates the connection id.
func (s *Service) Disconnect(conn internal.Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removePlayer(conn.ID())
	s.conns.Remove(conn.ID())
	log.Printf("[Disconnect] connection %s closed (%d live)", conn.ID(), s.conns.Len())
}

// HandleMessage decodes one client frame and runs its handler to completion.
// Handler errors go back to the sender as error messages. Malformed frames
// are logged and dropped.
func (s *Service) HandleMessage(conn internal.Connection, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[HandleMessage] recovered from panic on connection %s: %v", conn.ID(), r)
		}
	}()

	if !s.conns.IsLive(conn) {
		log.Printf("[HandleMessage] dropping message from unregistered connection %s", conn.ID())
		return
	}

	var msg internal.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[HandleMessage] malformed message from %s: %v", conn.ID(), err)
		return
	}
	msg.Code = utils.NormalizeRoomCode(msg.Code)

	if err := s.dispatch(conn, msg); err != nil {
		log.Printf("[HandleMessage] %s from %s (room=%s) failed: %v", msg.Type, conn.ID(), msg.Code, err)
		sendError(conn, err)
	}
}

func (s *Service) dispatch(conn internal.Connection, msg internal.InboundMessage) error {
	switch msg.Type {
	case internal.MsgCreateRoom:
		return s.handleCreateRoom(conn, msg)
	case internal.MsgJoinRoom:
		return s.handleJoinRoom(conn, msg)
	case internal.MsgReconnect:
		return s.handleReconnect(conn, msg)
	case internal.MsgJoinGame:
		return s.handleJoinGame(conn, msg)
	case internal.MsgUpdateSettings:
		return s.updateRoomSettings(conn, msg.Code, msg.Settings)
	case internal.MsgStartGame:
		return s.startGame(conn, msg.Code)
	case internal.MsgSubmitAnswer:
		return s.handleSubmitAnswer(conn, msg)
	case internal.MsgSubmitVote:
		return s.handleSubmitVote(conn, msg)
	case internal.MsgDiscussionTimeUp:
		return s.handleDiscussionTimeUp(conn, msg)
	case internal.MsgStartNextRound:
		return s.startNextRound(conn, msg.Code)
	default:
		log.Printf("[dispatch] unknown message type %q from %s", msg.Type, conn.ID())
		return ErrUnknownMessage
	}
}

// JoinRoom adds a player to a lobby without the join-room side messages.
func (s *Service) JoinRoom(code string, conn internal.Connection, name, avatar string, isReconnect bool) JoinResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinRoom(utils.NormalizeRoomCode(code), conn, name, avatar, isReconnect)
}

// FindPlayerInRoom returns a copy of the named player's public view.
func (s *Service) FindPlayerInRoom(code, name string) (internal.PlayerView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.findPlayerInRoom(utils.NormalizeRoomCode(code), name)
	if player == nil {
		return internal.PlayerView{}, false
	}
	return player.ToPublicPlayer(), true
}
