package game

import (
	"fmt"
	"log"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// ROOM MANAGEMENT
// =============================================================================

// maxCodeAttempts bounds the unique-code retry loop. With 26^4 codes it is
// only reached if the store is close to saturation.
const maxCodeAttempts = 1000

type JoinResult int

const (
	JoinOK JoinResult = iota
	JoinFull
	JoinDuplicate
	JoinNotFound
)

func (r JoinResult) String() string {
	switch r {
	case JoinOK:
		return "ok"
	case JoinFull:
		return "full"
	case JoinDuplicate:
		return "duplicate"
	case JoinNotFound:
		return "not-found"
	}
	return fmt.Sprintf("JoinResult(%d)", int(r))
}

// Err maps a failed join to the error reported to the client.
func (r JoinResult) Err() error {
	switch r {
	case JoinFull:
		return ErrRoomFull
	case JoinDuplicate:
		return ErrNameTaken
	case JoinNotFound:
		return ErrRoomNotFound
	}
	return nil
}

func (s *Service) uniqueRoomCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.newCode()
		if !s.rooms.Exists(code) {
			return code, nil
		}
		log.Printf("[uniqueRoomCode] collision on %s (attempt %d)", code, attempt+1)
	}
	return "", ErrNoRoomCode
}

// createRoom makes conn the sole player and leader of a fresh lobby.
func (s *Service) createRoom(conn internal.Connection, name, avatar string) (*internal.Room, error) {
	name, ok := utils.ValidateName(name)
	if !ok {
		return nil, ErrInvalidName
	}

	code, err := s.uniqueRoomCode()
	if err != nil {
		return nil, err
	}

	creator := &internal.Player{Conn: conn, Name: name, Avatar: avatarOrDefault(avatar)}
	room := &internal.Room{
		Code:      code,
		Players:   []*internal.Player{creator},
		Settings:  internal.DefaultSettings(),
		Game:      internal.NewLobbyState(),
		CreatedAt: s.now(),
	}
	room.SetLeader(creator)

	if !s.rooms.Add(room) {
		return nil, ErrNoRoomCode
	}

	log.Printf("[createRoom] Created room %s for %s (rounds=%d, answeringTime=%d, discussionTime=%d)",
		code, name, room.Settings.Rounds, room.Settings.AnsweringTime, room.Settings.DiscussionTime)
	return room, nil
}

// joinRoom adds a player to a room. A reconnect replaces the existing entry
// with the same name and carries its leader flag over.
func (s *Service) joinRoom(code string, conn internal.Connection, name, avatar string, isReconnect bool) JoinResult {
	room, ok := s.rooms.Get(code)
	if !ok {
		return JoinNotFound
	}
	if room.IsFull() {
		log.Printf("[joinRoom] room=%s: rejecting %s, room is full", code, name)
		return JoinFull
	}

	shouldBeLeader := len(room.Players) == 0

	if existing := room.PlayerByName(name); existing != nil {
		if !isReconnect {
			return JoinDuplicate
		}
		shouldBeLeader = existing.IsLeader
		room.RemovePlayerAt(room.IndexOf(existing))
		log.Printf("[joinRoom] room=%s: replacing entry for reconnecting player %s", code, name)
	}

	player := &internal.Player{Conn: conn, Name: name, Avatar: avatarOrDefault(avatar)}
	room.Players = append(room.Players, player)
	cancelTimer(&room.DeleteTimer)

	if shouldBeLeader {
		room.SetLeader(player)
		log.Printf("[joinRoom] room=%s: %s is leader (conn=%s)", code, name, conn.ID())
	}

	log.Printf("[joinRoom] room=%s: %s joined (%d/%d)", code, name, len(room.Players), internal.MaxPlayersPerRoom)
	return JoinOK
}

// findPlayerInRoom looks a player up by name for reconnection. A sole
// returning player is granted leadership and any pending deletion is dropped.
func (s *Service) findPlayerInRoom(code, name string) *internal.Player {
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil
	}
	player := room.PlayerByName(name)
	if player == nil {
		return nil
	}

	cancelTimer(&room.DeleteTimer)
	if len(room.Players) == 1 && !player.IsLeader {
		room.SetLeader(player)
		log.Printf("[findPlayerInRoom] room=%s: %s is the only player, granting leadership", code, name)
	}
	return player
}

// removePlayer detaches the player bound to connID from whichever room holds
// it. It returns false when no player was removed.
func (s *Service) removePlayer(connID internal.ConnID) bool {
	for _, room := range s.rooms.All() {
		player := room.PlayerByConn(connID)
		if player == nil {
			continue
		}

		if room.IsTransitioningToGame && player.Name == room.OriginalLeaderName {
			log.Printf("[removePlayer] room=%s: original leader %s is navigating to the game, keeping entry",
				room.Code, player.Name)
			return false
		}

		wasLeader := player.IsLeader
		room.RemovePlayerAt(room.IndexOf(player))
		log.Printf("[removePlayer] room=%s: removed %s (remaining=%d, wasLeader=%v)",
			room.Code, player.Name, len(room.Players), wasLeader)

		if len(room.Players) == 0 {
			s.scheduleRoomDeletion(room)
			return true
		}

		if wasLeader {
			room.LeaderConnID = ""
			if !room.IsTransitioningToGame && connID != room.OriginalLeaderConnID {
				newLeader := room.Players[0]
				room.SetLeader(newLeader)
				log.Printf("[removePlayer] room=%s: elected %s as new leader", room.Code, newLeader.Name)
				broadcastLeaderChanged(room, newLeader)
			}
		}

		if room.Game.Started {
			BroadcastGameState(room)
		}
		broadcastToRoom(room, internal.PlayerLeftMessage{
			Envelope: envelope(internal.MsgPlayerLeft),
			Name:     player.Name,
			Players:  room.Roster(),
		})

		s.checkPhaseCompletion(room)
		return true
	}
	return false
}

// scheduleRoomDeletion arms the empty-room timer. Any join cancels it.
func (s *Service) scheduleRoomDeletion(room *internal.Room) {
	CancelPhaseTimer(room)
	log.Printf("[scheduleRoomDeletion] room=%s: empty, deleting in %v", room.Code, s.cfg.EmptyRoomTTL)
	s.schedule(room, &room.DeleteTimer, "delete", s.cfg.EmptyRoomTTL, func() {
		if len(room.Players) > 0 {
			return
		}
		cancelAllTimers(room)
		s.rooms.Delete(room.Code)
		log.Printf("[scheduleRoomDeletion] room=%s: deleted", room.Code)
	})
}

func avatarOrDefault(avatar string) string {
	if avatar == "" {
		return internal.DefaultAvatar
	}
	return avatar
}
