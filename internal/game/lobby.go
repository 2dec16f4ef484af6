package game

import (
	"fmt"
	"log"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// GAME FLOW - LOBBY, SETTINGS & LOBBY -> GAME TRANSITION
// =============================================================================

const (
	MinRounds         = 1
	MaxRounds         = 20
	MinAnsweringTime  = 5
	MaxAnsweringTime  = 300
	MinDiscussionTime = 10
	MaxDiscussionTime = 600
)

func validateSettings(settings internal.Settings) error {
	switch {
	case settings.Rounds < MinRounds || settings.Rounds > MaxRounds:
		return fmt.Errorf("%w: rounds must be between %d and %d", ErrInvalidSettings, MinRounds, MaxRounds)
	case settings.AnsweringTime < MinAnsweringTime || settings.AnsweringTime > MaxAnsweringTime:
		return fmt.Errorf("%w: answering time must be between %d and %d seconds",
			ErrInvalidSettings, MinAnsweringTime, MaxAnsweringTime)
	case settings.DiscussionTime < MinDiscussionTime || settings.DiscussionTime > MaxDiscussionTime:
		return fmt.Errorf("%w: discussion time must be between %d and %d seconds",
			ErrInvalidSettings, MinDiscussionTime, MaxDiscussionTime)
	}
	return nil
}

// leaderRoom resolves code and checks that conn currently leads the room.
func (s *Service) leaderRoom(conn internal.Connection, code string) (*internal.Room, error) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.LeaderConnID == "" || room.LeaderConnID != conn.ID() {
		return nil, ErrNotLeader
	}
	return room, nil
}

// updateRoomSettings merges a partial update into the room's settings and
// broadcasts the merged result.
func (s *Service) updateRoomSettings(conn internal.Connection, code string, update *internal.SettingsUpdate) error {
	room, err := s.leaderRoom(conn, code)
	if err != nil {
		return err
	}
	if update == nil {
		return ErrInvalidSettings
	}

	merged := room.Settings.Merge(*update)
	if err := validateSettings(merged); err != nil {
		log.Printf("[updateRoomSettings] room=%s: rejected %+v: %v", code, merged, err)
		return err
	}
	room.Settings = merged

	log.Printf("[updateRoomSettings] room=%s: settings now %+v", code, merged)
	broadcastToRoom(room, internal.SettingsUpdatedMessage{
		Envelope: envelope(internal.MsgSettingsUpdated),
		Settings: room.Settings,
	})
	return nil
}

// startGame deals the first round and opens the reconnection window in which
// clients move from their lobby connection to a game connection.
func (s *Service) startGame(conn internal.Connection, code string) error {
	room, err := s.leaderRoom(conn, code)
	if err != nil {
		return err
	}
	if !room.InLobby() || room.Game.Phase != internal.PhaseLobby {
		return ErrGameAlreadyStarted
	}
	if len(room.Players) < s.cfg.MinPlayers {
		log.Printf("[startGame] room=%s: not enough players (%d/%d)", code, len(room.Players), s.cfg.MinPlayers)
		return fmt.Errorf("%w: %d/%d", ErrNotEnoughPlayers, len(room.Players), s.cfg.MinPlayers)
	}
	if err := s.setPhase(room, internal.PhaseStarting); err != nil {
		return err
	}

	room.Game.Started = true
	room.Game.Round = 1
	room.Game.TotalRounds = room.Settings.Rounds
	s.dealRoles(room)
	s.beginTransition(room)

	log.Printf("[startGame] room=%s: game started with %d players, %d rounds",
		code, len(room.Players), room.Game.TotalRounds)

	for _, player := range room.Players {
		sendGameRole(room, player)
	}
	broadcastToRoom(room, internal.RedirectToGameMessage{
		Envelope: envelope(internal.MsgRedirectToGame),
		Settings: room.Settings,
	})

	s.startAnswering(room)
	return nil
}

func (s *Service) beginTransition(room *internal.Room) {
	now := s.now()
	room.IsTransitioningToGame = true
	room.NavigatedPlayers = make(map[string]bool, len(room.Players))
	room.ExpectedPlayerCount = len(room.Players)
	room.RedirectGraceStart = now
	room.TransitionDeadline = now.Add(s.cfg.TransitionDeadline)
	if leader := room.Leader(); leader != nil {
		room.OriginalLeaderConnID = leader.ConnID()
		room.OriginalLeaderName = leader.Name
	}

	log.Printf("[beginTransition] room=%s: expecting %d players within %v (original leader %s)",
		room.Code, room.ExpectedPlayerCount, s.cfg.TransitionDeadline, room.OriginalLeaderName)

	s.schedule(room, &room.TransitionTimer, "transition", s.cfg.TransitionDeadline, func() {
		s.finalizeTransition(room)
	})
}

// finalizeTransition ends the reconnection window. It is a no-op unless the
// room is still transitioning.
func (s *Service) finalizeTransition(room *internal.Room) {
	if !room.IsTransitioningToGame {
		return
	}
	cancelTimer(&room.TransitionTimer)
	room.IsTransitioningToGame = false
	room.NavigatedPlayers = nil
	room.OriginalLeaderConnID = ""

	// The original leader's lobby entry survives its own disconnect. Drop it if
	// no game connection ever replaced it.
	if original := room.PlayerByName(room.OriginalLeaderName); original != nil && !s.isConnected(original) {
		room.RemovePlayerAt(room.IndexOf(original))
		log.Printf("[finalizeTransition] room=%s: original leader %s never reconnected", room.Code, original.Name)
		broadcastToRoom(room, internal.PlayerLeftMessage{
			Envelope: envelope(internal.MsgPlayerLeft),
			Name:     original.Name,
			Players:  room.Roster(),
		})
	}

	if len(room.Players) == 0 {
		s.scheduleRoomDeletion(room)
		return
	}

	leader := room.PlayerByName(room.OriginalLeaderName)
	if leader == nil {
		leader = room.Players[0]
	}
	room.SetLeader(leader)

	log.Printf("[finalizeTransition] room=%s: transition complete with %d/%d players, leader %s",
		room.Code, len(room.Players), room.ExpectedPlayerCount, leader.Name)

	broadcastLeaderChanged(room, leader)
	sendLeadershipStatus(leader)
	s.checkPhaseCompletion(room)
}

// navigatedCount counts roster entries already bound to a game connection.
// Lobby entries left over from before start-game do not count.
func navigatedCount(room *internal.Room) int {
	count := 0
	for _, player := range room.Players {
		if room.NavigatedPlayers[player.Name] {
			count++
		}
	}
	return count
}

func (s *Service) isConnected(player *internal.Player) bool {
	return player.Conn != nil && s.conns.IsLive(player.Conn)
}

// handleJoinGame binds a game-page connection to its player. Unknown names
// are admitted only in the lobby or inside the redirect grace window.
func (s *Service) handleJoinGame(conn internal.Connection, msg internal.InboundMessage) error {
	room, ok := s.rooms.Get(msg.Code)
	if !ok {
		return ErrRoomNotFound
	}
	name, valid := utils.ValidateName(msg.Name)
	if !valid {
		return ErrInvalidName
	}

	player := s.findPlayerInRoom(room.Code, name)
	inGrace := s.now().Sub(room.RedirectGraceStart) < s.cfg.RedirectGrace

	if player == nil {
		if room.Game.Started && !inGrace {
			log.Printf("[handleJoinGame] room=%s: blocked %s joining mid-game", room.Code, name)
			sendTo(conn, internal.ForceExitMessage{
				Envelope: envelope(internal.MsgForceExit),
				Reason:   "Game already started. You cannot rejoin.",
			})
			return nil
		}
		if room.IsFull() {
			sendTo(conn, internal.ForceExitMessage{
				Envelope: envelope(internal.MsgForceExit),
				Reason:   "Room is full.",
			})
			return nil
		}

		player = &internal.Player{Conn: conn, Name: name, Avatar: avatarOrDefault(msg.Avatar)}
		room.Players = append(room.Players, player)
		cancelTimer(&room.DeleteTimer)
		if len(room.Players) == 1 && !room.IsTransitioningToGame {
			room.SetLeader(player)
		}
		log.Printf("[handleJoinGame] room=%s: added %s (%d players)", room.Code, name, len(room.Players))
	} else {
		player.Conn = conn
		if msg.Avatar != "" {
			player.Avatar = msg.Avatar
		}
		if player.IsLeader {
			room.LeaderConnID = conn.ID()
		}
		log.Printf("[handleJoinGame] room=%s: %s reconnected (leader=%v)", room.Code, name, player.IsLeader)
	}

	if room.IsTransitioningToGame {
		room.NavigatedPlayers[name] = true
		navigated := navigatedCount(room)
		log.Printf("[handleJoinGame] room=%s: players in game %d/%d",
			room.Code, navigated, room.ExpectedPlayerCount)
		if navigated >= room.ExpectedPlayerCount && room.NavigatedPlayers[room.OriginalLeaderName] {
			s.finalizeTransition(room)
		}
	}

	BroadcastGameState(room)

	if room.Game.RolesAssigned {
		sendGameRole(room, player)
	}
	if room.Game.Phase == internal.PhaseDiscussing {
		sendTo(conn, showAnswersMessage(room))
	}
	return nil
}

// handleJoinRoom admits a player to a room that is still in the lobby.
func (s *Service) handleJoinRoom(conn internal.Connection, msg internal.InboundMessage) error {
	name, valid := utils.ValidateName(msg.Name)
	if !valid {
		return ErrInvalidName
	}
	room, ok := s.rooms.Get(msg.Code)
	if !ok {
		return ErrRoomNotFound
	}
	if !room.InLobby() {
		return ErrGameInProgress
	}

	// Only the most recent leader may reclaim the role, or its roster entry,
	// through wasLeader.
	reclaimsLeader := msg.WasLeader && (name == room.LastLeaderName || name == room.OriginalLeaderName)
	isReconnect := msg.WasReconnect || reclaimsLeader
	if result := s.joinRoom(room.Code, conn, name, msg.Avatar, isReconnect); result != JoinOK {
		return result.Err()
	}
	player := room.PlayerByName(name)

	if reclaimsLeader {
		room.SetLeader(player)
		broadcastLeaderChanged(room, player)
	}

	sendTo(conn, internal.SettingsUpdatedMessage{
		Envelope: envelope(internal.MsgSettingsUpdated),
		Settings: room.Settings,
	})
	broadcastPlayerJoined(room)

	if player.IsLeader {
		sendLeadershipStatus(player)
	}
	return nil
}

func (s *Service) handleCreateRoom(conn internal.Connection, msg internal.InboundMessage) error {
	room, err := s.createRoom(conn, msg.Name, msg.Avatar)
	if err != nil {
		return err
	}
	sendTo(conn, internal.RoomCreatedMessage{
		Envelope: envelope(internal.MsgRoomCreated),
		Code:     room.Code,
		Players:  room.Roster(),
		IsLeader: true,
		Settings: room.Settings,
	})
	return nil
}

// handleReconnect rebinds a known lobby player to a new connection.
func (s *Service) handleReconnect(conn internal.Connection, msg internal.InboundMessage) error {
	player := s.findPlayerInRoom(msg.Code, msg.Name)
	if player == nil {
		return ErrReconnectFailed
	}
	room, _ := s.rooms.Get(msg.Code)

	player.Conn = conn
	if player.IsLeader {
		room.LeaderConnID = conn.ID()
	}
	log.Printf("[handleReconnect] room=%s: %s reconnected (leader=%v)", room.Code, player.Name, player.IsLeader)

	broadcastPlayerJoined(room)
	sendLeadershipStatus(player)
	return nil
}
