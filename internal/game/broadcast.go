package game

import (
	"log"

	"github.com/scythe504/impostor-backend/internal"
)

// =============================================================================
// BROADCASTING & MESSAGING
// =============================================================================

// broadcastToRoom delivers msg to every player of the room in roster order.
// Connections enqueue without blocking, so this is safe under the service lock.
func broadcastToRoom(room *internal.Room, msg internal.Outbound) {
	successCount := 0
	for _, player := range room.Players {
		if player.Conn == nil {
			continue
		}
		if err := player.Conn.Send(msg); err != nil {
			log.Printf("[Broadcast][Room:%s] %s failed for player %s: %v",
				room.Code, msg.MessageType(), player.Name, err)
			continue
		}
		successCount++
	}
	log.Printf("[Broadcast][Room:%s] %s sent to %d/%d players",
		room.Code, msg.MessageType(), successCount, len(room.Players))
}

// sendTo delivers msg to a single connection.
func sendTo(conn internal.Connection, msg internal.Outbound) {
	if conn == nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		log.Printf("[Send] %s failed for connection %s: %v", msg.MessageType(), conn.ID(), err)
	}
}

func sendError(conn internal.Connection, err error) {
	sendTo(conn, internal.NewErrorMessage(err.Error()))
}

func envelope(msgType string) internal.Envelope {
	return internal.Envelope{Type: msgType}
}

func broadcastPlayerJoined(room *internal.Room) {
	broadcastToRoom(room, internal.PlayerJoinedMessage{
		Envelope: envelope(internal.MsgPlayerJoined),
		Code:     room.Code,
		Players:  room.Roster(),
	})
}

func broadcastLeaderChanged(room *internal.Room, leader *internal.Player) {
	broadcastToRoom(room, internal.LeaderChangedMessage{
		Envelope:   envelope(internal.MsgLeaderChanged),
		LeaderID:   room.LeaderConnID,
		LeaderName: leader.Name,
		Players:    room.Roster(),
	})
}

func sendLeadershipStatus(player *internal.Player) {
	sendTo(player.Conn, internal.LeadershipStatusMessage{
		Envelope: envelope(internal.MsgLeadershipStatus),
		IsLeader: player.IsLeader,
	})
}

// BroadcastGameState sends the roster and settings to all players.
func BroadcastGameState(room *internal.Room) {
	broadcastToRoom(room, internal.GameStateMessage{
		Envelope: envelope(internal.MsgGameState),
		Players:  room.Roster(),
		Settings: room.Settings,
	})
}

// sendGameRole tells one player their private question for the current round.
func sendGameRole(room *internal.Room, player *internal.Player) {
	isImpostor := player.Name == room.Game.Impostor
	sendTo(player.Conn, internal.GameRoleMessage{
		Envelope:    envelope(internal.MsgGameRole),
		IsImpostor:  isImpostor,
		Question:    room.Game.CurrentQuestion.For(isImpostor),
		Round:       room.Game.Round,
		TotalRounds: room.Game.TotalRounds,
	})
}
