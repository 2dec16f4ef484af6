package game

import (
	"encoding/json"
	"log"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// ANSWER HANDLING
// =============================================================================

// activePlayer resolves the room and the player bound to conn for an
// in-game action.
func (s *Service) activePlayer(conn internal.Connection, code string) (*internal.Room, *internal.Player, error) {
	room, ok := s.rooms.Get(code)
	if !ok || !room.Game.Started {
		return nil, nil, ErrGameNotInProgress
	}
	player := room.PlayerByConn(conn.ID())
	if player == nil {
		return nil, nil, ErrNotInRoom
	}
	return room, player, nil
}

// handleSubmitAnswer records the connection's answer for the current round.
// The submitter is always identified by connection, never by the name field.
func (s *Service) handleSubmitAnswer(conn internal.Connection, msg internal.InboundMessage) error {
	room, player, err := s.activePlayer(conn, msg.Code)
	if err != nil {
		return err
	}
	if msg.Name != "" && msg.Name != player.Name {
		log.Printf("[handleSubmitAnswer] room=%s: %s tried to answer as %s", room.Code, player.Name, msg.Name)
		return ErrAnswerForOther
	}

	// null decodes into a string without error, so go through any.
	var raw any
	if len(msg.Answer) == 0 || json.Unmarshal(msg.Answer, &raw) != nil {
		return ErrAnswerNotString
	}
	text, isString := raw.(string)
	if !isString {
		return ErrAnswerNotString
	}

	if _, answered := room.Game.AnswerOf(player.Name); answered {
		log.Printf("[handleSubmitAnswer] room=%s: duplicate answer from %s ignored", room.Code, player.Name)
		return nil
	}
	if room.Game.Phase != internal.PhaseAnswering {
		return ErrAnswersClosed
	}

	room.Game.Answers = append(room.Game.Answers, internal.Answer{
		Name: player.Name,
		Text: utils.SanitizeAnswer(text),
	})

	submitted, total := room.CountAnswered(), len(room.Players)
	log.Printf("[handleSubmitAnswer] room=%s: %s answered (%d/%d, forced=%v)",
		room.Code, player.Name, submitted, total, msg.Forced)

	if room.HasEveryoneAnswered() {
		s.revealAnswers(room)
		return nil
	}
	if !msg.Forced {
		broadcastToRoom(room, internal.AnswerStatusMessage{
			Envelope:  envelope(internal.MsgAnswerStatus),
			Submitted: submitted,
			Total:     total,
		})
	}
	return nil
}
