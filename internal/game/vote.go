package game

import (
	"log"

	"github.com/scythe504/impostor-backend/internal"
)

// =============================================================================
// VOTING
// =============================================================================

func (s *Service) handleSubmitVote(conn internal.Connection, msg internal.InboundMessage) error {
	room, voter, err := s.activePlayer(conn, msg.Code)
	if err != nil {
		return err
	}
	if room.Game.Phase != internal.PhaseDiscussing || room.Game.VotesTallied {
		return ErrVotingClosed
	}
	if room.PlayerByName(msg.Target) == nil {
		return ErrInvalidVoteTarget
	}
	if room.Game.HasVoted(voter.Name) {
		return ErrAlreadyVoted
	}

	room.Game.Votes = append(room.Game.Votes, internal.Vote{Voter: voter.Name, Target: msg.Target})

	total, required := room.CountCurrentVoters(), len(room.Players)
	log.Printf("[handleSubmitVote] room=%s: %s voted for %s (%d/%d)", room.Code, voter.Name, msg.Target, total, required)

	broadcastToRoom(room, internal.VoteUpdateMessage{
		Envelope: envelope(internal.MsgVoteUpdate),
		Voter:    voter.Name,
		Target:   msg.Target,
		Total:    total,
		Required: required,
	})

	if total >= required {
		s.tallyVotes(room)
	}
	return nil
}

// handleDiscussionTimeUp forces a tally. Late or repeated signals are no-ops.
func (s *Service) handleDiscussionTimeUp(conn internal.Connection, msg internal.InboundMessage) error {
	room, _, err := s.activePlayer(conn, msg.Code)
	if err != nil {
		return err
	}
	if !s.tallyVotes(room) {
		log.Printf("[handleDiscussionTimeUp] room=%s: nothing to tally (phase=%s, tallied=%v)",
			room.Code, room.Game.Phase, room.Game.VotesTallied)
	}
	return nil
}
