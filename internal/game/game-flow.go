package game

import (
	"context"
	"fmt"
	"log"

	"github.com/scythe504/impostor-backend/internal"
	"github.com/scythe504/impostor-backend/internal/utils"
)

// =============================================================================
// GAME FLOW - ROUND STATE MACHINE
// =============================================================================

// setPhase moves the room along the legal phase table.
func (s *Service) setPhase(room *internal.Room, target internal.GamePhase) error {
	current := room.Game.Phase
	if !current.CanTransitionTo(target) {
		log.Printf("[setPhase] room=%s: illegal transition %s -> %s", room.Code, current, target)
		return fmt.Errorf("%w: %s -> %s", ErrIllegalPhaseChange, current, target)
	}
	room.Game.Phase = target
	log.Printf("[setPhase] room=%s: %s -> %s (round %d/%d)",
		room.Code, current, target, room.Game.Round, room.Game.TotalRounds)
	return nil
}

// dealRoles clears the round and picks a fresh question pair and impostor.
func (s *Service) dealRoles(room *internal.Room) {
	room.Game.ResetRound()
	room.Game.CurrentQuestion = utils.RandomQuestionPair(s.questions, s.rng.Intn)
	room.Game.Impostor = room.Players[s.rng.Intn(len(room.Players))].Name
	room.Game.RolesAssigned = true

	log.Printf("[dealRoles] room=%s: round %d dealt (category=%s)",
		room.Code, room.Game.Round, room.Game.CurrentQuestion.Category)
}

// startAnswering opens answer collection and arms its backstop timer.
func (s *Service) startAnswering(room *internal.Room) {
	if err := s.setPhase(room, internal.PhaseAnswering); err != nil {
		return
	}
	s.schedule(room, &room.PhaseTimer, "answering", s.phaseDeadline(room.Settings.AnsweringTime), func() {
		s.revealAnswers(room)
	})
}

func showAnswersMessage(room *internal.Room) internal.ShowAnswersMessage {
	return internal.ShowAnswersMessage{
		Envelope:         envelope(internal.MsgShowAnswers),
		Answers:          internal.AnswerPairs(room.Game.Answers),
		OriginalQuestion: room.Game.CurrentQuestion.Normal,
		ImpostorQuestion: room.Game.CurrentQuestion.Impostor,
		Impostor:         room.Game.Impostor,
		Round:            room.Game.Round,
		TotalRounds:      room.Game.TotalRounds,
	}
}

// revealAnswers publishes every answer collected this round and opens
// discussion. Only the first call per round has an effect.
func (s *Service) revealAnswers(room *internal.Room) {
	if room.Game.Phase != internal.PhaseAnswering {
		return
	}
	CancelPhaseTimer(room)
	if err := s.setPhase(room, internal.PhaseDiscussing); err != nil {
		return
	}

	log.Printf("[revealAnswers] room=%s: revealing %d answers", room.Code, len(room.Game.Answers))
	broadcastToRoom(room, showAnswersMessage(room))

	s.schedule(room, &room.PhaseTimer, "discussion", s.phaseDeadline(room.Settings.DiscussionTime), func() {
		s.tallyVotes(room)
	})
}

// tallyVotes resolves the round's vote. It reports whether a tally ran;
// repeated calls within a round are no-ops.
func (s *Service) tallyVotes(room *internal.Room) bool {
	if room.Game.VotesTallied || room.Game.Phase != internal.PhaseDiscussing {
		return false
	}

	result := TallyVotes(room.PlayerNames(), room.Game.Votes)
	room.Game.VotesTallied = true
	CancelPhaseTimer(room)
	if err := s.setPhase(room, internal.PhaseTallied); err != nil {
		return false
	}

	var votedPlayer *string
	if !result.IsDraw {
		voted := result.VotedPlayer
		votedPlayer = &voted
	}
	wasImpostor := !result.IsDraw && result.VotedPlayer == room.Game.Impostor

	log.Printf("[tallyVotes] room=%s: round %d tallied (votes=%d, draw=%v, voted=%q, wasImpostor=%v)",
		room.Code, room.Game.Round, len(room.Game.Votes), result.IsDraw, result.VotedPlayer, wasImpostor)

	votes := internal.VotePairs(room.Game.Votes)
	broadcastToRoom(room, internal.VoteResultsMessage{
		Envelope:         envelope(internal.MsgVoteResults),
		IsDraw:           result.IsDraw,
		VotedPlayer:      votedPlayer,
		WasImpostor:      wasImpostor,
		Impostor:         room.Game.Impostor,
		OriginalQuestion: room.Game.CurrentQuestion.Normal,
		ImpostorQuestion: room.Game.CurrentQuestion.Impostor,
		Votes:            votes,
	})

	record := internal.RoundRecord{
		RoomCode:         room.Code,
		Round:            room.Game.Round,
		TotalRounds:      room.Game.TotalRounds,
		Impostor:         room.Game.Impostor,
		NormalQuestion:   room.Game.CurrentQuestion.Normal,
		ImpostorQuestion: room.Game.CurrentQuestion.Impostor,
		VotedPlayer:      result.VotedPlayer,
		IsDraw:           result.IsDraw,
		WasImpostor:      wasImpostor,
		Answers:          internal.AnswerPairs(room.Game.Answers),
		Votes:            votes,
		PlayedAt:         s.now(),
	}
	s.record("round", func(ctx context.Context, rec HistoryRecorder) error {
		return rec.RecordRound(ctx, record)
	})
	return true
}

// startNextRound advances to the next round, or ends the game once the
// configured number of rounds has been played.
func (s *Service) startNextRound(conn internal.Connection, code string) error {
	room, err := s.leaderRoom(conn, code)
	if err != nil {
		return err
	}
	if !room.Game.Started {
		return ErrGameNotInProgress
	}

	if room.Game.Round >= room.Game.TotalRounds {
		s.endGame(room)
		return nil
	}

	CancelPhaseTimer(room)
	if err := s.setPhase(room, internal.PhaseStarting); err != nil {
		return err
	}
	room.Game.Round++
	s.dealRoles(room)

	for _, player := range room.Players {
		sendGameRole(room, player)
	}
	s.startAnswering(room)
	return nil
}

// endGame returns the room to the lobby and announces the end of the game.
func (s *Service) endGame(room *internal.Room) {
	CancelPhaseTimer(room)
	cancelTimer(&room.TransitionTimer)
	room.IsTransitioningToGame = false
	room.OriginalLeaderConnID = ""
	if err := s.setPhase(room, internal.PhaseLobby); err != nil {
		return
	}

	totalRounds := room.Game.TotalRounds
	room.Game = internal.NewLobbyState()

	log.Printf("[endGame] room=%s: game over after %d rounds", room.Code, totalRounds)
	broadcastToRoom(room, internal.GameOverMessage{
		Envelope:    envelope(internal.MsgGameOver),
		Message:     "Game over!",
		TotalRounds: totalRounds,
	})

	record := internal.GameRecord{
		RoomCode:    room.Code,
		TotalRounds: totalRounds,
		Players:     room.PlayerNames(),
		FinishedAt:  s.now(),
	}
	s.record("game", func(ctx context.Context, rec HistoryRecorder) error {
		return rec.RecordGame(ctx, record)
	})
}

// checkPhaseCompletion advances the round when a departure leaves every
// remaining player with an answer or vote on file.
func (s *Service) checkPhaseCompletion(room *internal.Room) {
	if len(room.Players) == 0 || room.IsTransitioningToGame {
		return
	}
	switch room.Game.Phase {
	case internal.PhaseAnswering:
		if room.HasEveryoneAnswered() {
			s.revealAnswers(room)
		}
	case internal.PhaseDiscussing:
		if room.CountCurrentVoters() >= len(room.Players) {
			s.tallyVotes(room)
		}
	}
}
