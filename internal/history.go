package internal

import "time"

// RoundRecord is the archived outcome of one tallied round.
type RoundRecord struct {
	RoomCode         string
	Round            int
	TotalRounds      int
	Impostor         string
	NormalQuestion   string
	ImpostorQuestion string
	VotedPlayer      string
	IsDraw           bool
	WasImpostor      bool
	Answers          [][2]string
	Votes            [][2]string
	PlayedAt         time.Time
}

// GameRecord is the archived summary of a finished game.
type GameRecord struct {
	RoomCode    string
	TotalRounds int
	Players     []string
	FinishedAt  time.Time
}
