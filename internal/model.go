package internal

import (
	"context"
	"time"
)

const (
	MaxPlayersPerRoom  = 6
	MaxNameLength      = 15
	MaxAnswerLength    = 50
	RoomCodeLength     = 4
	LobbyRound         = -1
	DefaultAvatar      = "Avatar1.png"
	DefaultRounds      = 4
	DefaultAnswerTime  = 30
	DefaultDiscussTime = 80
)

// ConnID identifies one live connection. It is minted once by the registry and
// never reused.
type ConnID string

// Connection is the core's non-owning handle to a duplex message channel.
// Send must not block.
type Connection interface {
	ID() ConnID
	Send(msg Outbound) error
	Close() error
}

type GamePhase string

const (
	PhaseLobby      GamePhase = "lobby"
	PhaseStarting   GamePhase = "starting"
	PhaseAnswering  GamePhase = "answering"
	PhaseDiscussing GamePhase = "discussing"
	PhaseTallied    GamePhase = "tallied"
)

var phaseTransitions = map[GamePhase][]GamePhase{
	PhaseLobby:      {PhaseStarting},
	PhaseStarting:   {PhaseAnswering},
	PhaseAnswering:  {PhaseDiscussing, PhaseStarting, PhaseLobby},
	PhaseDiscussing: {PhaseTallied, PhaseStarting, PhaseLobby},
	PhaseTallied:    {PhaseStarting, PhaseLobby},
}

// CanTransitionTo reports whether moving from p to target is legal.
func (p GamePhase) CanTransitionTo(target GamePhase) bool {
	for _, next := range phaseTransitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

// Settings are in seconds, except Rounds.
type Settings struct {
	Rounds         int `json:"rounds"`
	AnsweringTime  int `json:"answeringTime"`
	DiscussionTime int `json:"discussionTime"`
}

func DefaultSettings() Settings {
	return Settings{
		Rounds:         DefaultRounds,
		AnsweringTime:  DefaultAnswerTime,
		DiscussionTime: DefaultDiscussTime,
	}
}

// SettingsUpdate is a partial settings change; nil fields are left untouched.
type SettingsUpdate struct {
	Rounds         *int `json:"rounds,omitempty"`
	AnsweringTime  *int `json:"answeringTime,omitempty"`
	DiscussionTime *int `json:"discussionTime,omitempty"`
}

// Merge returns s with every non-nil field of u applied.
func (s Settings) Merge(u SettingsUpdate) Settings {
	if u.Rounds != nil {
		s.Rounds = *u.Rounds
	}
	if u.AnsweringTime != nil {
		s.AnsweringTime = *u.AnsweringTime
	}
	if u.DiscussionTime != nil {
		s.DiscussionTime = *u.DiscussionTime
	}
	return s
}

type QuestionPair struct {
	Normal   string `json:"normal"`
	Impostor string `json:"impostor"`
	Category string `json:"category"`
}

// For returns the question a player sees for the given role.
func (q QuestionPair) For(isImpostor bool) string {
	if isImpostor {
		return q.Impostor
	}
	return q.Normal
}

type Answer struct {
	Name string
	Text string
}

type Vote struct {
	Voter  string
	Target string
}

type GameState struct {
	Started         bool
	Round           int
	TotalRounds     int
	Impostor        string
	CurrentQuestion QuestionPair
	Answers         []Answer // submission order, one per player
	Votes           []Vote   // submission order, one per voter
	VotesTallied    bool
	RolesAssigned   bool
	Phase           GamePhase
}

func NewLobbyState() GameState {
	return GameState{
		Round: LobbyRound,
		Phase: PhaseLobby,
	}
}

func (g *GameState) AnswerOf(name string) (string, bool) {
	for _, a := range g.Answers {
		if a.Name == name {
			return a.Text, true
		}
	}
	return "", false
}

func (g *GameState) HasVoted(name string) bool {
	for _, v := range g.Votes {
		if v.Voter == name {
			return true
		}
	}
	return false
}

// ResetRound clears per-round answers and votes.
func (g *GameState) ResetRound() {
	g.Answers = make([]Answer, 0, MaxPlayersPerRoom)
	g.Votes = make([]Vote, 0, MaxPlayersPerRoom)
	g.VotesTallied = false
}

// GameTimer is a one-shot scheduled task. A fired callback only runs if the
// timer is still the one installed in its slot.
type GameTimer struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	Context   context.Context
	Cancel    context.CancelFunc
}

type Room struct {
	Code                  string
	LeaderConnID          ConnID
	OriginalLeaderConnID  ConnID
	OriginalLeaderName    string
	LastLeaderName        string
	Players               []*Player
	Settings              Settings
	Game                  GameState
	ExpectedPlayerCount   int
	IsTransitioningToGame bool
	NavigatedPlayers      map[string]bool // names that sent join-game during the transition
	TransitionDeadline    time.Time
	RedirectGraceStart    time.Time
	CreatedAt             time.Time

	PhaseTimer      *GameTimer
	TransitionTimer *GameTimer
	DeleteTimer     *GameTimer
}
