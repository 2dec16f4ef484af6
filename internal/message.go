package internal

import "encoding/json"

// Client -> server message types.
const (
	MsgCreateRoom       = "create-room"
	MsgJoinRoom         = "join-room"
	MsgReconnect        = "reconnect"
	MsgJoinGame         = "join-game"
	MsgUpdateSettings   = "update-settings"
	MsgStartGame        = "start-game"
	MsgSubmitAnswer     = "submit-answer"
	MsgSubmitVote       = "submit-vote"
	MsgDiscussionTimeUp = "discussion-time-up"
	MsgStartNextRound   = "start-next-round"
)

// Server -> client message types.
const (
	MsgRoomCreated      = "room-created"
	MsgPlayerJoined     = "player-joined"
	MsgPlayerLeft       = "player-left"
	MsgLeaderChanged    = "leader-changed"
	MsgLeadershipStatus = "leadership-status"
	MsgSettingsUpdated  = "settings-updated"
	MsgGameRole         = "game-role"
	MsgGameState        = "game-state"
	MsgAnswerStatus     = "answer-status"
	MsgShowAnswers      = "show-answers"
	MsgVoteUpdate       = "vote-update"
	MsgVoteResults      = "vote-results"
	MsgGameOver         = "game-over"
	MsgRedirectToGame   = "redirect-to-game"
	MsgForceExit        = "force-exit"
	MsgError            = "error"
)

// InboundMessage is the flat envelope every client message is decoded into.
// Fields irrelevant to a given type are left zero.
type InboundMessage struct {
	Type         string          `json:"type"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Avatar       string          `json:"avatar"`
	WasLeader    bool            `json:"wasLeader"`
	WasReconnect bool            `json:"wasReconnect"`
	Settings     *SettingsUpdate `json:"settings"`
	Answer       json.RawMessage `json:"answer"`
	Forced       bool            `json:"forced"`
	Target       string          `json:"target"`
}

// Outbound is any server -> client message.
type Outbound interface {
	MessageType() string
}

// Envelope carries the type tag; embedding it flattens "type" into the
// enclosing message's JSON object.
type Envelope struct {
	Type string `json:"type"`
}

func (e Envelope) MessageType() string { return e.Type }

type RoomCreatedMessage struct {
	Envelope
	Code     string       `json:"code"`
	Players  []PlayerView `json:"players"`
	IsLeader bool         `json:"isLeader"`
	Settings Settings     `json:"settings"`
}

type PlayerJoinedMessage struct {
	Envelope
	Code    string       `json:"code"`
	Players []PlayerView `json:"players"`
}

type PlayerLeftMessage struct {
	Envelope
	Name    string       `json:"name"`
	Players []PlayerView `json:"players"`
}

type LeaderChangedMessage struct {
	Envelope
	LeaderID   ConnID       `json:"leaderId"`
	LeaderName string       `json:"leaderName"`
	Players    []PlayerView `json:"players"`
}

type LeadershipStatusMessage struct {
	Envelope
	IsLeader bool `json:"isLeader"`
}

type SettingsUpdatedMessage struct {
	Envelope
	Settings Settings `json:"settings"`
}

type GameRoleMessage struct {
	Envelope
	IsImpostor  bool   `json:"isImpostor"`
	Question    string `json:"question"`
	Round       int    `json:"round"`
	TotalRounds int    `json:"totalRounds"`
}

type GameStateMessage struct {
	Envelope
	Players  []PlayerView `json:"players"`
	Settings Settings     `json:"settings"`
}

type AnswerStatusMessage struct {
	Envelope
	Submitted int `json:"submitted"`
	Total     int `json:"total"`
}

type ShowAnswersMessage struct {
	Envelope
	Answers          [][2]string `json:"answers"`
	OriginalQuestion string      `json:"originalQuestion"`
	ImpostorQuestion string      `json:"impostorQuestion"`
	Impostor         string      `json:"impostor"`
	Round            int         `json:"round"`
	TotalRounds      int         `json:"totalRounds"`
}

type VoteUpdateMessage struct {
	Envelope
	Voter    string `json:"voter"`
	Target   string `json:"target"`
	Total    int    `json:"total"`
	Required int    `json:"required"`
}

type VoteResultsMessage struct {
	Envelope
	IsDraw           bool        `json:"isDraw"`
	VotedPlayer      *string     `json:"votedPlayer"`
	WasImpostor      bool        `json:"wasImpostor"`
	Impostor         string      `json:"impostor"`
	OriginalQuestion string      `json:"originalQuestion"`
	ImpostorQuestion string      `json:"impostorQuestion"`
	Votes            [][2]string `json:"votes"`
}

type GameOverMessage struct {
	Envelope
	Message     string `json:"message"`
	TotalRounds int    `json:"totalRounds"`
}

type RedirectToGameMessage struct {
	Envelope
	Settings Settings `json:"settings"`
}

type ForceExitMessage struct {
	Envelope
	Reason string `json:"reason"`
}

type ErrorMessage struct {
	Envelope
	Message string `json:"message"`
}

func NewErrorMessage(message string) ErrorMessage {
	return ErrorMessage{Envelope: Envelope{Type: MsgError}, Message: message}
}

// AnswerPairs converts answers to the (name, answer) wire form.
func AnswerPairs(answers []Answer) [][2]string {
	pairs := make([][2]string, 0, len(answers))
	for _, a := range answers {
		pairs = append(pairs, [2]string{a.Name, a.Text})
	}
	return pairs
}

// VotePairs converts votes to the (voter, target) wire form.
func VotePairs(votes []Vote) [][2]string {
	pairs := make([][2]string, 0, len(votes))
	for _, v := range votes {
		pairs = append(pairs, [2]string{v.Voter, v.Target})
	}
	return pairs
}

// Response is the JSON body of the plain HTTP endpoints.
type Response struct {
	StatusCode    int   `json:"status_code"`
	RespStartTime int64 `json:"resp_time_start_ms"`
	RespEndTime   int64 `json:"resp_time_end_ms"`
	NetRespTime   int64 `json:"net_resp_time_ms"`
	Data          any   `json:"data"`
}
