package game

import "errors"

// Errors returned by handlers are user-facing: the dispatcher sends their
// text back to the offending connection only.
var (
	ErrInvalidName        = errors.New("name is invalid")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrNameTaken          = errors.New("name already taken in this room")
	ErrGameInProgress     = errors.New("cannot join, game in progress")
	ErrGameAlreadyStarted = errors.New("game already in progress")
	ErrGameNotInProgress  = errors.New("game not in progress")
	ErrNotInRoom          = errors.New("you are not in this room")
	ErrNotLeader          = errors.New("only the room leader can do that")
	ErrNotEnoughPlayers   = errors.New("not enough players to start")
	ErrAnswerNotString    = errors.New("answer must be a string")
	ErrAnswerForOther     = errors.New("you cannot submit an answer for another player")
	ErrAnswersClosed      = errors.New("answers are not being collected right now")
	ErrVotingClosed       = errors.New("voting is not open")
	ErrInvalidVoteTarget  = errors.New("invalid vote target")
	ErrAlreadyVoted       = errors.New("you already voted")
	ErrInvalidSettings    = errors.New("invalid settings")
	ErrReconnectFailed    = errors.New("reconnect failed, player not found")
	ErrUnknownMessage     = errors.New("unknown message type")
	ErrIllegalPhaseChange = errors.New("illegal phase change")
	ErrNoRoomCode         = errors.New("could not allocate a room code")
)
