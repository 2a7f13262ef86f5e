// Package rules holds the per-game-type move logic. Everything in here is
// pure state-in/state-out: no database, no clock, no transport. The session
// service owns persistence and settlement; this package only decides whether
// a move is legal and what the session looks like after it.
package rules

import (
	"encoding/json"
	"fmt"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
)

// MoveContext carries everything a game needs to judge a single move.
type MoveContext struct {
	State       json.RawMessage
	Secret      json.RawMessage
	Move        json.RawMessage
	PlayerId    uint64
	CreatorId   uint64
	OpponentId  uint64
	CurrentTurn *uint64
}

// Result is the full outcome of an accepted move. Secret stays server-side;
// State is what clients see.
type Result struct {
	State    json.RawMessage
	Secret   json.RawMessage
	NextTurn *uint64
	Status   model.GameStatus
	WinnerId *uint64
}

type Engine interface {
	// InitialState produces the creator-side state at session creation.
	InitialState(creatorId uint64) (state, secret json.RawMessage, err error)
	// JoinState merges the opponent into the state when the session is claimed.
	JoinState(state, secret json.RawMessage, opponentId uint64) (json.RawMessage, json.RawMessage, error)
	ApplyMove(mc MoveContext) (Result, error)
}

// ValidationError marks a move that is malformed or illegal against the
// current state. The caller maps it to a client-visible rejection; anything
// else returned by an engine is treated as an internal fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidMove(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

const (
	gamePlaying  = model.GamePlaying
	gameFinished = model.GameFinished
)

func ForGameType(gameType model.GameType) (Engine, error) {
	switch gameType {
	case model.GameTypeTicTacToe:
		return ticTacToe{}, nil
	case model.GameTypeRockPaperScissor:
		return rockPaperScissors{}, nil
	case model.GameTypeBattleship:
		return battleship{}, nil
	case model.GameTypeRussianRoulette:
		return russianRoulette{}, nil
	}
	return nil, fmt.Errorf("unknown game type %q", gameType)
}

func otherPlayer(playerId, creatorId, opponentId uint64) uint64 {
	if playerId == creatorId {
		return opponentId
	}
	return creatorId
}

func playerKey(playerId uint64) string {
	return fmt.Sprintf("%d", playerId)
}

func requireTurn(mc MoveContext) error {
	if mc.CurrentTurn == nil || *mc.CurrentTurn != mc.PlayerId {
		return invalidMove("not your turn")
	}
	return nil
}

func uintPtr(v uint64) *uint64 {
	return &v
}
