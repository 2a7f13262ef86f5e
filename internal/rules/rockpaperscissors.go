package rules

import "encoding/json"

const (
	choiceRock     = "rock"
	choicePaper    = "paper"
	choiceScissors = "scissors"
)

// The public state only says who has submitted; the actual choices live in
// the secret state until resolution so neither player can peek at the other's
// hand through a session read. Both are revealed once the game finishes.
type rpsState struct {
	Submitted map[string]bool   `json:"submitted"`
	Choices   map[string]string `json:"choices,omitempty"`
}

type rpsSecret struct {
	Choices map[string]string `json:"choices"`
}

type rpsMove struct {
	Choice string `json:"choice"`
}

type rockPaperScissors struct{}

func (rockPaperScissors) InitialState(creatorId uint64) (json.RawMessage, json.RawMessage, error) {
	state, err := json.Marshal(rpsState{Submitted: map[string]bool{}})
	if err != nil {
		return nil, nil, err
	}
	secret, err := json.Marshal(rpsSecret{Choices: map[string]string{}})
	return state, secret, err
}

func (rockPaperScissors) JoinState(state, secret json.RawMessage, opponentId uint64) (json.RawMessage, json.RawMessage, error) {
	return state, secret, nil
}

// beats maps each choice to the one it defeats.
var beats = map[string]string{
	choiceRock:     choiceScissors,
	choiceScissors: choicePaper,
	choicePaper:    choiceRock,
}

func (rockPaperScissors) ApplyMove(mc MoveContext) (Result, error) {
	var state rpsState
	if err := json.Unmarshal(mc.State, &state); err != nil {
		return Result{}, err
	}
	var secret rpsSecret
	if err := json.Unmarshal(mc.Secret, &secret); err != nil {
		return Result{}, err
	}

	var move rpsMove
	if err := json.Unmarshal(mc.Move, &move); err != nil {
		return Result{}, invalidMove("move requires a choice")
	}
	if _, known := beats[move.Choice]; !known {
		return Result{}, invalidMove("unknown choice %q", move.Choice)
	}

	key := playerKey(mc.PlayerId)
	if state.Submitted[key] {
		return Result{}, invalidMove("choice already submitted")
	}
	state.Submitted[key] = true
	secret.Choices[key] = move.Choice

	creatorKey := playerKey(mc.CreatorId)
	opponentKey := playerKey(mc.OpponentId)

	creatorChoice, creatorDone := secret.Choices[creatorKey]
	opponentChoice, opponentDone := secret.Choices[opponentKey]

	if !creatorDone || !opponentDone {
		nextState, err := json.Marshal(state)
		if err != nil {
			return Result{}, err
		}
		nextSecret, err := json.Marshal(secret)
		if err != nil {
			return Result{}, err
		}
		return Result{
			State:    nextState,
			Secret:   nextSecret,
			NextTurn: uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId)),
			Status:   gamePlaying,
		}, nil
	}

	// Both chose: reveal and resolve.
	state.Choices = secret.Choices
	nextState, err := json.Marshal(state)
	if err != nil {
		return Result{}, err
	}

	result := Result{State: nextState, Status: gameFinished}
	switch {
	case beats[creatorChoice] == opponentChoice:
		result.WinnerId = uintPtr(mc.CreatorId)
	case beats[opponentChoice] == creatorChoice:
		result.WinnerId = uintPtr(mc.OpponentId)
	}
	return result, nil
}
