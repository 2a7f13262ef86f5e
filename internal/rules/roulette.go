package rules

import (
	"encoding/json"
	"math/rand"
)

const chamberCount = 6

const (
	pullClick = "CLICK"
	pullBang  = "BANG"
)

type roulettePull struct {
	PlayerId uint64 `json:"playerId"`
	Chamber  int    `json:"chamber"`
	Outcome  string `json:"outcome"`
}

// The bullet position is drawn once at session creation and lives only in the
// secret state until a pull finds it. Clients observe the chamber counter and
// the pull history, nothing else.
type rouletteState struct {
	Chamber        int            `json:"chamber"`
	Pulls          []roulettePull `json:"pulls"`
	BulletPosition *int           `json:"bulletPosition,omitempty"`
}

type rouletteSecret struct {
	BulletPosition int `json:"bulletPosition"`
}

type rouletteMove struct {
	Pull bool `json:"pull"`
}

// drawBullet is replaced in tests to pin the chamber.
var drawBullet = func() int {
	return rand.Intn(chamberCount)
}

type russianRoulette struct{}

func (russianRoulette) InitialState(creatorId uint64) (json.RawMessage, json.RawMessage, error) {
	state, err := json.Marshal(rouletteState{Pulls: []roulettePull{}})
	if err != nil {
		return nil, nil, err
	}
	secret, err := json.Marshal(rouletteSecret{BulletPosition: drawBullet()})
	return state, secret, err
}

func (russianRoulette) JoinState(state, secret json.RawMessage, opponentId uint64) (json.RawMessage, json.RawMessage, error) {
	return state, secret, nil
}

func (russianRoulette) ApplyMove(mc MoveContext) (Result, error) {
	if err := requireTurn(mc); err != nil {
		return Result{}, err
	}

	var state rouletteState
	if err := json.Unmarshal(mc.State, &state); err != nil {
		return Result{}, err
	}
	var secret rouletteSecret
	if err := json.Unmarshal(mc.Secret, &secret); err != nil {
		return Result{}, err
	}

	var move rouletteMove
	if err := json.Unmarshal(mc.Move, &move); err != nil || !move.Pull {
		return Result{}, invalidMove("move requires a pull")
	}

	if state.Chamber == secret.BulletPosition {
		state.Pulls = append(state.Pulls, roulettePull{PlayerId: mc.PlayerId, Chamber: state.Chamber, Outcome: pullBang})
		// Loss reveals the secret.
		state.BulletPosition = &secret.BulletPosition

		nextState, err := json.Marshal(state)
		if err != nil {
			return Result{}, err
		}
		return Result{
			State:    nextState,
			Secret:   mc.Secret,
			Status:   gameFinished,
			WinnerId: uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId)),
		}, nil
	}

	state.Pulls = append(state.Pulls, roulettePull{PlayerId: mc.PlayerId, Chamber: state.Chamber, Outcome: pullClick})
	state.Chamber++

	nextState, err := json.Marshal(state)
	if err != nil {
		return Result{}, err
	}
	return Result{
		State:    nextState,
		Secret:   mc.Secret,
		NextTurn: uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId)),
		Status:   gamePlaying,
	}, nil
}
