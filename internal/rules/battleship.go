package rules

import (
	"encoding/json"
	"sort"
)

const (
	phasePlacement = "PLACEMENT"
	phaseBattle    = "BATTLE"

	boardCells = 100
)

// shipSizes is the fleet every player must place, as a size multiset.
var shipSizes = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

const totalShipCells = 20

type battleshipShot struct {
	Cell int  `json:"cell"`
	Hit  bool `json:"hit"`
}

// Ship layouts never appear in the public state; the opponent only learns
// about a cell through their own shots.
type battleshipState struct {
	Phase  string                      `json:"phase"`
	Placed map[string]bool             `json:"placed"`
	Shots  map[string][]battleshipShot `json:"shots"`
}

type battleshipSecret struct {
	ShipCells map[string][]int `json:"shipCells"`
}

type battleshipMove struct {
	Ships      [][]int `json:"ships"`
	TargetCell *int    `json:"targetCell"`
}

type battleship struct{}

func (battleship) InitialState(creatorId uint64) (json.RawMessage, json.RawMessage, error) {
	state, err := json.Marshal(battleshipState{
		Phase:  phasePlacement,
		Placed: map[string]bool{},
		Shots:  map[string][]battleshipShot{},
	})
	if err != nil {
		return nil, nil, err
	}
	secret, err := json.Marshal(battleshipSecret{ShipCells: map[string][]int{}})
	return state, secret, err
}

func (battleship) JoinState(state, secret json.RawMessage, opponentId uint64) (json.RawMessage, json.RawMessage, error) {
	return state, secret, nil
}

func (bs battleship) ApplyMove(mc MoveContext) (Result, error) {
	var state battleshipState
	if err := json.Unmarshal(mc.State, &state); err != nil {
		return Result{}, err
	}
	var secret battleshipSecret
	if err := json.Unmarshal(mc.Secret, &secret); err != nil {
		return Result{}, err
	}

	var move battleshipMove
	if err := json.Unmarshal(mc.Move, &move); err != nil {
		return Result{}, invalidMove("malformed battleship move")
	}

	switch state.Phase {
	case phasePlacement:
		return bs.applyPlacement(mc, state, secret, move)
	case phaseBattle:
		return bs.applyShot(mc, state, secret, move)
	}
	return Result{}, invalidMove("game is not accepting moves")
}

func (battleship) applyPlacement(mc MoveContext, state battleshipState, secret battleshipSecret, move battleshipMove) (Result, error) {
	if move.Ships == nil {
		return Result{}, invalidMove("placement phase expects a ships layout")
	}

	key := playerKey(mc.PlayerId)
	if state.Placed[key] {
		return Result{}, invalidMove("layout already submitted")
	}

	cells, err := validateLayout(move.Ships)
	if err != nil {
		return Result{}, err
	}

	state.Placed[key] = true
	secret.ShipCells[key] = cells

	bothPlaced := state.Placed[playerKey(mc.CreatorId)] && state.Placed[playerKey(mc.OpponentId)]

	var nextTurn *uint64
	if bothPlaced {
		state.Phase = phaseBattle
		nextTurn = uintPtr(mc.CreatorId)
	} else {
		nextTurn = uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId))
	}

	nextState, err := json.Marshal(state)
	if err != nil {
		return Result{}, err
	}
	nextSecret, err := json.Marshal(secret)
	if err != nil {
		return Result{}, err
	}
	return Result{State: nextState, Secret: nextSecret, NextTurn: nextTurn, Status: gamePlaying}, nil
}

func (battleship) applyShot(mc MoveContext, state battleshipState, secret battleshipSecret, move battleshipMove) (Result, error) {
	if err := requireTurn(mc); err != nil {
		return Result{}, err
	}
	if move.TargetCell == nil {
		return Result{}, invalidMove("battle phase expects a targetCell")
	}

	target := *move.TargetCell
	if target < 0 || target >= boardCells {
		return Result{}, invalidMove("targetCell %d out of range", target)
	}

	key := playerKey(mc.PlayerId)
	for _, shot := range state.Shots[key] {
		if shot.Cell == target {
			return Result{}, invalidMove("cell %d already targeted", target)
		}
	}

	opponentCells := secret.ShipCells[playerKey(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId))]
	hit := false
	for _, c := range opponentCells {
		if c == target {
			hit = true
			break
		}
	}
	state.Shots[key] = append(state.Shots[key], battleshipShot{Cell: target, Hit: hit})

	hits := 0
	for _, shot := range state.Shots[key] {
		if shot.Hit {
			hits++
		}
	}

	nextState, err := json.Marshal(state)
	if err != nil {
		return Result{}, err
	}
	nextSecret, err := json.Marshal(secret)
	if err != nil {
		return Result{}, err
	}

	if hits == totalShipCells {
		return Result{State: nextState, Secret: nextSecret, Status: gameFinished, WinnerId: uintPtr(mc.PlayerId)}, nil
	}

	return Result{
		State:    nextState,
		Secret:   nextSecret,
		NextTurn: uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId)),
		Status:   gamePlaying,
	}, nil
}

// validateLayout checks the fleet size multiset, board bounds and overlaps,
// returning the flattened cell list on success.
func validateLayout(ships [][]int) ([]int, error) {
	if len(ships) != len(shipSizes) {
		return nil, invalidMove("expected %d ships, got %d", len(shipSizes), len(ships))
	}

	sizes := make([]int, 0, len(ships))
	for _, ship := range ships {
		sizes = append(sizes, len(ship))
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))
	for i, size := range sizes {
		if size != shipSizes[i] {
			return nil, invalidMove("ship sizes do not match the required fleet")
		}
	}

	seen := map[int]bool{}
	cells := make([]int, 0, totalShipCells)
	for _, ship := range ships {
		for _, cell := range ship {
			if cell < 0 || cell >= boardCells {
				return nil, invalidMove("ship cell %d outside the board", cell)
			}
			if seen[cell] {
				return nil, invalidMove("ships overlap at cell %d", cell)
			}
			seen[cell] = true
			cells = append(cells, cell)
		}
	}
	return cells, nil
}
