package rules

import "encoding/json"

const (
	symbolCreator  = "X"
	symbolOpponent = "O"
)

type ticTacToeState struct {
	// Board has 9 cells, row-major; "" means empty.
	Board [9]string `json:"board"`
}

type ticTacToeMove struct {
	CellIndex *int `json:"cellIndex"`
}

type ticTacToe struct{}

func (ticTacToe) InitialState(creatorId uint64) (json.RawMessage, json.RawMessage, error) {
	state, err := json.Marshal(ticTacToeState{})
	return state, nil, err
}

func (ticTacToe) JoinState(state, secret json.RawMessage, opponentId uint64) (json.RawMessage, json.RawMessage, error) {
	return state, secret, nil
}

var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func (ticTacToe) ApplyMove(mc MoveContext) (Result, error) {
	if err := requireTurn(mc); err != nil {
		return Result{}, err
	}

	var state ticTacToeState
	if err := json.Unmarshal(mc.State, &state); err != nil {
		return Result{}, err
	}

	var move ticTacToeMove
	if err := json.Unmarshal(mc.Move, &move); err != nil || move.CellIndex == nil {
		return Result{}, invalidMove("move requires a cellIndex")
	}

	cell := *move.CellIndex
	if cell < 0 || cell > 8 {
		return Result{}, invalidMove("cellIndex %d out of range", cell)
	}
	if state.Board[cell] != "" {
		return Result{}, invalidMove("cell %d is already occupied", cell)
	}

	symbol := symbolCreator
	if mc.PlayerId == mc.OpponentId {
		symbol = symbolOpponent
	}
	state.Board[cell] = symbol

	nextState, err := json.Marshal(state)
	if err != nil {
		return Result{}, err
	}

	for _, line := range winningLines {
		a, b, c := state.Board[line[0]], state.Board[line[1]], state.Board[line[2]]
		if a != "" && a == b && b == c {
			return Result{State: nextState, Status: gameFinished, WinnerId: uintPtr(mc.PlayerId)}, nil
		}
	}

	full := true
	for _, c := range state.Board {
		if c == "" {
			full = false
			break
		}
	}
	if full {
		return Result{State: nextState, Status: gameFinished}, nil
	}

	return Result{
		State:    nextState,
		NextTurn: uintPtr(otherPlayer(mc.PlayerId, mc.CreatorId, mc.OpponentId)),
		Status:   gamePlaying,
	}, nil
}
