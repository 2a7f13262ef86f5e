package rules

import (
	"encoding/json"
	"testing"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	creatorId  = uint64(1)
	opponentId = uint64(2)
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func tttContext(t *testing.T, board [9]string, player uint64, cell int) MoveContext {
	t.Helper()
	return MoveContext{
		State:       mustJSON(t, ticTacToeState{Board: board}),
		Move:        mustJSON(t, map[string]int{"cellIndex": cell}),
		PlayerId:    player,
		CreatorId:   creatorId,
		OpponentId:  opponentId,
		CurrentTurn: &player,
	}
}

func TestTicTacToe_MoveAlternatesTurn(t *testing.T) {
	engine := ticTacToe{}

	result, err := engine.ApplyMove(tttContext(t, [9]string{}, creatorId, 4))
	require.NoError(t, err)

	assert.Equal(t, model.GamePlaying, result.Status)
	require.NotNil(t, result.NextTurn)
	assert.Equal(t, opponentId, *result.NextTurn)
	assert.Nil(t, result.WinnerId)

	var state ticTacToeState
	require.NoError(t, json.Unmarshal(result.State, &state))
	assert.Equal(t, "X", state.Board[4])
}

func TestTicTacToe_OccupiedCellRejected(t *testing.T) {
	engine := ticTacToe{}
	board := [9]string{4: "X"}

	_, err := engine.ApplyMove(tttContext(t, board, opponentId, 4))

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTicTacToe_OutOfRangeCellRejected(t *testing.T) {
	engine := ticTacToe{}

	_, err := engine.ApplyMove(tttContext(t, [9]string{}, creatorId, 9))

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTicTacToe_OutOfTurnRejected(t *testing.T) {
	engine := ticTacToe{}
	mc := tttContext(t, [9]string{}, creatorId, 0)
	mc.CurrentTurn = &[]uint64{opponentId}[0]

	_, err := engine.ApplyMove(mc)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTicTacToe_RowWin(t *testing.T) {
	engine := ticTacToe{}
	// X X _ / O O _ : creator completes the top row.
	board := [9]string{"X", "X", "", "", "O", "O", "", "", ""}

	result, err := engine.ApplyMove(tttContext(t, board, creatorId, 2))
	require.NoError(t, err)

	assert.Equal(t, model.GameFinished, result.Status)
	require.NotNil(t, result.WinnerId)
	assert.Equal(t, creatorId, *result.WinnerId)
	assert.Nil(t, result.NextTurn)
}

func TestTicTacToe_DiagonalWin(t *testing.T) {
	engine := ticTacToe{}
	board := [9]string{"O", "X", "X", "", "O", "X", "", "", ""}

	result, err := engine.ApplyMove(tttContext(t, board, opponentId, 8))
	require.NoError(t, err)

	assert.Equal(t, model.GameFinished, result.Status)
	require.NotNil(t, result.WinnerId)
	assert.Equal(t, opponentId, *result.WinnerId)
}

func TestTicTacToe_FullBoardIsDraw(t *testing.T) {
	engine := ticTacToe{}
	// X O X / X O O / O X _ — no line after the final X.
	board := [9]string{"X", "O", "X", "X", "O", "O", "O", "X", ""}

	result, err := engine.ApplyMove(tttContext(t, board, creatorId, 8))
	require.NoError(t, err)

	assert.Equal(t, model.GameFinished, result.Status)
	assert.Nil(t, result.WinnerId)
}
