package rules

import (
	"encoding/json"
	"testing"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validFleet lays the whole fleet in the first rows, one ship per row segment.
func validFleet() [][]int {
	return [][]int{
		{0, 1, 2, 3},
		{10, 11, 12},
		{20, 21, 22},
		{30, 31},
		{40, 41},
		{50, 51},
		{60},
		{70},
		{80},
		{90},
	}
}

// shiftedFleet moves the fleet one column right so it never overlaps validFleet.
func shiftedFleet() [][]int {
	fleet := validFleet()
	shifted := make([][]int, len(fleet))
	for i, ship := range fleet {
		cells := make([]int, len(ship))
		for j, cell := range ship {
			cells[j] = cell + 5
		}
		shifted[i] = cells
	}
	return shifted
}

func placeMove(t *testing.T, ships [][]int) json.RawMessage {
	t.Helper()
	return mustJSON(t, map[string]any{"ships": ships})
}

func shotMove(t *testing.T, cell int) json.RawMessage {
	t.Helper()
	return mustJSON(t, map[string]int{"targetCell": cell})
}

func bsApply(t *testing.T, state, secret, move json.RawMessage, player uint64, turn *uint64) (Result, error) {
	t.Helper()
	return battleship{}.ApplyMove(MoveContext{
		State:       state,
		Secret:      secret,
		Move:        move,
		PlayerId:    player,
		CreatorId:   creatorId,
		OpponentId:  opponentId,
		CurrentTurn: turn,
	})
}

// placeBoth walks two valid placements and returns the battle-ready state.
func placeBoth(t *testing.T) Result {
	t.Helper()
	state, secret, err := battleship{}.InitialState(creatorId)
	require.NoError(t, err)

	first, err := bsApply(t, state, secret, placeMove(t, validFleet()), creatorId, nil)
	require.NoError(t, err)

	second, err := bsApply(t, first.State, first.Secret, placeMove(t, shiftedFleet()), opponentId, nil)
	require.NoError(t, err)
	return second
}

func TestBattleship_PlacementTransitionsToBattle(t *testing.T) {
	ready := placeBoth(t)

	var state battleshipState
	require.NoError(t, json.Unmarshal(ready.State, &state))
	assert.Equal(t, phaseBattle, state.Phase)
	require.NotNil(t, ready.NextTurn)
	assert.Equal(t, creatorId, *ready.NextTurn)
	assert.Equal(t, model.GamePlaying, ready.Status)
}

func TestBattleship_SecondPlacementRejected(t *testing.T) {
	state, secret, err := battleship{}.InitialState(creatorId)
	require.NoError(t, err)

	first, err := bsApply(t, state, secret, placeMove(t, validFleet()), creatorId, nil)
	require.NoError(t, err)

	_, err = bsApply(t, first.State, first.Secret, placeMove(t, shiftedFleet()), creatorId, nil)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBattleship_WrongFleetSizesRejected(t *testing.T) {
	state, secret, err := battleship{}.InitialState(creatorId)
	require.NoError(t, err)

	fleet := validFleet()
	fleet[0] = []int{0, 1, 2}

	_, err = bsApply(t, state, secret, placeMove(t, fleet), creatorId, nil)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBattleship_OverlappingShipsRejected(t *testing.T) {
	state, secret, err := battleship{}.InitialState(creatorId)
	require.NoError(t, err)

	fleet := validFleet()
	fleet[9] = []int{0}

	_, err = bsApply(t, state, secret, placeMove(t, fleet), creatorId, nil)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBattleship_ShotOffBoardRejected(t *testing.T) {
	ready := placeBoth(t)

	_, err := bsApply(t, ready.State, ready.Secret, shotMove(t, 100), creatorId, ready.NextTurn)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBattleship_HitAndMissRecorded(t *testing.T) {
	ready := placeBoth(t)

	// Opponent fleet occupies cell 5; cell 99 is open water.
	hit, err := bsApply(t, ready.State, ready.Secret, shotMove(t, 5), creatorId, ready.NextTurn)
	require.NoError(t, err)
	require.NotNil(t, hit.NextTurn)
	assert.Equal(t, opponentId, *hit.NextTurn)

	miss, err := bsApply(t, hit.State, hit.Secret, shotMove(t, 99), opponentId, hit.NextTurn)
	require.NoError(t, err)

	var state battleshipState
	require.NoError(t, json.Unmarshal(miss.State, &state))
	require.Len(t, state.Shots["1"], 1)
	assert.True(t, state.Shots["1"][0].Hit)
	require.Len(t, state.Shots["2"], 1)
	assert.False(t, state.Shots["2"][0].Hit)
}

func TestBattleship_RepeatTargetRejected(t *testing.T) {
	ready := placeBoth(t)

	hit, err := bsApply(t, ready.State, ready.Secret, shotMove(t, 5), creatorId, ready.NextTurn)
	require.NoError(t, err)

	miss, err := bsApply(t, hit.State, hit.Secret, shotMove(t, 99), opponentId, hit.NextTurn)
	require.NoError(t, err)

	_, err = bsApply(t, miss.State, miss.Secret, shotMove(t, 5), creatorId, miss.NextTurn)

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBattleship_SinkingFleetWins(t *testing.T) {
	ready := placeBoth(t)

	state, secret := ready.State, ready.Secret
	turn := ready.NextTurn

	var last Result
	opponentCells := shiftedFleet()
	missCell := 99

	for i, ship := range opponentCells {
		for j, cell := range ship {
			var err error
			last, err = bsApply(t, state, secret, shotMove(t, cell), creatorId, turn)
			require.NoError(t, err)
			state, secret, turn = last.State, last.Secret, last.NextTurn

			if last.Status == model.GameFinished {
				require.Equal(t, len(opponentCells)-1, i)
				require.Equal(t, len(ship)-1, j)
				break
			}

			// Opponent keeps missing so the creator retains the initiative.
			last, err = bsApply(t, state, secret, shotMove(t, missCell), opponentId, turn)
			require.NoError(t, err)
			state, secret, turn = last.State, last.Secret, last.NextTurn
			missCell--
		}
	}

	assert.Equal(t, model.GameFinished, last.Status)
	require.NotNil(t, last.WinnerId)
	assert.Equal(t, creatorId, *last.WinnerId)
}
