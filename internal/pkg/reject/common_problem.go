package reject

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	genericUnexpectedError string = "error.generic.unexpected"
	cannotParseParams      string = "error.generic.cannot-parse-params"
	cannotParseBody        string = "error.generic.cannot-parse-payload"
	genericNotFound        string = "error.generic.not-found"

	validationError     string = "error.game.validation"
	stateConflict       string = "error.game.state-conflict"
	insufficientBalance string = "error.wallet.insufficient-balance"
)

func RequestParamsProblem() Problem {
	return NewProblem().
		WithTitle("Invalid request parameters").
		WithStatus(http.StatusBadRequest).
		WithCode(cannotParseParams).
		Build()
}

func BodyParseProblem() Problem {
	return NewProblem().
		WithTitle("Cannot read payload").
		WithStatus(http.StatusBadRequest).
		WithCode(cannotParseBody).
		Build()
}

func NotFoundProblem() Problem {
	return NewProblem().
		WithTitle("Record not found").
		WithStatus(http.StatusNotFound).
		WithCode(genericNotFound).
		Build()
}

// ValidationProblem covers moves that are malformed or illegal against the
// current game state: occupied cell, ship overlap, playing out of turn.
func ValidationProblem(detail string) Problem {
	return NewProblem().
		WithTitle("Move rejected").
		WithStatus(http.StatusBadRequest).
		WithCode(validationError).
		WithDetail(detail).
		Build()
}

// StateConflictProblem covers lost races: a join on a session someone else
// claimed first, or a write against a session that changed underneath the caller.
func StateConflictProblem() Problem {
	return NewProblem().
		WithTitle("Session changed underneath the request").
		WithStatus(http.StatusConflict).
		WithCode(stateConflict).
		Build()
}

func InsufficientBalanceProblem() Problem {
	return NewProblem().
		WithTitle("Balance too low for this bet").
		WithStatus(http.StatusPaymentRequired).
		WithCode(insufficientBalance).
		Build()
}

func UnexpectedProblem(err error) Problem {
	log.Warn().Err(err).Msg("Unexpected error while handling request: " + err.Error())
	return NewProblem().
		WithTitle("Unexpected error").
		WithStatus(http.StatusInternalServerError).
		WithCode(genericUnexpectedError).
		Build()
}
