package game

import (
	"errors"
	"time"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/notification"
	"github.com/codecraftak/arcade-backend/internal/pkg/pubsub"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	pkgws "github.com/codecraftak/arcade-backend/internal/pkg/ws"
	"github.com/codecraftak/arcade-backend/internal/rules"
	"github.com/codecraftak/arcade-backend/internal/wallet"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errStateConflict = errors.New("session changed underneath the caller")
)

type gameService struct {
	db              *gorm.DB
	wallet          *wallet.Service
	notificationHub *pkgws.WebSocketNotificationHub
	// publishSink is swapped out in tests; defaults to the pubsub publisher.
	publishSink func(pubsub.Publishable)
}

func newGameService(db *gorm.DB) *gameService {
	return &gameService{
		db:              db,
		wallet:          wallet.NewService(db),
		notificationHub: pkgws.NewNotificationHub(),
		publishSink:     func(p pubsub.Publishable) { pubsub.Publish(p) },
	}
}

// createSession debits the creator's bet and opens a WAITING session holding
// it in escrow. Both writes run in one transaction: if either fails the other
// is rolled back, so a debit can never survive without its session.
func (gs *gameService) createSession(creatorId uint64, request CreateGameRequest) (*model.GameSession, *reject.ProblemWithTrace) {
	if !request.GameType.Valid() {
		return nil, validationTrace("unknown game type")
	}
	if request.BetAmount <= 0 {
		return nil, validationTrace("bet amount must be positive")
	}

	engine, err := rules.ForGameType(request.GameType)
	if err != nil {
		return nil, unexpectedTrace(err)
	}

	state, secret, err := engine.InitialState(creatorId)
	if err != nil {
		return nil, unexpectedTrace(err)
	}

	now := time.Now().UTC()
	session := &model.GameSession{
		GameType:    request.GameType,
		GameStatus:  model.GameWaiting,
		CreatorId:   creatorId,
		CurrentTurn: &creatorId,
		BetAmount:   request.BetAmount,
		State:       state,
		SecretState: secret,
		TimeCreated: now,
		TimeUpdated: now,
	}

	err = gs.db.Transaction(func(tx *gorm.DB) error {
		if f := tx.Create(session); f.Error != nil {
			return f.Error
		}
		return gs.wallet.Debit(tx, creatorId, session.Id, request.BetAmount)
	})
	if err != nil {
		return nil, traceFor(err)
	}

	gs.publishSessionChange(session)
	return session, nil
}

// joinSession claims a WAITING session for the caller. The claim itself is a
// single conditional update guarded by the WAITING/no-opponent precondition;
// when two joiners race, the loser's transaction rolls back including the
// debit, so only the winner is ever charged.
func (gs *gameService) joinSession(gameId uint64, playerId uint64) (*model.GameSession, *reject.ProblemWithTrace) {
	var joined *model.GameSession

	err := gs.db.Transaction(func(tx *gorm.DB) error {
		var session model.GameSession
		if f := tx.Where("id = ?", gameId).First(&session); f.Error != nil {
			return f.Error
		}

		if session.CreatorId == playerId {
			return &rules.ValidationError{Reason: "cannot join your own session"}
		}
		if session.GameStatus != model.GameWaiting || session.OpponentId != nil {
			return errStateConflict
		}

		engine, err := rules.ForGameType(session.GameType)
		if err != nil {
			return err
		}
		state, secret, err := engine.JoinState(session.State, session.SecretState, playerId)
		if err != nil {
			return err
		}

		if err := gs.wallet.Debit(tx, playerId, session.Id, session.BetAmount); err != nil {
			return err
		}

		now := time.Now().UTC()
		result := tx.Model(&model.GameSession{}).
			Where("id = ? AND game_status = ? AND opponent_id IS NULL", gameId, model.GameWaiting).
			Updates(map[string]any{
				"opponent_id":  playerId,
				"game_status":  model.GamePlaying,
				"state":        state,
				"secret_state": secret,
				"version":      gorm.Expr("version + 1"),
				"time_updated": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errStateConflict
		}

		session.OpponentId = &playerId
		session.GameStatus = model.GamePlaying
		session.State = state
		session.SecretState = secret
		session.Version++
		session.TimeUpdated = now
		joined = &session
		return nil
	})
	if err != nil {
		return nil, traceFor(err)
	}

	gs.publishSessionChange(joined)
	return joined, nil
}

// cancelSession refunds the creator's escrowed bet and deletes the session.
// Only legal for the creator while the session is still WAITING.
func (gs *gameService) cancelSession(gameId uint64, requesterId uint64) *reject.ProblemWithTrace {
	err := gs.db.Transaction(func(tx *gorm.DB) error {
		var session model.GameSession
		if f := tx.Where("id = ?", gameId).First(&session); f.Error != nil {
			return f.Error
		}

		if session.CreatorId != requesterId {
			return &rules.ValidationError{Reason: "only the creator can cancel a session"}
		}
		if session.GameStatus != model.GameWaiting {
			return &rules.ValidationError{Reason: "only waiting sessions can be cancelled"}
		}

		result := tx.
			Where("id = ? AND game_status = ? AND creator_id = ?", gameId, model.GameWaiting, requesterId).
			Delete(&model.GameSession{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errStateConflict
		}

		// Invites never outlive their session's WAITING status.
		f := tx.Model(&model.Invite{}).
			Where("game_id = ? AND invite_status = ?", gameId, model.InvitePending).
			Update("invite_status", model.InviteDeclined)
		if f.Error != nil {
			return f.Error
		}

		return gs.wallet.Credit(tx, requesterId, gameId, model.WalletEntryRefund, session.BetAmount)
	})
	if err != nil {
		return traceFor(err)
	}

	gs.notificationHub.Publish(pkgws.GameTopic(gameId), pkgws.ChangeEvent{
		Entity: pkgws.EntitySession,
		Id:     gameId,
	})
	return nil
}

// applyMove validates and applies one move through the rules engine. The
// persisted write is a compare-and-swap on the session version; the
// transaction that wins the swap into FINISHED is the only one that settles.
func (gs *gameService) applyMove(gameId uint64, playerId uint64, request PlayMoveRequest) (*model.GameSession, *reject.ProblemWithTrace) {
	var updated *model.GameSession
	var outcome rules.Result

	err := gs.db.Transaction(func(tx *gorm.DB) error {
		var session model.GameSession
		if f := tx.Where("id = ?", gameId).First(&session); f.Error != nil {
			return f.Error
		}

		if session.GameStatus != model.GamePlaying || session.OpponentId == nil {
			return &rules.ValidationError{Reason: "session is not accepting moves"}
		}
		if playerId != session.CreatorId && playerId != *session.OpponentId {
			return &rules.ValidationError{Reason: "not a participant of this session"}
		}

		moveId := request.MoveId
		if moveId == "" {
			moveId = uuid.New().String()
		} else {
			var seen int64
			f := tx.Model(&model.MoveHistory{}).
				Where("game_id = ? AND move_id = ?", gameId, moveId).
				Count(&seen)
			if f.Error != nil {
				return f.Error
			}
			if seen > 0 {
				return &rules.ValidationError{Reason: "move already applied"}
			}
		}

		engine, err := rules.ForGameType(session.GameType)
		if err != nil {
			return err
		}

		outcome, err = engine.ApplyMove(rules.MoveContext{
			State:       session.State,
			Secret:      session.SecretState,
			Move:        request.Move,
			PlayerId:    playerId,
			CreatorId:   session.CreatorId,
			OpponentId:  *session.OpponentId,
			CurrentTurn: session.CurrentTurn,
		})
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		result := tx.Model(&model.GameSession{}).
			Where("id = ? AND version = ?", gameId, session.Version).
			Updates(map[string]any{
				"state":        outcome.State,
				"secret_state": outcome.Secret,
				"game_status":  outcome.Status,
				"current_turn": outcome.NextTurn,
				"winner_id":    outcome.WinnerId,
				"version":      gorm.Expr("version + 1"),
				"time_updated": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errStateConflict
		}

		history := model.MoveHistory{
			GameId:   gameId,
			UserId:   playerId,
			MoveId:   moveId,
			Payload:  request.Move,
			PlayedAt: now,
		}
		if f := tx.Create(&history); f.Error != nil {
			return f.Error
		}

		session.State = outcome.State
		session.SecretState = outcome.Secret
		session.GameStatus = outcome.Status
		session.CurrentTurn = outcome.NextTurn
		session.WinnerId = outcome.WinnerId
		session.Version++
		session.TimeUpdated = now
		updated = &session

		if outcome.Status == model.GameFinished {
			return gs.settle(tx, session)
		}
		return nil
	})
	if err != nil {
		return nil, traceFor(err)
	}

	gs.publishSessionChange(updated)
	if outcome.Status == model.GameFinished {
		gs.notifyGameOver(updated)
	}
	return updated, nil
}

// settle releases the escrow exactly once, at the transition into FINISHED.
// Decisive: the winner gets the fixed reward, the loser's bet is forfeited.
// Draw: both bets come back.
func (gs *gameService) settle(tx *gorm.DB, session model.GameSession) error {
	if session.WinnerId != nil {
		return gs.wallet.Credit(tx, *session.WinnerId, session.Id, model.WalletEntryWin, viper.GetInt64("WIN_REWARD"))
	}

	if session.OpponentId == nil {
		return nil
	}
	if err := gs.wallet.Credit(tx, session.CreatorId, session.Id, model.WalletEntryRefund, session.BetAmount); err != nil {
		return err
	}
	return gs.wallet.Credit(tx, *session.OpponentId, session.Id, model.WalletEntryRefund, session.BetAmount)
}

func (gs *gameService) getGame(gameId uint64) (*model.GameSession, *reject.ProblemWithTrace) {
	var session model.GameSession
	result := gs.db.
		Model(&model.GameSession{}).
		Where("id = ?", gameId).
		First(&session)

	if result.Error != nil {
		return nil, traceFor(result.Error)
	}

	return &session, nil
}

// getGames lists joinable and running sessions, the caller's own active ones
// first. With onlyMine it becomes the "sessions I can resume" query:
// participant and not finished.
func (gs *gameService) getGames(page utils.PageRequest, userId uint64, onlyMine bool) ([]model.GameSession, *int64, *reject.ProblemWithTrace) {
	sessions := []model.GameSession{}
	sessionCount := int64(0)

	query := gs.db.Model(&model.GameSession{})
	if onlyMine {
		query = query.Where(
			"(creator_id = ? OR opponent_id = ?) AND game_status <> ?",
			userId, userId, model.GameFinished)
	} else {
		query = query.Where("game_status IN ?", []model.GameStatus{model.GameWaiting, model.GamePlaying})
	}

	if f := query.Count(&sessionCount); f.Error != nil {
		return nil, nil, traceFor(f.Error)
	}

	result := query.
		Limit(page.Size).
		Offset(page.Offset).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:                "(creator_id = ? OR opponent_id = ?) DESC, time_created DESC",
				Vars:               []interface{}{userId, userId},
				WithoutParentheses: true,
			},
		}).
		Find(&sessions)
	if result.Error != nil {
		return nil, nil, traceFor(result.Error)
	}

	return sessions, &sessionCount, nil
}

func (gs *gameService) getMoves(gameId uint64) ([]model.MoveHistory, *reject.ProblemWithTrace) {
	var moves []model.MoveHistory
	result := gs.db.
		Model(&model.MoveHistory{}).
		Where("game_id = ?", gameId).
		Order("played_at").
		Find(&moves)

	if result.Error != nil {
		return nil, traceFor(result.Error)
	}

	return moves, nil
}

func (gs *gameService) publishSessionChange(session *model.GameSession) {
	gs.notificationHub.Publish(pkgws.GameTopic(session.Id), pkgws.ChangeEvent{
		Entity:   pkgws.EntitySession,
		Id:       session.Id,
		NewState: session,
	})
}

func (gs *gameService) notifyGameOver(session *model.GameSession) {
	won := func(playerId uint64) bool {
		return session.WinnerId != nil && *session.WinnerId == playerId
	}
	gs.publishSink(notification.NewGameOver(session.CreatorId, session.Id, won(session.CreatorId)))
	if session.OpponentId != nil {
		gs.publishSink(notification.NewGameOver(*session.OpponentId, session.Id, won(*session.OpponentId)))
	}
}

func validationTrace(reason string) *reject.ProblemWithTrace {
	err := &rules.ValidationError{Reason: reason}
	return &reject.ProblemWithTrace{
		Problem: reject.ValidationProblem(reason),
		Cause:   err,
	}
}

func unexpectedTrace(err error) *reject.ProblemWithTrace {
	return &reject.ProblemWithTrace{
		Problem: reject.UnexpectedProblem(err),
		Cause:   err,
	}
}

// traceFor maps engine errors onto the client-facing taxonomy: NotFound,
// StateConflict, InsufficientBalance, ValidationError or an unexpected fault.
func traceFor(err error) *reject.ProblemWithTrace {
	var validation *rules.ValidationError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &reject.ProblemWithTrace{Problem: reject.NotFoundProblem(), Cause: err}
	case errors.Is(err, errStateConflict):
		return &reject.ProblemWithTrace{Problem: reject.StateConflictProblem(), Cause: err}
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return &reject.ProblemWithTrace{Problem: reject.InsufficientBalanceProblem(), Cause: err}
	case errors.As(err, &validation):
		return &reject.ProblemWithTrace{Problem: reject.ValidationProblem(validation.Reason), Cause: err}
	}
	return unexpectedTrace(err)
}
