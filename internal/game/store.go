package game

import (
	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"gorm.io/gorm"
)

// SessionStore is the session engine surface other packages consume. The
// invite manager joins sessions through it so the WAITING precondition is
// decided by the same conditional write as a direct join.
type SessionStore struct {
	svc *gameService
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{svc: newGameService(db)}
}

func (s *SessionStore) Find(gameId uint64) (*model.GameSession, *reject.ProblemWithTrace) {
	return s.svc.getGame(gameId)
}

func (s *SessionStore) Join(gameId uint64, playerId uint64) (*model.GameSession, *reject.ProblemWithTrace) {
	return s.svc.joinSession(gameId, playerId)
}
