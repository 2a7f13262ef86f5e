package invite

import (
	"errors"
	"net/http"
	"time"

	"github.com/codecraftak/arcade-backend/internal/game"
	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/notification"
	"github.com/codecraftak/arcade-backend/internal/pkg/pubsub"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	pkgws "github.com/codecraftak/arcade-backend/internal/pkg/ws"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	inviteRejected string = "error.invite.rejected"
)

type inviteService struct {
	db              *gorm.DB
	sessions        *game.SessionStore
	notificationHub *pkgws.WebSocketNotificationHub
	publishSink     func(pubsub.Publishable)
}

func newInviteService(db *gorm.DB) *inviteService {
	return &inviteService{
		db:              db,
		sessions:        game.NewSessionStore(db),
		notificationHub: pkgws.NewNotificationHub(),
		publishSink:     func(p pubsub.Publishable) { pubsub.Publish(p) },
	}
}

// sendInvite binds a waiting session to one specific recipient. Only the
// session creator can invite, and only while the session is still WAITING.
func (is *inviteService) sendInvite(gameId uint64, senderId uint64, recipientId uint64) (*model.Invite, *reject.ProblemWithTrace) {
	if senderId == recipientId {
		return nil, validationTrace("cannot invite yourself")
	}

	session, problem := is.sessions.Find(gameId)
	if problem != nil {
		return nil, problem
	}
	if session.CreatorId != senderId {
		return nil, validationTrace("only the session creator can send invites")
	}
	if session.GameStatus != model.GameWaiting || session.OpponentId != nil {
		return nil, conflictTrace()
	}

	created := &model.Invite{
		GameId:       gameId,
		SenderId:     senderId,
		RecipientId:  recipientId,
		InviteStatus: model.InvitePending,
		TimeCreated:  time.Now().UTC(),
	}

	err := is.db.Transaction(func(tx *gorm.DB) error {
		var pending int64
		f := tx.Model(&model.Invite{}).
			Where("game_id = ? AND recipient_id = ? AND invite_status = ?",
				gameId, recipientId, model.InvitePending).
			Count(&pending)
		if f.Error != nil {
			return f.Error
		}
		if pending > 0 {
			return errDuplicateInvite
		}

		return tx.Create(created).Error
	})
	if err != nil {
		if errors.Is(err, errDuplicateInvite) {
			return nil, validationTrace("a pending invite for this recipient already exists")
		}
		return nil, unexpectedTrace(err)
	}

	is.publishSink(notification.NewInviteReceived(recipientId, senderId, gameId))
	is.publishInviteChange(created)
	return created, nil
}

// acceptInvite re-validates the underlying session before joining: the invite
// being PENDING says nothing about the session, which may have been claimed
// by a sibling invite or a direct join in the meantime. Any failure to join
// moves the invite to DECLINED so clients stop retrying a dead invite.
func (is *inviteService) acceptInvite(inviteId uint64, callerId uint64) (*model.GameSession, *reject.ProblemWithTrace) {
	invite, trace := is.loadPending(inviteId, callerId)
	if trace != nil {
		return nil, trace
	}

	session, joinProblem := is.sessions.Join(invite.GameId, invite.RecipientId)
	if joinProblem != nil {
		is.resolve(invite.Id, model.InviteDeclined)
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NewProblem().
				WithTitle("Invite can no longer be accepted").
				WithStatus(http.StatusConflict).
				WithCode(inviteRejected).
				Build(),
			Cause: joinProblem.Cause,
		}
	}

	err := is.db.Transaction(func(tx *gorm.DB) error {
		f := tx.Model(&model.Invite{}).
			Where("id = ? AND invite_status = ?", invite.Id, model.InvitePending).
			Update("invite_status", model.InviteAccepted)
		if f.Error != nil {
			return f.Error
		}

		// A claimed session closes every other pending invite for it.
		f = tx.Model(&model.Invite{}).
			Where("game_id = ? AND id <> ? AND invite_status = ?",
				invite.GameId, invite.Id, model.InvitePending).
			Update("invite_status", model.InviteDeclined)
		return f.Error
	})
	if err != nil {
		log.Warn().Err(err).Msg("error resolving sibling invites after accept")
	}

	invite.InviteStatus = model.InviteAccepted
	is.publishInviteChange(invite)
	return session, nil
}

func (is *inviteService) declineInvite(inviteId uint64, callerId uint64) *reject.ProblemWithTrace {
	invite, trace := is.loadPending(inviteId, callerId)
	if trace != nil {
		return trace
	}

	if err := is.resolve(invite.Id, model.InviteDeclined); err != nil {
		return unexpectedTrace(err)
	}

	invite.InviteStatus = model.InviteDeclined
	is.publishInviteChange(invite)
	return nil
}

func (is *inviteService) getPendingInvites(recipientId uint64) ([]model.Invite, *reject.ProblemWithTrace) {
	var invites []model.Invite
	result := is.db.
		Model(&model.Invite{}).
		Where("recipient_id = ? AND invite_status = ?", recipientId, model.InvitePending).
		Order("time_created DESC").
		Find(&invites)

	if result.Error != nil {
		return nil, unexpectedTrace(result.Error)
	}

	return invites, nil
}

func (is *inviteService) loadPending(inviteId uint64, callerId uint64) (*model.Invite, *reject.ProblemWithTrace) {
	var invite model.Invite
	if f := is.db.Where("id = ?", inviteId).First(&invite); f.Error != nil {
		if errors.Is(f.Error, gorm.ErrRecordNotFound) {
			return nil, &reject.ProblemWithTrace{Problem: reject.NotFoundProblem(), Cause: f.Error}
		}
		return nil, unexpectedTrace(f.Error)
	}

	if invite.RecipientId != callerId {
		return nil, validationTrace("only the recipient can resolve an invite")
	}
	if invite.InviteStatus != model.InvitePending {
		return nil, conflictTrace()
	}

	return &invite, nil
}

func (is *inviteService) resolve(inviteId uint64, status model.InviteStatus) error {
	f := is.db.Model(&model.Invite{}).
		Where("id = ? AND invite_status = ?", inviteId, model.InvitePending).
		Update("invite_status", status)
	return f.Error
}

func (is *inviteService) publishInviteChange(invite *model.Invite) {
	event := pkgws.ChangeEvent{
		Entity:   pkgws.EntityInvite,
		Id:       invite.Id,
		NewState: invite,
	}
	is.notificationHub.Publish(pkgws.UserTopic(invite.RecipientId), event)
	is.notificationHub.Publish(pkgws.UserTopic(invite.SenderId), event)
}

var errDuplicateInvite = errors.New("duplicate pending invite")

func validationTrace(reason string) *reject.ProblemWithTrace {
	return &reject.ProblemWithTrace{
		Problem: reject.ValidationProblem(reason),
		Cause:   errors.New(reason),
	}
}

func conflictTrace() *reject.ProblemWithTrace {
	err := errors.New("invite or session state changed")
	return &reject.ProblemWithTrace{
		Problem: reject.StateConflictProblem(),
		Cause:   err,
	}
}

func unexpectedTrace(err error) *reject.ProblemWithTrace {
	return &reject.ProblemWithTrace{
		Problem: reject.UnexpectedProblem(err),
		Cause:   err,
	}
}
