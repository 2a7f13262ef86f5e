package invite

import (
	"net/http"
	"testing"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	hostId      = uint64(1)
	guestId     = uint64(2)
	bystanderId = uint64(3)
)

func inviteStatus(t *testing.T, svc *inviteService, inviteId uint64) model.InviteStatus {
	t.Helper()
	var invite model.Invite
	require.NoError(t, svc.db.First(&invite, inviteId).Error)
	return invite.InviteStatus
}

func TestSendInvite(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	invite, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)

	assert.Equal(t, session.Id, invite.GameId)
	assert.Equal(t, hostId, invite.SenderId)
	assert.Equal(t, guestId, invite.RecipientId)
	assert.Equal(t, model.InvitePending, invite.InviteStatus)
}

func TestSendInvite_SelfInviteRejected(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	_, trace := svc.sendInvite(session.Id, hostId, hostId)

	require.NotNil(t, trace)
	assert.Equal(t, http.StatusBadRequest, trace.Problem.Status)
}

func TestSendInvite_OnlyCreatorMaySend(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	_, trace := svc.sendInvite(session.Id, bystanderId, guestId)

	require.NotNil(t, trace)
	assert.Equal(t, http.StatusBadRequest, trace.Problem.Status)
}

func TestSendInvite_DuplicatePendingRejected(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	_, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)

	_, trace = svc.sendInvite(session.Id, hostId, guestId)
	require.NotNil(t, trace)
	assert.Equal(t, http.StatusBadRequest, trace.Problem.Status)

	var pending int64
	require.NoError(t, svc.db.Model(&model.Invite{}).
		Where("game_id = ? AND invite_status = ?", session.Id, model.InvitePending).
		Count(&pending).Error)
	assert.Equal(t, int64(1), pending)
}

func TestSendInvite_RejectedOnClaimedSession(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	_, trace := svc.sessions.Join(session.Id, guestId)
	require.Nil(t, trace)

	_, sendTrace := svc.sendInvite(session.Id, hostId, bystanderId)
	require.NotNil(t, sendTrace)
	assert.Equal(t, http.StatusConflict, sendTrace.Problem.Status)
}

func TestSendInvite_UnknownSession(t *testing.T) {
	svc := testService(t)

	_, trace := svc.sendInvite(999, hostId, guestId)

	require.NotNil(t, trace)
	assert.Equal(t, http.StatusNotFound, trace.Problem.Status)
}

func TestAcceptInvite_JoinsSessionAndDeclinesSiblings(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	accepted, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)
	sibling, trace := svc.sendInvite(session.Id, hostId, bystanderId)
	require.Nil(t, trace)

	joined, acceptTrace := svc.acceptInvite(accepted.Id, guestId)
	require.Nil(t, acceptTrace)

	assert.Equal(t, model.GamePlaying, joined.GameStatus)
	require.NotNil(t, joined.OpponentId)
	assert.Equal(t, guestId, *joined.OpponentId)

	assert.Equal(t, model.InviteAccepted, inviteStatus(t, svc, accepted.Id))
	assert.Equal(t, model.InviteDeclined, inviteStatus(t, svc, sibling.Id))
}

func TestAcceptInvite_ClaimedSessionDeclinesInvite(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	invite, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)

	// Someone else claims the session before the recipient reacts.
	_, joinTrace := svc.sessions.Join(session.Id, bystanderId)
	require.Nil(t, joinTrace)

	_, acceptTrace := svc.acceptInvite(invite.Id, guestId)
	require.NotNil(t, acceptTrace)
	assert.Equal(t, http.StatusConflict, acceptTrace.Problem.Status)
	assert.Equal(t, "error.invite.rejected", acceptTrace.Problem.Code)

	assert.Equal(t, model.InviteDeclined, inviteStatus(t, svc, invite.Id))
}

func TestAcceptInvite_OnlyRecipientMayAccept(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	invite, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)

	_, acceptTrace := svc.acceptInvite(invite.Id, bystanderId)
	require.NotNil(t, acceptTrace)
	assert.Equal(t, http.StatusBadRequest, acceptTrace.Problem.Status)

	assert.Equal(t, model.InvitePending, inviteStatus(t, svc, invite.Id))
}

func TestAcceptInvite_ResolvedInviteConflicts(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	invite, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)
	require.Nil(t, svc.declineInvite(invite.Id, guestId))

	_, acceptTrace := svc.acceptInvite(invite.Id, guestId)
	require.NotNil(t, acceptTrace)
	assert.Equal(t, http.StatusConflict, acceptTrace.Problem.Status)
}

func TestDeclineInvite(t *testing.T) {
	svc := testService(t)
	session := seedSession(t, svc.db, hostId)

	invite, trace := svc.sendInvite(session.Id, hostId, guestId)
	require.Nil(t, trace)

	require.Nil(t, svc.declineInvite(invite.Id, guestId))
	assert.Equal(t, model.InviteDeclined, inviteStatus(t, svc, invite.Id))

	// The session stays joinable for everyone else.
	reloaded, findTrace := svc.sessions.Find(session.Id)
	require.Nil(t, findTrace)
	assert.Equal(t, model.GameWaiting, reloaded.GameStatus)
}

func TestGetPendingInvites(t *testing.T) {
	svc := testService(t)
	first := seedSession(t, svc.db, hostId)
	second := seedSession(t, svc.db, bystanderId)

	_, trace := svc.sendInvite(first.Id, hostId, guestId)
	require.Nil(t, trace)
	declined, trace := svc.sendInvite(second.Id, bystanderId, guestId)
	require.Nil(t, trace)
	require.Nil(t, svc.declineInvite(declined.Id, guestId))

	pending, listTrace := svc.getPendingInvites(guestId)
	require.Nil(t, listTrace)
	require.Len(t, pending, 1)
	assert.Equal(t, first.Id, pending[0].GameId)
}
