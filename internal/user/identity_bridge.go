package user

import (
	"context"

	gcppubsub "cloud.google.com/go/pubsub"
	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/utils"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProvisioned struct {
	Id       uint64 `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// identityBridge mirrors platform account events into the local user table so
// invites can resolve recipients without calling out to the platform.
type identityBridge struct {
	db *gorm.DB
}

func (b *identityBridge) handleUserProvisioned(_ context.Context, message *gcppubsub.Message) {
	log.Info().Msg("Received message payload " + string(message.Data))
	messagePayload, err := utils.JsonDecodeByteStream[UserProvisioned](message.Data)
	if err != nil {
		log.Warn().Err(err).Msg("Error while parsing UserProvisioned message")
		return
	}

	result := b.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "username"}),
		}).
		Create(&model.User{
			Id:       messagePayload.Id,
			Email:    messagePayload.Email,
			Username: messagePayload.Username,
		})

	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Error while handling UserProvisioned")
		return
	}

	message.Ack()
}
