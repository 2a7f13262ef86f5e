// Package notification defines the out-of-band payloads handed to the
// platform notification sink. The engine publishes them fire-and-forget;
// rendering and delivery (mail, mobile push) belong to the wider platform.
package notification

import (
	"fmt"

	"github.com/google/uuid"
)

const eventTopicName = "arcade.notifications"

type Type string

const (
	TypeInviteReceived Type = "INVITE_RECEIVED"
	TypeGameOver       Type = "GAME_OVER"
)

type Notification struct {
	Id          string `json:"id"`
	Type        Type   `json:"type"`
	RecipientId uint64 `json:"recipientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	GameId      uint64 `json:"gameId"`
}

func (n Notification) GetEventTopicName() string {
	return eventTopicName
}

func NewInviteReceived(recipientId, senderId, gameId uint64) Notification {
	return Notification{
		Id:          uuid.New().String(),
		Type:        TypeInviteReceived,
		RecipientId: recipientId,
		Title:       "New game invite",
		Body:        fmt.Sprintf("Player %d challenged you to a game", senderId),
		GameId:      gameId,
	}
}

func NewGameOver(recipientId, gameId uint64, won bool) Notification {
	body := "The game ended in a draw"
	if won {
		body = "You won the wager"
	}
	return Notification{
		Id:          uuid.New().String(),
		Type:        TypeGameOver,
		RecipientId: recipientId,
		Title:       "Game over",
		Body:        body,
		GameId:      gameId,
	}
}
