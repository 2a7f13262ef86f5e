package model

import (
	"encoding/json"
	"time"
)

type MoveHistory struct {
	Id     uint64 `json:"id"`
	GameId uint64 `gorm:"index" json:"gameId"`
	UserId uint64 `json:"userId"`
	// MoveId is the client-supplied idempotency key; unique per game.
	MoveId   string          `json:"moveId"`
	Payload  json.RawMessage `gorm:"type:jsonb" json:"payload"`
	PlayedAt time.Time       `json:"playedAt"`
}

func (MoveHistory) TableName() string {
	return "move_history"
}
