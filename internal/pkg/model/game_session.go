package model

import (
	"encoding/json"
	"time"
)

type GameSession struct {
	Id          uint64          `json:"id"`
	GameType    GameType        `json:"gameType"`
	GameStatus  GameStatus      `json:"gameStatus"`
	CreatorId   uint64          `json:"creatorId"`
	OpponentId  *uint64         `json:"opponentId"`
	CurrentTurn *uint64         `json:"currentTurn"`
	BetAmount   int64           `json:"betAmount"`
	State       json.RawMessage `gorm:"type:jsonb" json:"state"`
	// SecretState never leaves the engine. It holds per-game data that must not
	// be observable by clients (e.g. the roulette bullet chamber).
	SecretState json.RawMessage `gorm:"type:jsonb" json:"-"`
	WinnerId    *uint64         `json:"winnerId"`
	Version     uint64          `json:"-"`
	TimeCreated time.Time       `json:"timeCreated"`
	TimeUpdated time.Time       `json:"timeUpdated"`
}

func (GameSession) TableName() string {
	return "game_session"
}
