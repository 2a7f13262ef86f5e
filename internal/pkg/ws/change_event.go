package ws

import "fmt"

const (
	EntitySession = "session"
	EntityInvite  = "invite"
)

// ChangeEvent is emitted on every accepted mutation. NewState carries the
// client-visible record; consumers re-render or re-fetch from the store.
type ChangeEvent struct {
	Entity   string `json:"entity"`
	Id       uint64 `json:"id"`
	NewState any    `json:"newState"`
}

func GameTopic(gameId uint64) string {
	return fmt.Sprintf("game/%d", gameId)
}

func UserTopic(userId uint64) string {
	return fmt.Sprintf("user/%d", userId)
}
