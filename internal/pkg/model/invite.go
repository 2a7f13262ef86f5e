package model

import "time"

type InviteStatus string

const (
	InvitePending  InviteStatus = "PENDING"
	InviteAccepted InviteStatus = "ACCEPTED"
	InviteDeclined InviteStatus = "DECLINED"
)

type Invite struct {
	Id           uint64       `json:"id"`
	GameId       uint64       `json:"gameId"`
	SenderId     uint64       `json:"senderId"`
	RecipientId  uint64       `json:"recipientId"`
	InviteStatus InviteStatus `json:"status"`
	TimeCreated  time.Time    `json:"timeCreated"`
}

func (Invite) TableName() string {
	return "invite"
}
