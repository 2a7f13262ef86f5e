package model

import "time"

type Wallet struct {
	Id      uint64 `json:"id"`
	UserId  uint64 `gorm:"uniqueIndex" json:"userId"`
	Balance int64  `json:"balance"`
}

func (Wallet) TableName() string {
	return "wallet"
}

type WalletEntryType string

const (
	WalletEntryBet    WalletEntryType = "BET"
	WalletEntryWin    WalletEntryType = "WIN"
	WalletEntryRefund WalletEntryType = "REFUND"
)

// WalletEntry is the audit trail of every debit and credit the engine makes.
// Amount is signed: bets are negative, wins and refunds positive.
type WalletEntry struct {
	Id          uint64          `json:"id"`
	UserId      uint64          `gorm:"index" json:"userId"`
	GameId      uint64          `json:"gameId"`
	EntryType   WalletEntryType `json:"entryType"`
	Amount      int64           `json:"amount"`
	TimeCreated time.Time       `json:"timeCreated"`
}

func (WalletEntry) TableName() string {
	return "wallet_entry"
}
