package wallet

import (
	"errors"
	"time"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/codecraftak/arcade-backend/internal/pkg/reject"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned by Debit when the bet exceeds the
// available points. Callers surface it as a client rejection, not a fault.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Service is the ledger adapter. Debit and Credit run on whatever *gorm.DB
// handle the caller passes in, so a session lifecycle step and its balance
// effect commit or roll back as one transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Debit withdraws a bet into escrow. The balance check and the withdrawal are
// a single conditional update so two concurrent debits cannot overdraw.
func (s *Service) Debit(tx *gorm.DB, userId uint64, gameId uint64, amount int64) error {
	if err := s.ensureWallet(tx, userId); err != nil {
		return err
	}

	result := tx.Exec(
		`UPDATE wallet SET balance = balance - ? WHERE user_id = ? AND balance >= ?`,
		amount, userId, amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}

	return s.record(tx, userId, gameId, model.WalletEntryBet, -amount)
}

// Credit releases points to a player: a win reward or an escrow refund.
func (s *Service) Credit(tx *gorm.DB, userId uint64, gameId uint64, entryType model.WalletEntryType, amount int64) error {
	if err := s.ensureWallet(tx, userId); err != nil {
		return err
	}

	result := tx.Exec(`UPDATE wallet SET balance = balance + ? WHERE user_id = ?`, amount, userId)
	if result.Error != nil {
		return result.Error
	}

	return s.record(tx, userId, gameId, entryType, amount)
}

func (s *Service) record(tx *gorm.DB, userId uint64, gameId uint64, entryType model.WalletEntryType, amount int64) error {
	entry := model.WalletEntry{
		UserId:      userId,
		GameId:      gameId,
		EntryType:   entryType,
		Amount:      amount,
		TimeCreated: time.Now().UTC(),
	}
	return tx.Create(&entry).Error
}

// ensureWallet provisions a wallet with the configured starting balance the
// first time a user touches the economy. Registration stays out of scope.
func (s *Service) ensureWallet(tx *gorm.DB, userId uint64) error {
	wallet := model.Wallet{UserId: userId, Balance: viper.GetInt64("STARTING_BALANCE")}
	result := tx.Where(model.Wallet{UserId: userId}).FirstOrCreate(&wallet)
	return result.Error
}

func (s *Service) FindByUserId(userId uint64) (*model.Wallet, *reject.ProblemWithTrace) {
	if err := s.ensureWallet(s.db, userId); err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(err),
			Cause:   err,
		}
	}

	var wallet model.Wallet
	result := s.db.
		Model(&model.Wallet{}).
		Where("user_id = ?", userId).
		First(&wallet)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &wallet, nil
}

func (s *Service) Entries(userId uint64) ([]model.WalletEntry, *reject.ProblemWithTrace) {
	var entries []model.WalletEntry
	result := s.db.
		Model(&model.WalletEntry{}).
		Where("user_id = ?", userId).
		Order("time_created DESC").
		Find(&entries)

	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("error fetching wallet entries")
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return entries, nil
}
