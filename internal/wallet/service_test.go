package wallet

import (
	"os"
	"testing"

	"github.com/codecraftak/arcade-backend/internal/pkg/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const startingBalance = int64(1000)

func TestMain(m *testing.M) {
	viper.Set("STARTING_BALANCE", startingBalance)
	os.Exit(m.Run())
}

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDb, err := db.DB()
	require.NoError(t, err)
	sqlDb.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Wallet{}, &model.WalletEntry{}))
	return NewService(db)
}

func TestFindByUserId_ProvisionsWalletOnFirstTouch(t *testing.T) {
	svc := testService(t)

	wallet, trace := svc.FindByUserId(7)
	require.Nil(t, trace)

	assert.Equal(t, uint64(7), wallet.UserId)
	assert.Equal(t, startingBalance, wallet.Balance)

	// A second lookup reuses the same wallet instead of resetting it.
	require.NoError(t, svc.Debit(svc.db, 7, 1, 100))
	again, trace := svc.FindByUserId(7)
	require.Nil(t, trace)
	assert.Equal(t, startingBalance-100, again.Balance)
}

func TestDebit_RecordsNegativeEntry(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Debit(svc.db, 7, 42, 250))

	entries, trace := svc.Entries(7)
	require.Nil(t, trace)
	require.Len(t, entries, 1)
	assert.Equal(t, model.WalletEntryBet, entries[0].EntryType)
	assert.Equal(t, int64(-250), entries[0].Amount)
	assert.Equal(t, uint64(42), entries[0].GameId)
}

func TestDebit_InsufficientBalance(t *testing.T) {
	svc := testService(t)

	err := svc.Debit(svc.db, 7, 42, startingBalance+1)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	wallet, trace := svc.FindByUserId(7)
	require.Nil(t, trace)
	assert.Equal(t, startingBalance, wallet.Balance)

	entries, trace := svc.Entries(7)
	require.Nil(t, trace)
	assert.Empty(t, entries)
}

func TestDebit_ExactBalanceAllowed(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Debit(svc.db, 7, 42, startingBalance))

	wallet, trace := svc.FindByUserId(7)
	require.Nil(t, trace)
	assert.Zero(t, wallet.Balance)
}

func TestCredit_RecordsEntry(t *testing.T) {
	svc := testService(t)

	require.NoError(t, svc.Credit(svc.db, 7, 42, model.WalletEntryWin, 150))

	wallet, trace := svc.FindByUserId(7)
	require.Nil(t, trace)
	assert.Equal(t, startingBalance+150, wallet.Balance)

	entries, trace := svc.Entries(7)
	require.Nil(t, trace)
	require.Len(t, entries, 1)
	assert.Equal(t, model.WalletEntryWin, entries[0].EntryType)
	assert.Equal(t, int64(150), entries[0].Amount)
}
