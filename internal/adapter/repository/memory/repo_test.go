package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

func newTransfer(from, to string) *domain.Transfer {
	return &domain.Transfer{
		From:   domain.Participant{AccountAddress: from, Currency: "cur-1"},
		To:     domain.Participant{AccountAddress: to, Currency: "cur-1"},
		Amount: decimal.NewFromInt(40),
	}
}

func TestTransferRepository_CreateAndGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository()

	created, err := repo.Create(ctx, newTransfer("0xaaa", "0xbbb"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, domain.TransferStateNew, created.State)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTransferRepository_CreateRejectsInvalid(t *testing.T) {
	_, err := NewTransferRepository().Create(context.Background(), &domain.Transfer{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestTransferRepository_CreateRejectsLaterState(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository()

	tx := newTransfer("0xaaa", "0xbbb")
	tx.State = domain.TransferStateDone
	_, err := repo.Create(ctx, tx)

	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = repo.Get(ctx, domain.TransferFilter{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTransferRepository_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository()

	_, err := repo.Get(ctx, domain.TransferFilter{})
	assert.True(t, errors.Is(err, domain.ErrNotFound), "zero matches is an error, not an empty list")

	first, err := repo.Create(ctx, newTransfer("0xaaa", "0xbbb"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTransfer("0xccc", "0xddd"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, domain.TransferFilter{Address: "0xbbb"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, first.ID, got[0].ID)

	all, err := repo.Get(ctx, domain.TransferFilter{Currency: "cur-1", State: domain.TransferStateNew})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.Get(ctx, domain.TransferFilter{State: domain.TransferStateDone})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTransferRepository_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository()

	created, err := repo.Create(ctx, newTransfer("0xaaa", "0xbbb"))
	require.NoError(t, err)

	updated, err := repo.CompareAndSet(ctx, created.ID, domain.TransferStateNew, domain.TransferStatePending)
	require.NoError(t, err)
	assert.Equal(t, domain.TransferStatePending, updated.State)

	_, err = repo.CompareAndSet(ctx, created.ID, domain.TransferStateNew, domain.TransferStatePending)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))

	_, err = repo.CompareAndSet(ctx, uuid.New(), domain.TransferStateNew, domain.TransferStatePending)
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
}

func TestTransferRepository_ConcurrentCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewTransferRepository()
	created, err := repo.Create(ctx, newTransfer("0xaaa", "0xbbb"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.CompareAndSet(ctx, created.ID, domain.TransferStateNew, domain.TransferStatePending); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestWalletRepository_ConcurrentEnsureEntryKeepsCurrenciesUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewWalletRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txID := uuid.NewString()
			_, err := repo.Apply(ctx,
				domain.EnsureEntry("0xaaa", "cur-1"),
				domain.RegisterPending("0xaaa", "cur-1", txID),
			)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	w, err := repo.Get(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, w.Balances, 1)
	assert.Len(t, w.Balances[0].PendingTxs, 50)
}

func TestWalletRepository_ApplyReportsModified(t *testing.T) {
	ctx := context.Background()
	repo := NewWalletRepository()

	res, err := repo.Apply(ctx, domain.EnsureEntryWithAmount("0xaaa", "cur-1", decimal.NewFromInt(100)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Modified)

	// Ops against unknown wallets are skipped, not failed
	res, err = repo.Apply(ctx, domain.RegisterPending("0xzzz", "cur-1", "tx"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Modified)

	_, err = repo.Get(ctx, "0xzzz")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWalletRepository_ApplyHonoursCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalletRepository().Apply(ctx, domain.EnsureEntry("0xaaa", "cur-1"))
	assert.True(t, errors.Is(err, domain.ErrStore))
}

func TestWalletRepository_ListWithPending(t *testing.T) {
	ctx := context.Background()
	repo := NewWalletRepository()

	_, err := repo.Apply(ctx,
		domain.EnsureEntry("0xaaa", "cur-1"),
		domain.EnsureEntry("0xbbb", "cur-1"),
		domain.RegisterPending("0xbbb", "cur-1", "tx-1"),
	)
	require.NoError(t, err)

	wallets, err := repo.ListWithPending(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, "0xbbb", wallets[0].Address)
}
