package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// walletRepository implements domain.WalletRepository.
// A single mutex serializes batches, which makes every op trivially atomic.
type walletRepository struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
}

// NewWalletRepository creates a new in-memory wallet repository
func NewWalletRepository() domain.WalletRepository {
	return &walletRepository{wallets: make(map[string]*domain.Wallet)}
}

// Apply runs the ops in order under one lock
func (r *walletRepository) Apply(ctx context.Context, ops ...domain.BalanceOp) (domain.BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.BatchResult{}, domain.StoreError("failed to apply balance ops", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var result domain.BatchResult
	for _, op := range ops {
		w, ok := r.wallets[op.Address]
		if !ok {
			if op.Kind != domain.BalanceOpEnsureEntry {
				continue
			}
			// Wallets are created lazily by the first EnsureEntry
			w = &domain.Wallet{Address: op.Address}
			r.wallets[op.Address] = w
		}

		if op.Apply(w) {
			result.Modified++
		}
	}

	return result, nil
}

// Get retrieves the wallet of an address
func (r *walletRepository) Get(ctx context.Context, address string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.wallets[address]
	if !ok {
		return nil, fmt.Errorf("wallet not found for address %s: %w", address, domain.ErrNotFound)
	}
	return w.Clone(), nil
}

// ListWithPending retrieves every wallet that lists a pending marker
func (r *walletRepository) ListWithPending(ctx context.Context) ([]*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*domain.Wallet, 0)
	for _, w := range r.wallets {
		if w.HasPendingMarkers() {
			result = append(result, w.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})

	return result, nil
}
