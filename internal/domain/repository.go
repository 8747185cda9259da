package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransferRepository defines the interface for transfer persistence operations
type TransferRepository interface {
	// Create validates the transfer, assigns its id, timestamps and default
	// NEW state, and persists it. Returns the persisted record.
	Create(ctx context.Context, tx *Transfer) (*Transfer, error)

	// GetByID retrieves a transfer by its ID
	// Returns ErrNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// Get retrieves every transfer matching the filter, oldest first
	// Returns ErrNotFound when nothing matches (never an empty slice)
	Get(ctx context.Context, filter TransferFilter) ([]*Transfer, error)

	// CompareAndSet moves the transfer from expected to next atomically
	// Returns ErrConcurrencyConflict if the current state is not expected
	CompareAndSet(ctx context.Context, id uuid.UUID, expected, next TransferState) (*Transfer, error)
}

// WalletRepository defines the interface for wallet balance persistence operations
type WalletRepository interface {
	// Apply runs the ops in order as one unit (one round trip).
	// Every op is applied to a single document atomically; ops whose predicate
	// does not hold are skipped, not failed.
	Apply(ctx context.Context, ops ...BalanceOp) (BatchResult, error)

	// Get retrieves the wallet of an address
	// Returns ErrNotFound if the address has no wallet yet
	Get(ctx context.Context, address string) (*Wallet, error)

	// ListWithPending retrieves every wallet that lists at least one pending marker
	ListWithPending(ctx context.Context) ([]*Wallet, error)
}
