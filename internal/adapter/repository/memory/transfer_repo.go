// Package memory keeps transfers and wallets in process memory. It backs the
// "memory" store backend and the lifecycle tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// transferRepository implements domain.TransferRepository
type transferRepository struct {
	mu        sync.RWMutex
	transfers map[uuid.UUID]*domain.Transfer
	now       func() time.Time
}

// NewTransferRepository creates a new in-memory transfer repository
func NewTransferRepository() domain.TransferRepository {
	return &transferRepository{
		transfers: make(map[uuid.UUID]*domain.Transfer),
		now:       time.Now,
	}
}

// Create inserts a NEW transfer
func (r *transferRepository) Create(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	record := tx.Clone()
	if err := record.PrepareForInsert(r.now()); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transfers[record.ID]; exists {
		return nil, domain.StoreError("failed to create transfer", fmt.Errorf("duplicate id %s", record.ID))
	}
	r.transfers[record.ID] = record

	return record.Clone(), nil
}

// GetByID retrieves a transfer by its ID
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tx, ok := r.transfers[id]
	if !ok {
		return nil, fmt.Errorf("transfer not found for id %s: %w", id, domain.ErrNotFound)
	}
	return tx.Clone(), nil
}

// Get retrieves all transfers matching the filter, oldest first
func (r *transferRepository) Get(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Transfer
	for _, tx := range r.transfers {
		if filter.Matches(tx) {
			result = append(result, tx.Clone())
		}
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no transfers found: %w", domain.ErrNotFound)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// CompareAndSet moves a transfer from expected to next if it is still in expected
func (r *transferRepository) CompareAndSet(ctx context.Context, id uuid.UUID, expected, next domain.TransferState) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, ok := r.transfers[id]
	if !ok || tx.State != expected {
		return nil, fmt.Errorf("transfer %s is not %s: %w", id, expected, domain.ErrConcurrencyConflict)
	}

	tx.State = next
	tx.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	return tx.Clone(), nil
}
