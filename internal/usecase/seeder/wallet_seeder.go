package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// OpeningBalance defines a balance entry to be seeded
type OpeningBalance struct {
	Address  string
	Currency string
	Amount   decimal.Decimal
}

// WalletSeeder handles seeding of opening balances
type WalletSeeder struct {
	repo     domain.WalletRepository
	balances []OpeningBalance
}

// NewWalletSeeder creates a new WalletSeeder instance
func NewWalletSeeder(repo domain.WalletRepository, balances []OpeningBalance) *WalletSeeder {
	return &WalletSeeder{
		repo:     repo,
		balances: balances,
	}
}

// Seed ensures every configured balance entry exists
// Entries that already exist are left untouched, so seeding on every start is safe.
// Returns the number of entries created.
func (s *WalletSeeder) Seed(ctx context.Context) (int64, error) {
	if len(s.balances) == 0 {
		return 0, nil
	}

	ops := make([]domain.BalanceOp, 0, len(s.balances))
	for _, b := range s.balances {
		// Validate before creating
		if strings.TrimSpace(b.Address) == "" || strings.TrimSpace(b.Currency) == "" {
			return 0, fmt.Errorf("%w: opening balance needs an address and a currency", domain.ErrValidation)
		}
		if b.Amount.IsNegative() {
			return 0, fmt.Errorf("%w: opening balance of %s must not be negative", domain.ErrValidation, b.Address)
		}
		ops = append(ops, domain.EnsureEntryWithAmount(b.Address, b.Currency, b.Amount))
	}

	res, err := s.repo.Apply(ctx, ops...)
	if err != nil {
		return 0, fmt.Errorf("failed to seed opening balances: %w", err)
	}

	return res.Modified, nil
}
