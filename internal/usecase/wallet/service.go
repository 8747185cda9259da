package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// WalletService handles wallet read operations
type WalletService struct {
	WalletRepo domain.WalletRepository
}

// NewWalletService creates a new WalletService instance
func NewWalletService(walletRepo domain.WalletRepository) *WalletService {
	return &WalletService{
		WalletRepo: walletRepo,
	}
}

// GetWallet returns the balances of an address
// Returns domain.ErrNotFound when the address has never been used
func (s *WalletService) GetWallet(ctx context.Context, address string) (*domain.Wallet, error) {
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("%w: address is required", domain.ErrValidation)
	}
	return s.WalletRepo.Get(ctx, address)
}
