package domain

import "github.com/shopspring/decimal"

// Wallet holds the off-chain balances of one address
type Wallet struct {
	Address  string    `json:"address"`
	Balances []Balance `json:"balances"` // At most one entry per currency
}

// Balance is the off-chain amount of one currency plus the transfers in flight against it
type Balance struct {
	Currency       string          `json:"currency"`
	OffchainAmount decimal.Decimal `json:"offchainAmount"`
	PendingTxs     []string        `json:"pendingTxs"`
}

// Balance returns the entry for currency, or nil when the wallet has none
func (w *Wallet) Balance(currency string) *Balance {
	for i := range w.Balances {
		if w.Balances[i].Currency == currency {
			return &w.Balances[i]
		}
	}
	return nil
}

// HasPendingMarkers reports whether any balance lists an in-flight transfer
func (w *Wallet) HasPendingMarkers() bool {
	for _, b := range w.Balances {
		if len(b.PendingTxs) > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the wallet
func (w *Wallet) Clone() *Wallet {
	c := &Wallet{Address: w.Address, Balances: make([]Balance, len(w.Balances))}
	for i, b := range w.Balances {
		c.Balances[i] = Balance{
			Currency:       b.Currency,
			OffchainAmount: b.OffchainAmount,
			PendingTxs:     append([]string{}, b.PendingTxs...),
		}
	}
	return c
}

// HasPending reports whether txID is registered against this balance
func (b *Balance) HasPending(txID string) bool {
	for _, id := range b.PendingTxs {
		if id == txID {
			return true
		}
	}
	return false
}

func (b *Balance) removePending(txID string) {
	kept := b.PendingTxs[:0]
	for _, id := range b.PendingTxs {
		if id != txID {
			kept = append(kept, id)
		}
	}
	b.PendingTxs = kept
}
