package domain

import "github.com/shopspring/decimal"

// BalanceOpKind names one step of the balance mutation protocol
type BalanceOpKind string

const (
	BalanceOpEnsureEntry       BalanceOpKind = "ENSURE_ENTRY"
	BalanceOpRegisterPending   BalanceOpKind = "REGISTER_PENDING"
	BalanceOpDebitIfSufficient BalanceOpKind = "DEBIT_IF_SUFFICIENT"
	BalanceOpCredit            BalanceOpKind = "CREDIT"
	BalanceOpUnregisterPending BalanceOpKind = "UNREGISTER_PENDING"
)

// BalanceOp is a conditional mutation of one (wallet, currency) balance.
// Each op is a (predicate, mutation) pair that is safe to replay: once its
// mutation has been applied, its predicate no longer holds.
type BalanceOp struct {
	Kind     BalanceOpKind
	Address  string
	Currency string
	TxID     string
	// Amount is the debit/credit amount, or the opening amount of a new entry
	Amount decimal.Decimal
}

// BatchResult reports how many ops of a batch modified a document
type BatchResult struct {
	Modified int64
}

// EnsureEntry appends an empty balance for currency unless one exists
func EnsureEntry(address, currency string) BalanceOp {
	return BalanceOp{Kind: BalanceOpEnsureEntry, Address: address, Currency: currency, Amount: decimal.Zero}
}

// EnsureEntryWithAmount appends a balance holding amount unless one exists
func EnsureEntryWithAmount(address, currency string, amount decimal.Decimal) BalanceOp {
	return BalanceOp{Kind: BalanceOpEnsureEntry, Address: address, Currency: currency, Amount: amount}
}

// RegisterPending adds txID to the balance's pending markers unless already listed
func RegisterPending(address, currency, txID string) BalanceOp {
	return BalanceOp{Kind: BalanceOpRegisterPending, Address: address, Currency: currency, TxID: txID}
}

// DebitIfSufficient subtracts amount and clears the marker, only while the
// marker is listed and the balance covers amount
func DebitIfSufficient(address, currency, txID string, amount decimal.Decimal) BalanceOp {
	return BalanceOp{Kind: BalanceOpDebitIfSufficient, Address: address, Currency: currency, TxID: txID, Amount: amount}
}

// Credit adds amount and clears the marker, only while the marker is listed
func Credit(address, currency, txID string, amount decimal.Decimal) BalanceOp {
	return BalanceOp{Kind: BalanceOpCredit, Address: address, Currency: currency, TxID: txID, Amount: amount}
}

// UnregisterPending clears the marker without touching the amount
func UnregisterPending(address, currency, txID string) BalanceOp {
	return BalanceOp{Kind: BalanceOpUnregisterPending, Address: address, Currency: currency, TxID: txID}
}

// RegisterPendingBatch returns the ops that make both sides of tx aware of it.
// Each EnsureEntry precedes the RegisterPending of the same side so that a
// freshly created entry is visible to it.
func RegisterPendingBatch(tx *Transfer) []BalanceOp {
	id := tx.ID.String()
	return []BalanceOp{
		EnsureEntry(tx.From.AccountAddress, tx.From.Currency),
		RegisterPending(tx.From.AccountAddress, tx.From.Currency, id),
		EnsureEntry(tx.To.AccountAddress, tx.To.Currency),
		RegisterPending(tx.To.AccountAddress, tx.To.Currency, id),
	}
}

// DebitOp returns the sender-side debit of tx
func DebitOp(tx *Transfer) BalanceOp {
	return DebitIfSufficient(tx.From.AccountAddress, tx.From.Currency, tx.ID.String(), tx.Amount)
}

// CreditOp returns the receiver-side credit of tx
func CreditOp(tx *Transfer) BalanceOp {
	return Credit(tx.To.AccountAddress, tx.To.Currency, tx.ID.String(), tx.Amount)
}

// CancelBatch returns the ops that clear both markers of tx
func CancelBatch(tx *Transfer) []BalanceOp {
	id := tx.ID.String()
	return []BalanceOp{
		UnregisterPending(tx.From.AccountAddress, tx.From.Currency, id),
		UnregisterPending(tx.To.AccountAddress, tx.To.Currency, id),
	}
}

// Matches evaluates the op's predicate against w. A nil wallet matches
// nothing except EnsureEntry.
func (op BalanceOp) Matches(w *Wallet) bool {
	if w == nil {
		return op.Kind == BalanceOpEnsureEntry
	}

	b := w.Balance(op.Currency)
	switch op.Kind {
	case BalanceOpEnsureEntry:
		return b == nil
	case BalanceOpRegisterPending:
		return b != nil && !b.HasPending(op.TxID)
	case BalanceOpDebitIfSufficient:
		return b != nil && b.HasPending(op.TxID) && b.OffchainAmount.GreaterThanOrEqual(op.Amount)
	case BalanceOpCredit, BalanceOpUnregisterPending:
		return b != nil && b.HasPending(op.TxID)
	default:
		return false
	}
}

// Apply runs the op against w and reports whether it modified anything.
// w must be non-nil; stores create the wallet before applying EnsureEntry.
func (op BalanceOp) Apply(w *Wallet) bool {
	if !op.Matches(w) {
		return false
	}

	if op.Kind == BalanceOpEnsureEntry {
		w.Balances = append(w.Balances, Balance{
			Currency:       op.Currency,
			OffchainAmount: op.Amount,
			PendingTxs:     []string{},
		})
		return true
	}

	b := w.Balance(op.Currency)
	switch op.Kind {
	case BalanceOpRegisterPending:
		b.PendingTxs = append(b.PendingTxs, op.TxID)
	case BalanceOpDebitIfSufficient:
		b.OffchainAmount = b.OffchainAmount.Sub(op.Amount)
		b.removePending(op.TxID)
	case BalanceOpCredit:
		b.OffchainAmount = b.OffchainAmount.Add(op.Amount)
		b.removePending(op.TxID)
	case BalanceOpUnregisterPending:
		b.removePending(op.TxID)
	}
	return true
}
