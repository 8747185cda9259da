package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

// walletRepository implements domain.WalletRepository.
// A wallet is the set of wallet_balances rows sharing an address; each op is
// a single conditional statement on one row.
type walletRepository struct {
	db *DB
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *DB) domain.WalletRepository {
	return &walletRepository{db: db}
}

// Apply runs the ops in order inside one database transaction
func (r *walletRepository) Apply(ctx context.Context, ops ...domain.BalanceOp) (domain.BatchResult, error) {
	var result domain.BatchResult
	if len(ops) == 0 {
		return result, nil
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return result, domain.StoreError("failed to begin transaction", err)
	}
	defer dbTx.Rollback()

	for _, op := range lockOrder(ops) {
		query, args, err := balanceOpStatement(op)
		if err != nil {
			return domain.BatchResult{}, err
		}

		res, err := dbTx.ExecContext(ctx, query, args...)
		if err != nil {
			return domain.BatchResult{}, domain.StoreError(fmt.Sprintf("failed to apply %s on %s", op.Kind, op.Address), err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return domain.BatchResult{}, domain.StoreError("failed to read affected rows", err)
		}
		result.Modified += affected
	}

	if err := dbTx.Commit(); err != nil {
		return domain.BatchResult{}, domain.StoreError("failed to commit transaction", err)
	}

	return result, nil
}

// Get retrieves the wallet of an address
func (r *walletRepository) Get(ctx context.Context, address string) (*domain.Wallet, error) {
	query := `
		SELECT address, currency, offchain_amount, pending_txs
		FROM wallet_balances
		WHERE address = $1
		ORDER BY seq
	`

	wallets, err := r.query(ctx, query, address)
	if err != nil {
		return nil, err
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("wallet not found for address %s: %w", address, domain.ErrNotFound)
	}

	return wallets[0], nil
}

// ListWithPending returns every wallet with at least one pending marker, ordered by address
func (r *walletRepository) ListWithPending(ctx context.Context) ([]*domain.Wallet, error) {
	query := `
		SELECT address, currency, offchain_amount, pending_txs
		FROM wallet_balances
		WHERE address IN (
			SELECT address FROM wallet_balances WHERE cardinality(pending_txs) > 0
		)
		ORDER BY address, seq
	`

	return r.query(ctx, query)
}

// query groups consecutive rows of the same address into wallets
func (r *walletRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Wallet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("failed to query wallet balances", err)
	}
	defer rows.Close()

	var wallets []*domain.Wallet
	for rows.Next() {
		var (
			address   string
			balance   domain.Balance
			amountStr string
			pending   []string
		)
		if err := rows.Scan(&address, &balance.Currency, &amountStr, pq.Array(&pending)); err != nil {
			return nil, domain.StoreError("failed to scan wallet balance", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, domain.StoreError("failed to parse offchain_amount", err)
		}
		balance.OffchainAmount = amount
		balance.PendingTxs = pending
		if balance.PendingTxs == nil {
			balance.PendingTxs = []string{}
		}

		if len(wallets) == 0 || wallets[len(wallets)-1].Address != address {
			wallets = append(wallets, &domain.Wallet{Address: address})
		}
		w := wallets[len(wallets)-1]
		w.Balances = append(w.Balances, balance)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate wallet balances", err)
	}

	return wallets, nil
}

// lockOrder sorts ops by row so that concurrent batches take row locks in the
// same order. Ops on the same row keep their relative order; ops on different
// rows have independent predicates.
func lockOrder(ops []domain.BalanceOp) []domain.BalanceOp {
	ordered := make([]domain.BalanceOp, len(ops))
	copy(ordered, ops)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Address != ordered[j].Address {
			return ordered[i].Address < ordered[j].Address
		}
		return ordered[i].Currency < ordered[j].Currency
	})
	return ordered
}

// balanceOpStatement renders the conditional statement of an op.
// The WHERE clause is the op's predicate; RowsAffected tells whether it held.
func balanceOpStatement(op domain.BalanceOp) (string, []interface{}, error) {
	switch op.Kind {
	case domain.BalanceOpEnsureEntry:
		return `
			INSERT INTO wallet_balances (address, currency, offchain_amount)
			VALUES ($1, $2, $3::numeric)
			ON CONFLICT (address, currency) DO NOTHING
		`, []interface{}{op.Address, op.Currency, op.Amount.String()}, nil

	case domain.BalanceOpRegisterPending:
		return `
			UPDATE wallet_balances
			SET pending_txs = array_append(pending_txs, $3::text)
			WHERE address = $1 AND currency = $2 AND NOT ($3::text = ANY(pending_txs))
		`, []interface{}{op.Address, op.Currency, op.TxID}, nil

	case domain.BalanceOpDebitIfSufficient:
		return `
			UPDATE wallet_balances
			SET offchain_amount = offchain_amount - $4::numeric,
			    pending_txs = array_remove(pending_txs, $3::text)
			WHERE address = $1 AND currency = $2 AND $3::text = ANY(pending_txs)
			  AND offchain_amount >= $4::numeric
		`, []interface{}{op.Address, op.Currency, op.TxID, op.Amount.String()}, nil

	case domain.BalanceOpCredit:
		return `
			UPDATE wallet_balances
			SET offchain_amount = offchain_amount + $4::numeric,
			    pending_txs = array_remove(pending_txs, $3::text)
			WHERE address = $1 AND currency = $2 AND $3::text = ANY(pending_txs)
		`, []interface{}{op.Address, op.Currency, op.TxID, op.Amount.String()}, nil

	case domain.BalanceOpUnregisterPending:
		return `
			UPDATE wallet_balances
			SET pending_txs = array_remove(pending_txs, $3::text)
			WHERE address = $1 AND currency = $2 AND $3::text = ANY(pending_txs)
		`, []interface{}{op.Address, op.Currency, op.TxID}, nil

	default:
		return "", nil, fmt.Errorf("%w: unknown balance op %s", domain.ErrValidation, op.Kind)
	}
}
