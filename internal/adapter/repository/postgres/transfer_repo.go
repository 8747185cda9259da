package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
)

const transferColumns = `id, created_at, updated_at, from_address, from_currency, to_address, to_currency, amount, bctx, state`

// transferRepository implements domain.TransferRepository
type transferRepository struct {
	db  *DB
	now func() time.Time
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db *DB) domain.TransferRepository {
	return &transferRepository{db: db, now: time.Now}
}

// Create inserts a new transfer; the id, timestamps and NEW state are assigned here
func (r *transferRepository) Create(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	created := tx.Clone()
	if err := created.PrepareForInsert(r.now()); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var settlementRef interface{}
	if created.SettlementRef != nil {
		settlementRef = *created.SettlementRef
	}

	_, err := r.db.ExecContext(ctx, query,
		created.ID,
		created.CreatedAt,
		created.UpdatedAt,
		created.From.AccountAddress,
		created.From.Currency,
		created.To.AccountAddress,
		created.To.Currency,
		created.Amount.String(),
		settlementRef,
		string(created.State),
	)
	if err != nil {
		return nil, domain.StoreError("failed to create transfer", err)
	}

	return created, nil
}

// GetByID retrieves a transfer by its ID
func (r *transferRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM transfers WHERE id = $1`

	tx, err := scanTransfer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transfer not found for id %s: %w", id, domain.ErrNotFound)
		}
		return nil, domain.StoreError("failed to get transfer by ID", err)
	}

	return tx, nil
}

// Get retrieves all transfers matching the filter, oldest first
func (r *transferRepository) Get(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	query, args := buildTransferQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.StoreError("failed to query transfers", err)
	}
	defer rows.Close()

	var transfers []*domain.Transfer
	for rows.Next() {
		tx, err := scanTransfer(rows)
		if err != nil {
			return nil, domain.StoreError("failed to scan transfer", err)
		}
		transfers = append(transfers, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StoreError("failed to iterate transfers", err)
	}

	if len(transfers) == 0 {
		return nil, fmt.Errorf("no transfers found: %w", domain.ErrNotFound)
	}

	return transfers, nil
}

// CompareAndSet moves the transfer from expected to next in a single conditional UPDATE
func (r *transferRepository) CompareAndSet(ctx context.Context, id uuid.UUID, expected, next domain.TransferState) (*domain.Transfer, error) {
	query := `
		UPDATE transfers
		SET state = $3, updated_at = $4
		WHERE id = $1 AND state = $2
		RETURNING ` + transferColumns

	now := r.now().UTC().Truncate(time.Millisecond)
	tx, err := scanTransfer(r.db.QueryRowContext(ctx, query, id, string(expected), string(next), now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transfer %s is not in state %s: %w", id, expected, domain.ErrConcurrencyConflict)
		}
		return nil, domain.StoreError("failed to update transfer state", err)
	}

	return tx, nil
}

// buildTransferQuery renders the SELECT for a filter; address and currency match either side
func buildTransferQuery(filter domain.TransferFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Address != "" {
		args = append(args, filter.Address)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(from_address = $%d OR to_address = $%d)", n, n))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(from_currency = $%d OR to_currency = $%d)", n, n))
	}
	if filter.State != "" {
		args = append(args, string(filter.State))
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}

	query := `SELECT ` + transferColumns + ` FROM transfers`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, id`

	return query, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransfer(row rowScanner) (*domain.Transfer, error) {
	var (
		tx            domain.Transfer
		amountStr     string
		settlementRef sql.NullString
		state         string
	)

	err := row.Scan(
		&tx.ID,
		&tx.CreatedAt,
		&tx.UpdatedAt,
		&tx.From.AccountAddress,
		&tx.From.Currency,
		&tx.To.AccountAddress,
		&tx.To.Currency,
		&amountStr,
		&settlementRef,
		&state,
	)
	if err != nil {
		return nil, err
	}

	// Parse amount (NUMERIC)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	tx.Amount = amount

	if settlementRef.Valid {
		ref := settlementRef.String
		tx.SettlementRef = &ref
	}
	tx.State = domain.TransferState(state)
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()

	return &tx, nil
}
