package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
	"github.com/ColuLocalNetwork/inventory-manager/internal/observability"
)

// CreateTransferInput represents the input for creating a transfer
type CreateTransferInput struct {
	From   domain.Participant
	To     domain.Participant
	Amount decimal.Decimal
}

// TransferService drives transfers through their lifecycle:
// NEW -> PENDING -> DONE | CANCELED.
//
// There is no cross-document transaction between the transfer record and the
// two wallet balances. Every step is either idempotent or resumable from the
// persisted transfer state, so a failed call leaves a well-formed transfer
// that Resume can pick up.
type TransferService struct {
	TransferRepo domain.TransferRepository
	WalletRepo   domain.WalletRepository
	Logger       *zap.Logger
	Metrics      *observability.TransferMetrics
}

// NewTransferService creates a new TransferService instance
func NewTransferService(
	transferRepo domain.TransferRepository,
	walletRepo domain.WalletRepository,
	logger *zap.Logger,
	metrics *observability.TransferMetrics,
) *TransferService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NopTransferMetrics()
	}
	return &TransferService{
		TransferRepo: transferRepo,
		WalletRepo:   walletRepo,
		Logger:       logger,
		Metrics:      metrics,
	}
}

// Create persists a NEW transfer and synchronously drives it to a terminal state
// Logic:
//  1. Insert the transfer (state NEW)
//  2. ProcessNew: register pending markers on both sides, CAS NEW -> PENDING
//  3. ProcessPending: conditional debit, then credit + DONE, or CANCELED + marker cleanup
//
// The first failure is returned as is; the persisted state tells a resuming
// caller which step to redo.
func (s *TransferService) Create(ctx context.Context, input CreateTransferInput) (*domain.Transfer, error) {
	// 1. Insert
	tx, err := s.TransferRepo.Create(ctx, &domain.Transfer{
		From:   input.From,
		To:     input.To,
		Amount: input.Amount,
	})
	if err != nil {
		s.Metrics.Failed.Inc()
		return nil, err
	}
	s.Metrics.Created.Inc()
	s.Logger.Debug("transfer created", transferFields(tx)...)

	// 2. Register pending markers
	tx, err = s.ProcessNew(ctx, tx)
	if err != nil {
		return nil, err
	}

	// 3. Resolve
	return s.ProcessPending(ctx, tx)
}

// ProcessNew registers the transfer as pending on both balances and moves it to PENDING.
// Markers registered before a failed CAS are left in place: registration is
// idempotent, so a retry will not duplicate them.
func (s *TransferService) ProcessNew(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	if tx.State != domain.TransferStateNew {
		return nil, illegalState("ProcessNew", tx, domain.TransferStateNew)
	}

	if _, err := s.WalletRepo.Apply(ctx, domain.RegisterPendingBatch(tx)...); err != nil {
		return nil, s.fail(tx, "failed to register pending markers", err)
	}

	return s.transition(ctx, tx, domain.TransferStatePending)
}

// ProcessPending resolves a PENDING transfer.
// A debit that modifies nothing is not an error. While the sender still lists
// the marker the balance did not cover the amount, and the transfer is
// canceled. Once the marker is gone an earlier attempt already debited the
// sender, so the credit is retried and the transfer completes.
func (s *TransferService) ProcessPending(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	if tx.State != domain.TransferStatePending {
		return nil, illegalState("ProcessPending", tx, domain.TransferStatePending)
	}

	res, err := s.WalletRepo.Apply(ctx, domain.DebitOp(tx))
	if err != nil {
		return nil, s.fail(tx, "failed to debit sender", err)
	}

	if res.Modified == 0 {
		debited, err := s.senderDebited(ctx, tx)
		if err != nil {
			return nil, s.fail(tx, "failed to read sender balance", err)
		}
		if !debited {
			s.Logger.Info("debit not applied, canceling transfer", transferFields(tx)...)
			return s.Cancel(ctx, tx)
		}
		s.Logger.Info("sender already debited, continuing with the credit", transferFields(tx)...)
	}

	res, err = s.WalletRepo.Apply(ctx, domain.CreditOp(tx))
	if err != nil {
		return nil, s.fail(tx, "failed to credit receiver", err)
	}
	if res.Modified == 0 {
		// Receiver marker already cleared by an earlier attempt
		s.Logger.Warn("credit not applied, receiver marker missing", transferFields(tx)...)
	}

	done, err := s.transition(ctx, tx, domain.TransferStateDone)
	if err != nil {
		return nil, err
	}
	s.Metrics.Done.Inc()
	return done, nil
}

// Cancel moves the transfer to CANCELED, then clears both pending markers
// without touching amounts.
// Markers are only removed once the transfer is terminal, so a PENDING
// transfer whose sender marker is gone has always been debited. Markers left
// behind by a failed cleanup belong to a CANCELED transfer and are cleared
// by the reconciler.
func (s *TransferService) Cancel(ctx context.Context, tx *domain.Transfer) (*domain.Transfer, error) {
	if tx.State != domain.TransferStatePending {
		return nil, illegalState("Cancel", tx, domain.TransferStatePending)
	}

	canceled, err := s.transition(ctx, tx, domain.TransferStateCanceled)
	if err != nil {
		return nil, err
	}
	s.Metrics.Canceled.Inc()

	if _, err := s.WalletRepo.Apply(ctx, domain.CancelBatch(tx)...); err != nil {
		s.Metrics.Failed.Inc()
		s.Logger.Warn("failed to unregister pending markers of canceled transfer",
			append(transferFields(canceled), zap.Error(err))...)
	}
	return canceled, nil
}

// Resume reloads a transfer and continues its lifecycle from the persisted state.
// Terminal transfers are returned unchanged.
func (s *TransferService) Resume(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	tx, err := s.TransferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch tx.State {
	case domain.TransferStateNew:
		s.Logger.Info("resuming NEW transfer", transferFields(tx)...)
		tx, err = s.ProcessNew(ctx, tx)
		if err != nil {
			return nil, err
		}
		return s.ProcessPending(ctx, tx)
	case domain.TransferStatePending:
		s.Logger.Info("resuming PENDING transfer", transferFields(tx)...)
		return s.ProcessPending(ctx, tx)
	default:
		return tx, nil
	}
}

// GetByID retrieves a transfer by its ID
func (s *TransferService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transfer, error) {
	return s.TransferRepo.GetByID(ctx, id)
}

// Get retrieves the transfers matching the filter
// Returns domain.ErrNotFound when nothing matches
func (s *TransferService) Get(ctx context.Context, filter domain.TransferFilter) ([]*domain.Transfer, error) {
	if filter.State != "" && !filter.State.IsValid() {
		return nil, fmt.Errorf("%w: unknown state %s", domain.ErrValidation, filter.State)
	}
	return s.TransferRepo.Get(ctx, filter)
}

// transition applies the CAS from the transfer's current state to next
func (s *TransferService) transition(ctx context.Context, tx *domain.Transfer, next domain.TransferState) (*domain.Transfer, error) {
	if !tx.State.CanTransitionTo(next) {
		return nil, illegalState("transition to "+string(next), tx, next)
	}

	updated, err := s.TransferRepo.CompareAndSet(ctx, tx.ID, tx.State, next)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			s.Metrics.Conflicts.Inc()
			s.Logger.Warn("transfer state changed concurrently",
				append(transferFields(tx), zap.String("next_state", string(next)))...)
			return nil, err
		}
		return nil, s.fail(tx, "failed to update transfer state", err)
	}

	s.Logger.Debug("transfer state updated", transferFields(updated)...)
	return updated, nil
}

// senderDebited reports whether the sender balance no longer lists tx as pending
func (s *TransferService) senderDebited(ctx context.Context, tx *domain.Transfer) (bool, error) {
	w, err := s.WalletRepo.Get(ctx, tx.From.AccountAddress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	b := w.Balance(tx.From.Currency)
	return b != nil && !b.HasPending(tx.ID.String()), nil
}

func (s *TransferService) fail(tx *domain.Transfer, msg string, err error) error {
	s.Metrics.Failed.Inc()
	s.Logger.Error(msg, append(transferFields(tx), zap.Error(err))...)
	return fmt.Errorf("%s for transfer %s: %w", msg, tx.ID, err)
}

func illegalState(op string, tx *domain.Transfer, want domain.TransferState) error {
	return fmt.Errorf("%w: %s on transfer %s in state %s, should be %s",
		domain.ErrIllegalState, op, tx.ID, tx.State, want)
}

func transferFields(tx *domain.Transfer) []zap.Field {
	return []zap.Field{
		zap.String("transfer_id", tx.ID.String()),
		zap.String("state", string(tx.State)),
		zap.String("from", tx.From.AccountAddress),
		zap.String("to", tx.To.AccountAddress),
		zap.String("amount", tx.Amount.String()),
	}
}
