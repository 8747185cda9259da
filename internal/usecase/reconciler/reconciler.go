// Package reconciler repairs what interrupted transfers leave behind:
// transfers stuck in NEW or PENDING, and pending markers whose transfer has
// already reached a terminal state.
package reconciler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ColuLocalNetwork/inventory-manager/internal/domain"
	"github.com/ColuLocalNetwork/inventory-manager/internal/observability"
	"github.com/ColuLocalNetwork/inventory-manager/internal/usecase/transfer"
)

const (
	defaultInterval    = 30 * time.Second
	defaultGracePeriod = time.Minute
)

// Config controls how often the reconciler sweeps and how old a transfer
// must be before it is considered abandoned
type Config struct {
	Interval    time.Duration
	GracePeriod time.Duration
}

// SweepReport summarizes one sweep
type SweepReport struct {
	Resumed        int
	ResumeFailed   int
	MarkersCleared int64
	MarkersKept    int
}

// Reconciler resumes abandoned transfers and clears orphaned markers
type Reconciler struct {
	Transfers *transfer.TransferService
	Logger    *zap.Logger
	Metrics   *observability.ReconcilerMetrics

	cfg Config
	now func() time.Time
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(
	transfers *transfer.TransferService,
	cfg Config,
	logger *zap.Logger,
	metrics *observability.ReconcilerMetrics,
) *Reconciler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaultGracePeriod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NopReconcilerMetrics()
	}
	return &Reconciler{
		Transfers: transfers,
		Logger:    logger,
		Metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Run sweeps once immediately and then on every interval until ctx is done
func (r *Reconciler) Run(ctx context.Context) error {
	r.Logger.Info("reconciler started", zap.Duration("interval", r.cfg.Interval))
	defer r.Logger.Info("reconciler stopped")

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		report, err := r.Sweep(ctx)
		if err != nil && ctx.Err() == nil {
			r.Logger.Error("reconciler sweep failed", zap.Error(err))
		} else if report.Resumed+report.ResumeFailed > 0 || report.MarkersCleared > 0 {
			r.Logger.Info("reconciler sweep finished",
				zap.Int("resumed", report.Resumed),
				zap.Int("resume_failed", report.ResumeFailed),
				zap.Int64("markers_cleared", report.MarkersCleared),
				zap.Int("markers_kept", report.MarkersKept),
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Sweep runs one reconciliation pass
// Logic:
//  1. Resume every NEW or PENDING transfer not updated within the grace period
//  2. For every marker left on a wallet, look up its transfer
//  3. Unregister the marker when the transfer is terminal; keep it otherwise
//
// Markers of unknown transfers are kept: the transfer record may not be
// visible yet, and a marker never moves funds by itself.
func (r *Reconciler) Sweep(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	// 1. Abandoned transfers
	cutoff := r.now().Add(-r.cfg.GracePeriod)
	for _, state := range []domain.TransferState{domain.TransferStateNew, domain.TransferStatePending} {
		stale, err := r.Transfers.Get(ctx, domain.TransferFilter{State: state})
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return report, err
		}

		for _, tx := range stale {
			if tx.UpdatedAt.After(cutoff) {
				continue
			}
			if _, err := r.Transfers.Resume(ctx, tx.ID); err != nil {
				if errors.Is(err, domain.ErrConcurrencyConflict) {
					// Someone else moved it along
					continue
				}
				report.ResumeFailed++
				r.Logger.Warn("failed to resume transfer", zap.String("transfer_id", tx.ID.String()), zap.Error(err))
				continue
			}
			report.Resumed++
			r.Metrics.Resumed.Inc()
		}
	}

	// 2. Orphaned markers
	wallets, err := r.Transfers.WalletRepo.ListWithPending(ctx)
	if err != nil {
		return report, err
	}

	states := make(map[string]domain.TransferState)
	for _, w := range wallets {
		for _, b := range w.Balances {
			for _, txID := range b.PendingTxs {
				state, err := r.lookupState(ctx, states, txID)
				if err != nil {
					return report, err
				}
				if !state.IsTerminal() {
					report.MarkersKept++
					continue
				}

				// 3. Terminal transfer, the marker is orphaned
				res, err := r.Transfers.WalletRepo.Apply(ctx, domain.UnregisterPending(w.Address, b.Currency, txID))
				if err != nil {
					return report, err
				}
				if res.Modified > 0 {
					report.MarkersCleared += res.Modified
					r.Metrics.MarkersCleared.Add(float64(res.Modified))
					r.Logger.Info("cleared orphaned pending marker",
						zap.String("address", w.Address),
						zap.String("currency", b.Currency),
						zap.String("transfer_id", txID),
						zap.String("state", string(state)),
					)
				}
			}
		}
	}

	return report, nil
}

// lookupState returns the state of the transfer behind a marker, or "" if it is unknown
func (r *Reconciler) lookupState(ctx context.Context, cache map[string]domain.TransferState, txID string) (domain.TransferState, error) {
	if state, ok := cache[txID]; ok {
		return state, nil
	}

	var state domain.TransferState
	id, err := uuid.Parse(txID)
	if err == nil {
		tx, err := r.Transfers.GetByID(ctx, id)
		switch {
		case err == nil:
			state = tx.State
		case !errors.Is(err, domain.ErrNotFound):
			return "", err
		}
	}

	cache[txID] = state
	return state, nil
}
