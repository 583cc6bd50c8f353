package relayer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chainsafe/htlc-relayer/internal/metrics"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StateReader reads source-side transfer state.
type StateReader interface {
	GetTransferState(ctx context.Context, commitment transfer.Commitment) (transfer.State, error)
}

// Finalizer submits a finalization and reports how it ended.
//
//go:generate mockery --name Finalizer --output mocks --outpkg mocks --filename mock_finalizer.go
type Finalizer interface {
	Submit(ctx context.Context, commitment transfer.Commitment, preimage transfer.Preimage) Outcome
}

// Journal records finalization attempts.
//
//go:generate mockery --name Journal --output mocks --outpkg mocks --filename mock_journal.go
type Journal interface {
	RecordFinalization(ctx context.Context, rec *transfer.Finalization) error
}

// Summary counts what happened to the events of one range.
type Summary struct {
	Events     int
	Duplicates int
	NotOwned   int
	NotOpen    int
	Succeeded  int
	Reverted   int
	Failed     int
}

// Reconciler decides, per completed event, whether the source transfer still
// needs finalizing and hands it to the finalizer when it does.
type Reconciler struct {
	source        StateReader
	finalizer     Finalizer
	journal       Journal
	replicaCount  int
	replicaOffset int
	concurrency   int
	logger        *zap.Logger
}

// ReconcilerConfig holds the tunables of a Reconciler.
type ReconcilerConfig struct {
	ReplicaCount  int
	ReplicaOffset int
	Concurrency   int
}

// NewReconciler creates a reconciler. journal may be nil.
func NewReconciler(
	source StateReader,
	finalizer Finalizer,
	journal Journal,
	cfg ReconcilerConfig,
	logger *zap.Logger,
) *Reconciler {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Reconciler{
		source:        source,
		finalizer:     finalizer,
		journal:       journal,
		replicaCount:  cfg.ReplicaCount,
		replicaOffset: cfg.ReplicaOffset,
		concurrency:   concurrency,
		logger:        logger,
	}
}

type eventResult int

const (
	resultNotOwned eventResult = iota
	resultNotOpen
	resultSucceeded
	resultReverted
	resultFailed
)

// Reconcile processes every event of a range and returns once all of them
// are done. A failed state read is returned as an error after the other
// events finish, and the caller must not treat the range as processed.
func (r *Reconciler) Reconcile(ctx context.Context, events []*transfer.CompletedEvent) (Summary, error) {
	var (
		mu      sync.Mutex
		summary = Summary{Events: len(events)}
		seen    = make(map[transfer.Commitment]struct{}, len(events))
	)

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)

	for _, ev := range events {
		if _, dup := seen[ev.Commitment]; dup {
			summary.Duplicates++
			r.logger.Debug("Duplicate commitment in range, skipping",
				zap.String("commitment", ev.Commitment.Hex()),
				zap.Uint64("block", ev.BlockNumber))
			continue
		}
		seen[ev.Commitment] = struct{}{}

		g.Go(func() error {
			result, err := r.reconcileEvent(ctx, ev)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			switch result {
			case resultNotOwned:
				summary.NotOwned++
			case resultNotOpen:
				summary.NotOpen++
			case resultSucceeded:
				summary.Succeeded++
			case resultReverted:
				summary.Reverted++
			case resultFailed:
				summary.Failed++
			}
			return nil
		})
	}

	err := g.Wait()
	return summary, err
}

func (r *Reconciler) reconcileEvent(ctx context.Context, ev *transfer.CompletedEvent) (eventResult, error) {
	logger := r.logger.With(
		zap.String("commitment", ev.Commitment.Hex()),
		zap.Uint64("dest_block", ev.BlockNumber),
		zap.String("dest_tx_hash", ev.TxHash.Hex()))

	if !ShouldProcess(ev.Commitment, r.replicaCount, r.replicaOffset) {
		metrics.EventsSkipped.WithLabelValues("not_owned").Inc()
		logger.Debug("Commitment assigned to another replica")
		return resultNotOwned, nil
	}

	state, err := r.source.GetTransferState(ctx, ev.Commitment)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("reconciler", "state_read").Inc()
		return 0, fmt.Errorf("failed to read source state for %s: %w", ev.Commitment.Hex(), err)
	}

	if !state.IsOpen() {
		metrics.EventsSkipped.WithLabelValues("not_open").Inc()
		logger.Info("Source transfer not open, skipping", zap.String("state", state.String()))
		return resultNotOpen, nil
	}

	logger.Info("Finalizing source transfer")
	outcome := r.finalizer.Submit(ctx, ev.Commitment, ev.Preimage)
	metrics.Finalizations.WithLabelValues(outcome.Kind.String()).Inc()
	r.record(ctx, logger, ev, outcome)

	switch outcome.Kind {
	case OutcomeSuccess:
		logger.Info("Source transfer finalized",
			zap.String("tx_hash", outcome.TxHash.Hex()),
			zap.Uint64("block", outcome.BlockNumber))
		return resultSucceeded, nil
	case OutcomeReverted:
		logger.Info("Finalize reverted, treating transfer as resolved",
			zap.String("reason", outcome.Reason),
			zap.String("tx_hash", outcome.TxHash.Hex()))
		return resultReverted, nil
	default:
		metrics.ErrorsTotal.WithLabelValues("submitter", "submission").Inc()
		logger.Error("Finalize submission failed",
			zap.String("tx_hash", outcome.TxHash.Hex()),
			zap.Error(outcome.Err))
		return resultFailed, nil
	}
}

func (r *Reconciler) record(ctx context.Context, logger *zap.Logger, ev *transfer.CompletedEvent, outcome Outcome) {
	if r.journal == nil {
		return
	}

	rec := &transfer.Finalization{
		ID:         uuid.NewString(),
		Commitment: ev.Commitment,
		Preimage:   ev.Preimage,
		Outcome:    outcome.Kind.String(),
		Reason:     outcome.Reason,
		DestBlock:  ev.BlockNumber,
		DestTxHash: ev.TxHash.Hex(),
		CreatedAt:  time.Now().UTC(),
	}
	if outcome.TxHash != (common.Hash{}) {
		rec.TxHash = outcome.TxHash.Hex()
	}

	if err := r.journal.RecordFinalization(ctx, rec); err != nil {
		metrics.ErrorsTotal.WithLabelValues("journal", "write").Inc()
		logger.Warn("Failed to record finalization", zap.Error(err))
	}
}
