package relayer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chainsafe/htlc-relayer/internal/metrics"
	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"go.uber.org/zap"
)

// ErrRangeHeld is returned by Tick when a submission failed and the
// hold policy keeps the cursor in place so the range is scanned again.
var ErrRangeHeld = errors.New("range held after submission failure")

// DestinationLedger is the read-only destination contract handle.
//
//go:generate mockery --name DestinationLedger --output mocks --outpkg mocks --filename mock_destination_ledger.go
type DestinationLedger interface {
	GetLatestBlockNumber(ctx context.Context) (uint64, error)
	FilterTransferCompleted(ctx context.Context, from, to uint64) ([]*transfer.CompletedEvent, error)
}

// State is the relay loop state.
type State int32

const (
	StateIdle State = iota
	StateScanning
)

func (s State) String() string {
	if s == StateScanning {
		return "scanning"
	}
	return "idle"
}

// Engine is the relay loop. Each tick scans the next confirmed destination
// range, reconciles its events against the source ledger and then advances
// the scan cursor.
type Engine struct {
	config      *config.Config
	destination DestinationLedger
	store       CursorStore
	reconciler  *Reconciler
	logger      *zap.Logger

	cursorMu sync.RWMutex
	cursor   *ScanCursor

	state atomic.Int32
	ready atomic.Bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewEngine creates a new relay engine. journal may be nil.
func NewEngine(
	cfg *config.Config,
	destination DestinationLedger,
	source SourceLedger,
	store CursorStore,
	journal Journal,
	logger *zap.Logger,
) (*Engine, error) {
	switch {
	case destination == nil:
		return nil, errors.New("destination ledger is required")
	case source == nil:
		return nil, errors.New("source ledger is required")
	case store == nil:
		return nil, errors.New("cursor store is required")
	}
	if cfg.Relayer.ReplicaCount > 1 &&
		(cfg.Relayer.ReplicaOffset < 0 || cfg.Relayer.ReplicaOffset >= cfg.Relayer.ReplicaCount) {
		return nil, fmt.Errorf("replica offset %d out of range for %d replicas",
			cfg.Relayer.ReplicaOffset, cfg.Relayer.ReplicaCount)
	}

	submitter := NewSubmitter(source, &cfg.Source, logger.Named("submitter"))
	reconciler := NewReconciler(source, submitter, journal, ReconcilerConfig{
		ReplicaCount:  cfg.Relayer.ReplicaCount,
		ReplicaOffset: cfg.Relayer.ReplicaOffset,
		Concurrency:   cfg.Relayer.MaxConcurrentEvents,
	}, logger.Named("reconciler"))

	return &Engine{
		config:      cfg,
		destination: destination,
		store:       store,
		reconciler:  reconciler,
		logger:      logger,
		stopCh:      make(chan struct{}),
	}, nil
}

// CursorKey is the store key of this relayer's cursor. Replicas with
// different IDs keep independent cursors.
func (e *Engine) CursorKey() string {
	return fmt.Sprintf("%s/%d", e.config.Relayer.ID, e.config.Destination.ChainID)
}

// Start loads the cursor, runs the first tick and keeps ticking on the
// polling interval until ctx is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Starting relayer engine",
		zap.String("cursor_key", e.CursorKey()),
		zap.Int("replica_count", e.config.Relayer.ReplicaCount),
		zap.Int("replica_offset", e.config.Relayer.ReplicaOffset),
		zap.String("on_submission_failure", e.config.Relayer.OnSubmissionFailure))

	if err := e.loadCursor(ctx); err != nil {
		return err
	}

	e.wg.Add(1)
	go e.run(ctx)

	e.logger.Info("Relayer engine started")
	return nil
}

// Stop stops the ticker loop and waits for a running tick to finish.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		e.logger.Info("Stopping relayer engine")
		close(e.stopCh)
	})
	e.wg.Wait()
	e.logger.Info("Relayer engine stopped")
}

// IsReady reports whether a tick has completed successfully.
func (e *Engine) IsReady() bool {
	return e.ready.Load()
}

// State returns whether a tick is in progress.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// LastBlockChecked returns the cursor position, or -1 before Start.
func (e *Engine) LastBlockChecked() int64 {
	e.cursorMu.RLock()
	defer e.cursorMu.RUnlock()
	if e.cursor == nil {
		return -1
	}
	return e.cursor.LastBlockChecked()
}

func (e *Engine) loadCursor(ctx context.Context) error {
	cursor, err := LoadScanCursor(ctx, e.store, e.CursorKey(), e.config.Relayer.StartBlock)
	if err != nil {
		return fmt.Errorf("failed to load scan cursor: %w", err)
	}

	e.cursorMu.Lock()
	e.cursor = cursor
	e.cursorMu.Unlock()

	metrics.LastScannedBlock.Set(float64(cursor.LastBlockChecked()))
	e.logger.Info("Loaded scan cursor", zap.Int64("last_block_checked", cursor.LastBlockChecked()))
	return nil
}

func (e *Engine) currentCursor(ctx context.Context) (*ScanCursor, error) {
	e.cursorMu.RLock()
	cursor := e.cursor
	e.cursorMu.RUnlock()
	if cursor != nil {
		return cursor, nil
	}

	if err := e.loadCursor(ctx); err != nil {
		return nil, err
	}
	e.cursorMu.RLock()
	defer e.cursorMu.RUnlock()
	return e.cursor, nil
}

func (e *Engine) run(ctx context.Context) {
	defer e.wg.Done()

	e.runTick(ctx)

	ticker := time.NewTicker(e.config.Relayer.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-e.stopCh:
			return
		case <-ticker.C:
			e.runTick(ctx)
		}
	}
}

func (e *Engine) runTick(ctx context.Context) {
	if err := e.Tick(ctx); err != nil {
		if errors.Is(err, ErrRangeHeld) {
			e.logger.Warn("Range held for rescan", zap.Error(err))
			return
		}
		e.logger.Error("Tick failed", zap.Error(err))
	}
}

// Tick runs one reconciliation pass. On error the cursor is left unchanged
// and the same range is requested again on the next tick.
func (e *Engine) Tick(ctx context.Context) error {
	cursor, err := e.currentCursor(ctx)
	if err != nil {
		return err
	}

	e.state.Store(int32(StateScanning))
	defer e.state.Store(int32(StateIdle))

	start := time.Now()
	result, err := e.tick(ctx, cursor)
	metrics.TickDuration.Observe(time.Since(start).Seconds())
	metrics.TicksTotal.WithLabelValues(result).Inc()

	if err == nil {
		e.ready.Store(true)
	}
	return err
}

func (e *Engine) tick(ctx context.Context, cursor *ScanCursor) (string, error) {
	head, err := e.destination.GetLatestBlockNumber(ctx)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("engine", "height_query").Inc()
		return "error", fmt.Errorf("failed to get destination height: %w", err)
	}

	last := cursor.LastBlockChecked()
	rng, ok := ComputeRange(int64(head), last, e.config.Destination.Confirmations)
	if !ok {
		e.logger.Debug("No confirmed blocks to scan",
			zap.Uint64("head", head),
			zap.Int64("last_block_checked", last),
			zap.Int64("confirmations", e.config.Destination.Confirmations))
		return "empty", nil
	}
	rng = rng.Cap(e.config.Relayer.MaxBlocksPerTick)

	events, err := e.destination.FilterTransferCompleted(ctx, uint64(rng.Start), uint64(rng.End))
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("engine", "range_query").Inc()
		return "error", fmt.Errorf("failed to fetch events for [%d, %d]: %w", rng.Start, rng.End, err)
	}
	metrics.EventsDetected.Add(float64(len(events)))

	summary, err := e.reconciler.Reconcile(ctx, events)
	if err != nil {
		return "error", fmt.Errorf("reconciling [%d, %d]: %w", rng.Start, rng.End, err)
	}

	if summary.Failed > 0 && e.config.Relayer.OnSubmissionFailure != config.SubmissionFailureAdvance {
		return "held", fmt.Errorf("%w: %d of %d events in [%d, %d]",
			ErrRangeHeld, summary.Failed, summary.Events, rng.Start, rng.End)
	}

	if err := cursor.Advance(ctx, rng.End); err != nil {
		metrics.ErrorsTotal.WithLabelValues("engine", "cursor").Inc()
		return "error", err
	}
	metrics.BlocksScanned.Add(float64(rng.Len()))
	metrics.LastScannedBlock.Set(float64(rng.End))

	e.logger.Info("Scanned range",
		zap.Int64("from_block", rng.Start),
		zap.Int64("to_block", rng.End),
		zap.Uint64("head", head),
		zap.Int("events", summary.Events),
		zap.Int("finalized", summary.Succeeded),
		zap.Int("reverted", summary.Reverted),
		zap.Int("not_open", summary.NotOpen),
		zap.Int("not_owned", summary.NotOwned),
		zap.Int("failed", summary.Failed))

	return "ok", nil
}
