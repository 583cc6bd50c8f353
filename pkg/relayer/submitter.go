package relayer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/ethereum"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// OutcomeKind classifies the result of a finalize attempt.
type OutcomeKind int

const (
	// OutcomeSuccess means the finalize transaction was mined with status OK.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeReverted means the contract rejected the finalize call.
	OutcomeReverted
	// OutcomeSubmissionFailed means no receipt was obtained.
	OutcomeSubmissionFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeReverted:
		return "reverted"
	case OutcomeSubmissionFailed:
		return "submission_failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one finalize attempt.
type Outcome struct {
	Kind        OutcomeKind
	Reason      string
	Err         error
	TxHash      common.Hash
	BlockNumber uint64
}

// SourceLedger is the source contract handle. It must be able to transact.
//
//go:generate mockery --name SourceLedger --output mocks --outpkg mocks --filename mock_source_ledger.go
type SourceLedger interface {
	GetTransferState(ctx context.Context, commitment transfer.Commitment) (transfer.State, error)
	FinaliseTransfer(ctx context.Context, commitment transfer.Commitment, preimage transfer.Preimage) (common.Hash, error)
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*ethereum.Receipt, error)
}

// Submitter sends finalize transactions on the source ledger and waits for
// their receipts.
type Submitter struct {
	source         SourceLedger
	retries        uint64
	receiptTimeout time.Duration
	newBackOff     func() backoff.BackOff
	logger         *zap.Logger
}

// NewSubmitter creates a submitter using the retry and receipt settings of the source ledger.
func NewSubmitter(source SourceLedger, cfg *config.LedgerConfig, logger *zap.Logger) *Submitter {
	return &Submitter{
		source:         source,
		retries:        cfg.Retries,
		receiptTimeout: cfg.ReceiptTimeout,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
		logger: logger,
	}
}

// Submit finalizes commitment with preimage and blocks until the transaction
// is mined or a terminal failure occurs. Send errors that are not contract
// reverts are retried.
func (s *Submitter) Submit(ctx context.Context, commitment transfer.Commitment, preimage transfer.Preimage) Outcome {
	var (
		txHash  common.Hash
		attempt int
	)

	send := func() error {
		attempt++
		hash, err := s.source.FinaliseTransfer(ctx, commitment, preimage)
		if err == nil {
			txHash = hash
			return nil
		}
		if ethereum.AsRevert(err) != nil || errors.Is(err, ethereum.ErrReadOnly) {
			return backoff.Permanent(err)
		}
		s.logger.Warn("Finalize submission failed",
			zap.String("commitment", commitment.Hex()),
			zap.Int("attempt", attempt),
			zap.Error(err))
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.retries), ctx)
	if err := backoff.Retry(send, policy); err != nil {
		if revert := ethereum.AsRevert(err); revert != nil {
			return Outcome{Kind: OutcomeReverted, Reason: revert.Reason, Err: err}
		}
		return Outcome{Kind: OutcomeSubmissionFailed, Reason: err.Error(), Err: err}
	}

	waitCtx := ctx
	if s.receiptTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.receiptTimeout)
		defer cancel()
	}

	receipt, err := s.source.WaitForReceipt(waitCtx, txHash)
	if err != nil {
		return Outcome{
			Kind:   OutcomeSubmissionFailed,
			Reason: err.Error(),
			Err:    err,
			TxHash: txHash,
		}
	}

	if !receipt.Succeeded {
		return Outcome{
			Kind:        OutcomeReverted,
			Reason:      receipt.RevertReason,
			TxHash:      txHash,
			BlockNumber: receipt.BlockNumber,
		}
	}

	return Outcome{
		Kind:        OutcomeSuccess,
		TxHash:      txHash,
		BlockNumber: receipt.BlockNumber,
	}
}
