// Package transfer holds the cross-chain HTLC transfer types shared by the
// ledger clients, the relayer core and the persistence layer.
package transfer

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Commitment identifies one cross-chain transfer on both ledgers.
type Commitment [32]byte

// Hex returns the 0x-prefixed hex encoding of the commitment.
func (c Commitment) Hex() string {
	return hexutil.Encode(c[:])
}

func (c Commitment) String() string {
	return c.Hex()
}

// CommitmentFromHex parses a 0x-prefixed (or bare) 32-byte hex string.
func CommitmentFromHex(s string) (Commitment, error) {
	b, err := bytes32FromHex("commitment", s)
	return Commitment(b), err
}

func bytes32FromHex(kind, s string) ([32]byte, error) {
	var out [32]byte
	b := common.FromHex(s)
	if len(b) != len(out) {
		return out, fmt.Errorf("invalid %s %q: expected 32 bytes, got %d", kind, s, len(b))
	}
	copy(out[:], b)
	return out, nil
}

// Preimage is the secret that unlocks the source-side lock.
type Preimage [32]byte

// Hex returns the 0x-prefixed hex encoding of the preimage.
func (p Preimage) Hex() string {
	return hexutil.Encode(p[:])
}

// PreimageFromHex parses a 0x-prefixed (or bare) 32-byte hex string.
func PreimageFromHex(s string) (Preimage, error) {
	b, err := bytes32FromHex("preimage", s)
	return Preimage(b), err
}

// State is the source-side transfer state as reported by the HTLC contract.
type State uint64

const (
	StateNone      State = 0
	StateOpen      State = 1
	StateFinalized State = 2
	StateRefunded  State = 3
)

// StateFromBig converts the uint256 returned by the contract.
// Values that do not fit in 64 bits are mapped to a state that is never OPEN.
func StateFromBig(v *big.Int) State {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return State(^uint64(0))
	}
	return State(v.Uint64())
}

// IsOpen reports whether the transfer is still eligible for finalization.
func (s State) IsOpen() bool {
	return s == StateOpen
}

func (s State) String() string {
	switch s {
	case StateNone:
		return "NONE"
	case StateOpen:
		return "OPEN"
	case StateFinalized:
		return "FINALIZED"
	case StateRefunded:
		return "REFUNDED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint64(s))
	}
}

// CompletedEvent is a "transfer completed" log emitted by the destination contract.
type CompletedEvent struct {
	Commitment  Commitment
	Preimage    Preimage
	BlockNumber uint64
	TxHash      common.Hash
	LogIndex    uint
}

// Finalization is the journal entry written for every finalize attempt.
type Finalization struct {
	ID         string
	Commitment Commitment
	Preimage   Preimage
	Outcome    string
	Reason     string
	TxHash     string
	DestBlock  uint64
	DestTxHash string
	CreatedAt  time.Time
}
