package relayer

import (
	"encoding/binary"

	"github.com/chainsafe/htlc-relayer/pkg/transfer"
)

// ShouldProcess reports whether the replica at replicaOffset owns commitment
// when events are split across replicaCount uncoordinated relayers. It only
// spreads load. Double finalization is prevented by the source contract's
// OPEN check, never by this assignment.
func ShouldProcess(commitment transfer.Commitment, replicaCount, replicaOffset int) bool {
	if replicaCount <= 1 {
		return true
	}
	bucket := binary.BigEndian.Uint64(commitment[:8]) % uint64(replicaCount)
	return bucket == uint64(replicaOffset)
}
