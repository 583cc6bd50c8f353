package ethereum

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// errorStringData builds Error(string) revert data.
func errorStringData(t *testing.T, reason string) []byte {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return append(common.FromHex("0x08c379a0"), packed...)
}

func panicData(t *testing.T, code int64) []byte {
	t.Helper()
	uintType, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: uintType}}.Pack(big.NewInt(code))
	require.NoError(t, err)
	return append(common.FromHex("0x4e487b71"), packed...)
}

func TestDecodeRevertReason(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "empty", data: nil, want: "no revert data"},
		{name: "error string", data: errorStringData(t, "transfer not open"), want: "transfer not open"},
		{name: "custom error", data: common.FromHex("0xdeadbeef"), want: "0xdeadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeRevertReason(tt.data))
		})
	}
}

func TestDecodeRevertReason_Panic(t *testing.T) {
	reason := DecodeRevertReason(panicData(t, 0x11))
	assert.Contains(t, reason, "overflow")
}

func TestAsRevert(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, AsRevert(nil))
	})

	t.Run("data error", func(t *testing.T) {
		err := &dataError{msg: "execution reverted", data: "0x" + common.Bytes2Hex(errorStringData(t, "nope"))}
		revert := AsRevert(fmt.Errorf("estimate: %w", err))
		require.NotNil(t, revert)
		assert.Equal(t, "nope", revert.Reason)
		assert.NotEmpty(t, revert.Data)
		assert.ErrorIs(t, revert, err)
	})

	t.Run("message only", func(t *testing.T) {
		revert := AsRevert(errors.New("execution reverted"))
		require.NotNil(t, revert)
		assert.Empty(t, revert.Data)
	})

	t.Run("already a revert", func(t *testing.T) {
		original := &RevertError{Reason: "x"}
		assert.Same(t, original, AsRevert(fmt.Errorf("wrapped: %w", original)))
	})

	t.Run("transport error", func(t *testing.T) {
		assert.Nil(t, AsRevert(errors.New("connection reset by peer")))
	})

	t.Run("data error without data", func(t *testing.T) {
		assert.Nil(t, AsRevert(&dataError{msg: "nonce too low", data: nil}))
	})
}
