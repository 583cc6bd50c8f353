package ethereum

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// RevertError is returned when the contract rejects a call, either during
// gas estimation or when the mined transaction failed.
type RevertError struct {
	Reason string
	Data   []byte
	Err    error
}

func (e *RevertError) Error() string {
	return fmt.Sprintf("execution reverted: %s", e.Reason)
}

func (e *RevertError) Unwrap() error {
	return e.Err
}

// DecodeRevertReason renders revert data as a readable reason. Error(string)
// and Panic(uint256) payloads are decoded; custom errors are returned as hex.
func DecodeRevertReason(data []byte) string {
	if len(data) == 0 {
		return "no revert data"
	}
	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}
	return hexutil.Encode(data)
}

// AsRevert classifies an RPC error as a contract revert. It returns nil for
// transport and node errors.
func AsRevert(err error) *RevertError {
	if err == nil {
		return nil
	}

	var revert *RevertError
	if errors.As(err, &revert) {
		return revert
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertData(dataErr.ErrorData()); ok {
			return &RevertError{Reason: DecodeRevertReason(data), Data: data, Err: err}
		}
	}

	if strings.Contains(err.Error(), "execution reverted") {
		return &RevertError{Reason: err.Error(), Err: err}
	}
	return nil
}

func revertData(raw interface{}) ([]byte, bool) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, false
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, false
	}
	return data, true
}
