package contracts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// HTLCTransferABI is the subset of the ERC20 HTLC transfer contract ABI used by the relayer.
const HTLCTransferABI = `[
	{"inputs":[{"internalType":"bytes32","name":"_commitment","type":"bytes32"}],"name":"sourceTransferState","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"bytes32","name":"_commitment","type":"bytes32"},{"internalType":"bytes32","name":"_preimage","type":"bytes32"}],"name":"finaliseTransferToOtherBlockchain","outputs":[],"stateMutability":"nonpayable","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":false,"internalType":"bytes32","name":"commitment","type":"bytes32"},{"indexed":false,"internalType":"bytes32","name":"preimage","type":"bytes32"}],"name":"DestTransferCompleted","type":"event"}
]`

const (
	methodSourceTransferState = "sourceTransferState"
	methodFinalise            = "finaliseTransferToOtherBlockchain"
	eventDestTransferComplete = "DestTransferCompleted"
)

// HTLCTransferDestTransferCompleted represents a DestTransferCompleted event raised by the HTLCTransfer contract.
type HTLCTransferDestTransferCompleted struct {
	Commitment [32]byte
	Preimage   [32]byte
	Raw        types.Log
}

// HTLCTransfer is a binding around the HTLC transfer contract.
type HTLCTransfer struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
}

// NewHTLCTransfer creates a binding bound to a deployed contract.
func NewHTLCTransfer(address common.Address, backend bind.ContractBackend) (*HTLCTransfer, error) {
	parsed, err := abi.JSON(strings.NewReader(HTLCTransferABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTLC transfer ABI: %w", err)
	}
	return &HTLCTransfer{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Address returns the contract address.
func (h *HTLCTransfer) Address() common.Address {
	return h.address
}

// SourceTransferState is a free data retrieval call binding the contract method 0x... sourceTransferState(bytes32).
func (h *HTLCTransfer) SourceTransferState(opts *bind.CallOpts, commitment [32]byte) (*big.Int, error) {
	var out []interface{}
	if err := h.contract.Call(opts, &out, methodSourceTransferState, commitment); err != nil {
		return nil, err
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: expected 1 output, got %d", methodSourceTransferState, len(out))
	}
	state, ok := abi.ConvertType(out[0], new(big.Int)).(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected output type %T", methodSourceTransferState, out[0])
	}
	return state, nil
}

// FinaliseTransferToOtherBlockchain is a paid mutator transaction binding
// finaliseTransferToOtherBlockchain(bytes32,bytes32).
func (h *HTLCTransfer) FinaliseTransferToOtherBlockchain(
	opts *bind.TransactOpts,
	commitment [32]byte,
	preimage [32]byte,
) (*types.Transaction, error) {
	return h.contract.Transact(opts, methodFinalise, commitment, preimage)
}

// DestTransferCompletedTopic returns the topic0 of DestTransferCompleted logs.
func (h *HTLCTransfer) DestTransferCompletedTopic() common.Hash {
	return h.abi.Events[eventDestTransferComplete].ID
}

// ParseDestTransferCompleted decodes a DestTransferCompleted log.
func (h *HTLCTransfer) ParseDestTransferCompleted(log types.Log) (*HTLCTransferDestTransferCompleted, error) {
	event := new(HTLCTransferDestTransferCompleted)
	if err := h.contract.UnpackLog(event, eventDestTransferComplete, log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}

// PackFinalise returns the calldata of a finalize call, used to replay a reverted transaction.
func (h *HTLCTransfer) PackFinalise(commitment [32]byte, preimage [32]byte) ([]byte, error) {
	return h.abi.Pack(methodFinalise, commitment, preimage)
}
