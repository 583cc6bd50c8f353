package ethereum

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var (
	testContract = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	completedID  = crypto.Keccak256Hash([]byte("DestTransferCompleted(bytes32,bytes32)"))
)

type fakeBackend struct {
	Backend

	chainID  int64
	head     uint64
	logs     []types.Log
	callOut  []byte
	callErr  error
	estimate uint64
	estErr   error
	pending  uint64
	sent     []*types.Transaction
	receipts []*types.Receipt
	txByHash *types.Transaction
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return big.NewInt(f.chainID), nil }
func (f *fakeBackend) BlockNumber(context.Context) (uint64, error) { return f.head, nil }
func (f *fakeBackend) Close()                                      {}

func (f *fakeBackend) FilterLogs(context.Context, geth.FilterQuery) ([]types.Log, error) {
	return f.logs, nil
}

func (f *fakeBackend) CallContract(context.Context, geth.CallMsg, *big.Int) ([]byte, error) {
	return f.callOut, f.callErr
}

func (f *fakeBackend) EstimateGas(context.Context, geth.CallMsg) (uint64, error) {
	return f.estimate, f.estErr
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.pending, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	if len(f.receipts) == 0 {
		return nil, geth.NotFound
	}
	r := f.receipts[0]
	f.receipts = f.receipts[1:]
	if r == nil {
		return nil, geth.NotFound
	}
	return r, nil
}

func (f *fakeBackend) TransactionByHash(context.Context, common.Hash) (*types.Transaction, bool, error) {
	return f.txByHash, false, nil
}

type dataError struct {
	msg  string
	data interface{}
}

func (e *dataError) Error() string          { return e.msg }
func (e *dataError) ErrorData() interface{} { return e.data }

func testLedgerConfig() *config.LedgerConfig {
	return &config.LedgerConfig{
		RPCURL:          "http://localhost:8545",
		ChainID:         31337,
		ContractAddress: testContract.Hex(),
		BlockPeriod:     10 * time.Millisecond,
		Gas:             config.GasConfig{Kind: config.GasStrategyNode, Limit: 200_000},
	}
}

func newTestClient(t *testing.T, backend *fakeBackend, key string) *Client {
	t.Helper()
	c, err := NewClientWithBackend(context.Background(), testLedgerConfig(), backend, key, zap.NewNop())
	require.NoError(t, err)
	return c
}

func completedLog(block uint64, index uint, commitment, preimage byte) types.Log {
	data := append(common.LeftPadBytes([]byte{commitment}, 32), common.LeftPadBytes([]byte{preimage}, 32)...)
	return types.Log{
		Address:     testContract,
		Topics:      []common.Hash{completedID},
		Data:        data,
		BlockNumber: block,
		Index:       index,
		TxHash:      common.BytesToHash([]byte{commitment}),
	}
}

func TestNewClient_ChainIDMismatch(t *testing.T) {
	_, err := NewClientWithBackend(context.Background(), testLedgerConfig(), &fakeBackend{chainID: 1}, "", zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChainIDMismatch))
}

func TestNewClient_InvalidKey(t *testing.T) {
	_, err := NewClientWithBackend(context.Background(), testLedgerConfig(), &fakeBackend{chainID: 31337}, "zz", zap.NewNop())
	assert.Error(t, err)
}

func TestFilterTransferCompleted_OrdersAndDecodes(t *testing.T) {
	removed := completedLog(9, 0, 0x09, 0x99)
	removed.Removed = true

	backend := &fakeBackend{
		chainID: 31337,
		logs: []types.Log{
			completedLog(12, 3, 0x03, 0x33),
			completedLog(10, 7, 0x02, 0x22),
			removed,
			completedLog(10, 1, 0x01, 0x11),
		},
	}
	c := newTestClient(t, backend, "")

	events, err := c.FilterTransferCompleted(context.Background(), 10, 12)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, byte(0x01), events[0].Commitment[31])
	assert.Equal(t, byte(0x11), events[0].Preimage[31])
	assert.Equal(t, uint64(10), events[0].BlockNumber)
	assert.Equal(t, uint(1), events[0].LogIndex)
	assert.Equal(t, byte(0x02), events[1].Commitment[31])
	assert.Equal(t, byte(0x03), events[2].Commitment[31])
	assert.Equal(t, uint64(12), events[2].BlockNumber)
}

func TestFilterTransferCompleted_DecodeError(t *testing.T) {
	bad := completedLog(10, 0, 0x01, 0x11)
	bad.Data = bad.Data[:10]

	c := newTestClient(t, &fakeBackend{chainID: 31337, logs: []types.Log{bad}}, "")
	_, err := c.FilterTransferCompleted(context.Background(), 10, 10)
	assert.Error(t, err)
}

func TestGetTransferState(t *testing.T) {
	backend := &fakeBackend{chainID: 31337, callOut: common.LeftPadBytes([]byte{1}, 32)}
	c := newTestClient(t, backend, "")

	state, err := c.GetTransferState(context.Background(), transfer.Commitment{0x01})
	require.NoError(t, err)
	assert.Equal(t, transfer.StateOpen, state)

	backend.callErr = errors.New("connection refused")
	_, err = c.GetTransferState(context.Background(), transfer.Commitment{0x01})
	assert.Error(t, err)
}

func TestFinaliseTransfer_ReadOnly(t *testing.T) {
	c := newTestClient(t, &fakeBackend{chainID: 31337}, "")
	_, err := c.FinaliseTransfer(context.Background(), transfer.Commitment{}, transfer.Preimage{})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestFinaliseTransfer_EstimationRevert(t *testing.T) {
	backend := &fakeBackend{
		chainID: 31337,
		estErr:  &dataError{msg: "execution reverted", data: "0x" + common.Bytes2Hex(errorStringData(t, "not open"))},
	}
	c := newTestClient(t, backend, testKey)

	_, err := c.FinaliseTransfer(context.Background(), transfer.Commitment{0x01}, transfer.Preimage{0x02})
	require.Error(t, err)

	var revert *RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "not open", revert.Reason)
	assert.Empty(t, backend.sent)
}

func TestFinaliseTransfer_EstimationTransportError(t *testing.T) {
	backend := &fakeBackend{chainID: 31337, estErr: errors.New("dial tcp: i/o timeout")}
	c := newTestClient(t, backend, testKey)

	_, err := c.FinaliseTransfer(context.Background(), transfer.Commitment{0x01}, transfer.Preimage{0x02})
	require.Error(t, err)
	assert.Nil(t, AsRevert(err))
}

func TestFinaliseTransfer_SendsWithLocalNonce(t *testing.T) {
	backend := &fakeBackend{chainID: 31337, estimate: 50_000, pending: 5}
	c := newTestClient(t, backend, testKey)

	first, err := c.FinaliseTransfer(context.Background(), transfer.Commitment{0x01}, transfer.Preimage{0x02})
	require.NoError(t, err)
	second, err := c.FinaliseTransfer(context.Background(), transfer.Commitment{0x03}, transfer.Preimage{0x04})
	require.NoError(t, err)

	require.Len(t, backend.sent, 2)
	assert.Equal(t, first, backend.sent[0].Hash())
	assert.Equal(t, second, backend.sent[1].Hash())
	assert.Equal(t, uint64(5), backend.sent[0].Nonce())
	assert.Equal(t, uint64(6), backend.sent[1].Nonce())
	assert.Equal(t, uint64(200_000), backend.sent[0].Gas())
	assert.Equal(t, testContract, *backend.sent[0].To())
}

func TestWaitForReceipt_Success(t *testing.T) {
	hash := common.HexToHash("0xabc")
	backend := &fakeBackend{
		chainID: 31337,
		receipts: []*types.Receipt{nil, {
			TxHash:      hash,
			Status:      types.ReceiptStatusSuccessful,
			BlockNumber: big.NewInt(42),
			GasUsed:     21_000,
		}},
	}
	c := newTestClient(t, backend, "")

	receipt, err := c.WaitForReceipt(context.Background(), hash)
	require.NoError(t, err)
	assert.True(t, receipt.Succeeded)
	assert.Equal(t, uint64(42), receipt.BlockNumber)
	assert.Equal(t, uint64(21_000), receipt.GasUsed)
}

func TestWaitForReceipt_FailedReplaysRevertReason(t *testing.T) {
	hash := common.HexToHash("0xabc")
	backend := &fakeBackend{
		chainID: 31337,
		receipts: []*types.Receipt{{
			TxHash:      hash,
			Status:      types.ReceiptStatusFailed,
			BlockNumber: big.NewInt(42),
		}},
		txByHash: types.NewTx(&types.LegacyTx{To: &testContract, Gas: 100_000, GasPrice: big.NewInt(1)}),
		callErr:  &dataError{msg: "execution reverted", data: "0x" + common.Bytes2Hex(errorStringData(t, "already finalised"))},
	}
	c := newTestClient(t, backend, "")

	receipt, err := c.WaitForReceipt(context.Background(), hash)
	require.NoError(t, err)
	assert.False(t, receipt.Succeeded)
	assert.Equal(t, "already finalised", receipt.RevertReason)
}

func TestWaitForReceipt_ContextCancelled(t *testing.T) {
	c := newTestClient(t, &fakeBackend{chainID: 31337}, "")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.WaitForReceipt(ctx, common.HexToHash("0xabc"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
