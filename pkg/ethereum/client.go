package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/chainsafe/htlc-relayer/pkg/ethereum/contracts"
	"github.com/chainsafe/htlc-relayer/pkg/transfer"
	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

var (
	// ErrChainIDMismatch is returned when the node serves a different chain than configured.
	ErrChainIDMismatch = errors.New("chain id mismatch")
	// ErrReadOnly is returned when a transaction is requested from a client without a key.
	ErrReadOnly = errors.New("client has no signing key")
)

// Backend is the node API the client needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	Close()
}

// Receipt is the mined result of a submitted transaction.
type Receipt struct {
	TxHash       common.Hash
	BlockNumber  uint64
	GasUsed      uint64
	Succeeded    bool
	RevertReason string
}

// Client represents a connection to one ledger and its HTLC transfer contract
type Client struct {
	config     *config.LedgerConfig
	backend    Backend
	privateKey *ecdsa.PrivateKey
	address    common.Address
	chainID    *big.Int
	logger     *zap.Logger

	contractAddress common.Address
	contract        *contracts.HTLCTransfer
	gas             *GasPricer

	nonceMu   sync.Mutex
	nextNonce *uint64
}

// NewClient dials the ledger RPC. An empty privateKeyHex yields a read-only client.
func NewClient(ctx context.Context, cfg *config.LedgerConfig, privateKeyHex string, logger *zap.Logger) (*Client, error) {
	backend, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ledger RPC: %w", err)
	}

	c, err := NewClientWithBackend(ctx, cfg, backend, privateKeyHex, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return c, nil
}

// NewClientWithBackend builds a client on an existing backend.
func NewClientWithBackend(
	ctx context.Context,
	cfg *config.LedgerConfig,
	backend Backend,
	privateKeyHex string,
	logger *zap.Logger,
) (*Client, error) {
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	if chainID.Cmp(big.NewInt(cfg.ChainID)) != 0 {
		return nil, fmt.Errorf("%w: configured %d, node reports %s", ErrChainIDMismatch, cfg.ChainID, chainID)
	}

	contractAddress := common.HexToAddress(cfg.ContractAddress)
	contract, err := contracts.NewHTLCTransfer(contractAddress, backend)
	if err != nil {
		return nil, fmt.Errorf("failed to load transfer contract: %w", err)
	}

	gas, err := NewGasPricer(cfg.Gas, backend, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure gas pricing: %w", err)
	}

	c := &Client{
		config:          cfg,
		backend:         backend,
		chainID:         chainID,
		logger:          logger,
		contractAddress: contractAddress,
		contract:        contract,
		gas:             gas,
	}

	if privateKeyHex != "" {
		privateKey, err := crypto.HexToECDSA(trimHexPrefix(privateKeyHex))
		if err != nil {
			return nil, fmt.Errorf("failed to load private key: %w", err)
		}
		c.privateKey = privateKey
		c.address = crypto.PubkeyToAddress(privateKey.PublicKey)
	}

	logger.Info("Connected to ledger",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("contract", contractAddress.Hex()),
		zap.String("relayer_address", c.address.Hex()),
		zap.String("gas_strategy", cfg.Gas.Kind.String()))

	return c, nil
}

// Close closes the underlying RPC connection
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
	}
}

// Address returns the signing address, or the zero address for read-only clients.
func (c *Client) Address() common.Address {
	return c.address
}

// GetLatestBlockNumber gets the latest block number
func (c *Client) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}
	return n, nil
}

// FilterTransferCompleted returns the DestTransferCompleted events emitted by
// the contract in [from, to], ordered by block and log index.
func (c *Client) FilterTransferCompleted(ctx context.Context, from, to uint64) ([]*transfer.CompletedEvent, error) {
	query := geth.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{c.contractAddress},
		Topics:    [][]common.Hash{{c.contract.DestTransferCompletedTopic()}},
	}

	logs, err := c.backend.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to filter transfer completed events [%d, %d]: %w", from, to, err)
	}

	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	events := make([]*transfer.CompletedEvent, 0, len(logs))
	for _, log := range logs {
		if log.Removed {
			continue
		}
		ev, err := c.contract.ParseDestTransferCompleted(log)
		if err != nil {
			return nil, fmt.Errorf("failed to decode log %s/%d: %w", log.TxHash.Hex(), log.Index, err)
		}
		events = append(events, &transfer.CompletedEvent{
			Commitment:  transfer.Commitment(ev.Commitment),
			Preimage:    transfer.Preimage(ev.Preimage),
			BlockNumber: log.BlockNumber,
			TxHash:      log.TxHash,
			LogIndex:    log.Index,
		})
	}

	return events, nil
}

// GetTransferState reads sourceTransferState for a commitment at the latest block.
func (c *Client) GetTransferState(ctx context.Context, commitment transfer.Commitment) (transfer.State, error) {
	raw, err := c.contract.SourceTransferState(&bind.CallOpts{Context: ctx}, commitment)
	if err != nil {
		return transfer.StateNone, fmt.Errorf("failed to read transfer state for %s: %w", commitment, err)
	}
	return transfer.StateFromBig(raw), nil
}

// FinaliseTransfer submits finaliseTransferToOtherBlockchain. A contract
// rejection found during gas estimation is returned as *RevertError without
// sending anything.
func (c *Client) FinaliseTransfer(
	ctx context.Context,
	commitment transfer.Commitment,
	preimage transfer.Preimage,
) (common.Hash, error) {
	if c.privateKey == nil {
		return common.Hash{}, ErrReadOnly
	}

	data, err := c.contract.PackFinalise(commitment, preimage)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack finalize call: %w", err)
	}

	estimate, err := c.backend.EstimateGas(ctx, geth.CallMsg{
		From: c.address,
		To:   &c.contractAddress,
		Data: data,
	})
	if err != nil {
		if revert := AsRevert(err); revert != nil {
			return common.Hash{}, revert
		}
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	auth, err := bind.NewKeyedTransactorWithChainID(c.privateKey, c.chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	if err := c.gas.Apply(ctx, auth); err != nil {
		return common.Hash{}, err
	}
	if auth.GasLimit == 0 {
		auth.GasLimit = estimate * 6 / 5
	}

	c.nonceMu.Lock()
	defer c.nonceMu.Unlock()

	nonce, err := c.reserveNonce(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)

	tx, err := c.contract.FinaliseTransferToOtherBlockchain(auth, commitment, preimage)
	if err != nil {
		c.nextNonce = nil
		if revert := AsRevert(err); revert != nil {
			return common.Hash{}, revert
		}
		return common.Hash{}, fmt.Errorf("failed to submit finalize transaction: %w", err)
	}
	next := nonce + 1
	c.nextNonce = &next

	c.logger.Info("Finalize transaction submitted",
		zap.String("commitment", commitment.Hex()),
		zap.String("tx_hash", tx.Hash().Hex()),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas_limit", auth.GasLimit))

	return tx.Hash(), nil
}

// reserveNonce must be called with nonceMu held.
func (c *Client) reserveNonce(ctx context.Context) (uint64, error) {
	pending, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}
	if c.nextNonce != nil && *c.nextNonce > pending {
		return *c.nextNonce, nil
	}
	return pending, nil
}

// WaitForReceipt polls for the receipt of txHash once per block period until
// it is mined or ctx is done. For failed transactions the call is replayed
// against the parent block to recover the revert reason.
func (c *Client) WaitForReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error) {
	interval := c.config.BlockPeriod
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			return c.toReceipt(ctx, receipt), nil
		case errors.Is(err, geth.NotFound):
		default:
			c.logger.Debug("Receipt lookup failed", zap.String("tx_hash", txHash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) toReceipt(ctx context.Context, r *types.Receipt) *Receipt {
	out := &Receipt{
		TxHash:    r.TxHash,
		GasUsed:   r.GasUsed,
		Succeeded: r.Status == types.ReceiptStatusSuccessful,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	if !out.Succeeded {
		out.RevertReason = c.replayRevert(ctx, r)
	}
	return out
}

func (c *Client) replayRevert(ctx context.Context, r *types.Receipt) string {
	tx, _, err := c.backend.TransactionByHash(ctx, r.TxHash)
	if err != nil {
		return fmt.Sprintf("unknown (transaction lookup failed: %v)", err)
	}

	var at *big.Int
	if r.BlockNumber != nil && r.BlockNumber.Sign() > 0 {
		at = new(big.Int).Sub(r.BlockNumber, big.NewInt(1))
	}

	_, err = c.backend.CallContract(ctx, geth.CallMsg{
		From:  c.address,
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}, at)
	if revert := AsRevert(err); revert != nil {
		return revert.Reason
	}
	return "no revert data"
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
