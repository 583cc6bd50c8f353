package ethereum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/chainsafe/htlc-relayer/pkg/config"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// GasOracle is the part of a node API the gas pricer reads from.
type GasOracle interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// GasPricer fills the fee fields of outgoing transactions according to the
// ledger's configured strategy.
type GasPricer struct {
	kind   config.GasStrategy
	price  *big.Int
	max    *big.Int
	limit  uint64
	oracle GasOracle
	logger *zap.Logger
}

// NewGasPricer creates a pricer for a resolved gas configuration.
func NewGasPricer(cfg config.GasConfig, oracle GasOracle, logger *zap.Logger) (*GasPricer, error) {
	price, err := cfg.PriceWei()
	if err != nil {
		return nil, err
	}
	maxPrice, err := cfg.MaxPriceWei()
	if err != nil {
		return nil, err
	}
	if cfg.Kind == config.GasStrategyStatic && price == nil {
		return nil, fmt.Errorf("static gas strategy requires a price")
	}

	return &GasPricer{
		kind:   cfg.Kind,
		price:  price,
		max:    maxPrice,
		limit:  cfg.Limit,
		oracle: oracle,
		logger: logger,
	}, nil
}

// Apply sets the gas limit and price fields on opts.
func (p *GasPricer) Apply(ctx context.Context, opts *bind.TransactOpts) error {
	opts.GasLimit = p.limit

	switch p.kind {
	case config.GasStrategyStatic:
		opts.GasPrice = p.capped(new(big.Int).Set(p.price))
		return nil

	case config.GasStrategyNode, config.GasStrategyFast:
		price, err := p.oracle.SuggestGasPrice(ctx)
		if err != nil {
			return fmt.Errorf("failed to suggest gas price: %w", err)
		}
		if p.kind == config.GasStrategyFast {
			price = bumpFast(price)
		}
		opts.GasPrice = p.capped(price)
		return nil

	case config.GasStrategyEIP1559:
		return p.applyDynamic(ctx, opts)
	}

	return fmt.Errorf("unsupported gas strategy %s", p.kind)
}

func (p *GasPricer) applyDynamic(ctx context.Context, opts *bind.TransactOpts) error {
	head, err := p.oracle.HeaderByNumber(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to get latest header: %w", err)
	}

	// Pre-London chains have no base fee.
	if head.BaseFee == nil {
		price, err := p.oracle.SuggestGasPrice(ctx)
		if err != nil {
			return fmt.Errorf("failed to suggest gas price: %w", err)
		}
		opts.GasPrice = p.capped(price)
		return nil
	}

	tip, err := p.oracle.SuggestGasTipCap(ctx)
	if err != nil {
		return fmt.Errorf("failed to suggest gas tip cap: %w", err)
	}

	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2))
	feeCap.Add(feeCap, tip)
	feeCap = p.capped(feeCap)
	if tip.Cmp(feeCap) > 0 {
		tip = new(big.Int).Set(feeCap)
	}

	opts.GasFeeCap = feeCap
	opts.GasTipCap = tip
	return nil
}

func (p *GasPricer) capped(price *big.Int) *big.Int {
	if p.max == nil || price.Cmp(p.max) <= 0 {
		return price
	}
	p.logger.Warn("Gas price exceeds maximum, capping",
		zap.String("price", price.String()),
		zap.String("max", p.max.String()))
	return new(big.Int).Set(p.max)
}

// bumpFast returns price plus 25%.
func bumpFast(price *big.Int) *big.Int {
	bumped := new(big.Int).Mul(price, big.NewInt(5))
	return bumped.Quo(bumped, big.NewInt(4))
}
