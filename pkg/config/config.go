package config

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config represents the relayer configuration
type Config struct {
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Source      LedgerConfig     `mapstructure:"source"`
	Destination LedgerConfig     `mapstructure:"destination"`
	Relayer     RelayerConfig    `mapstructure:"relayer"`
	Monitoring  MonitoringConfig `mapstructure:"monitoring"`
	Logging     LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080" validate:"gt=0,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" default:"htlc_relayer"`
	SSLMode  string `mapstructure:"ssl_mode" default:"disable"`
}

// RedisConfig contains redis settings for the redis cursor store
type RedisConfig struct {
	URL       string `mapstructure:"url" default:"redis://localhost:6379/0"`
	Password  string `mapstructure:"password"`
	KeyPrefix string `mapstructure:"key_prefix" default:"htlc-relayer"`
}

// LedgerConfig describes one side of the bridge
type LedgerConfig struct {
	RPCURL          string        `mapstructure:"rpc_url" validate:"required,url"`
	ChainID         int64         `mapstructure:"chain_id" validate:"gt=0"`
	ContractAddress string        `mapstructure:"contract_address" validate:"required,eth_addr"`
	BlockPeriod     time.Duration `mapstructure:"block_period" default:"5s"`
	Confirmations   int64         `mapstructure:"confirmations" default:"12" validate:"gte=0"`
	Retries         uint64        `mapstructure:"retries" default:"3"`
	ReceiptTimeout  time.Duration `mapstructure:"receipt_timeout" default:"2m"`
	Gas             GasConfig     `mapstructure:"gas"`
}

// GasConfig selects how transactions on a ledger are priced.
// Strategy is parsed into Kind when the configuration is loaded.
type GasConfig struct {
	Strategy     string      `mapstructure:"strategy" default:"node"`
	PriceGwei    string      `mapstructure:"price_gwei"`
	MaxPriceGwei string      `mapstructure:"max_price_gwei"`
	Limit        uint64      `mapstructure:"limit" default:"300000"`
	Kind         GasStrategy `mapstructure:"-"`
}

// RelayerConfig contains reconciliation loop settings
type RelayerConfig struct {
	ID                  string        `mapstructure:"id" default:"htlc-relayer" validate:"required"`
	PrivateKey          string        `mapstructure:"private_key" validate:"required"`
	PollingInterval     time.Duration `mapstructure:"polling_interval" default:"15s"`
	StartBlock          int64         `mapstructure:"start_block" validate:"gte=0"`
	MaxBlocksPerTick    int64         `mapstructure:"max_blocks_per_tick" validate:"gte=0"`
	MaxConcurrentEvents int           `mapstructure:"max_concurrent_events" default:"8" validate:"gte=1"`
	ReplicaCount        int           `mapstructure:"replica_count" default:"1" validate:"gte=1"`
	ReplicaOffset       int           `mapstructure:"replica_offset" validate:"gte=0"`
	OnSubmissionFailure string        `mapstructure:"on_submission_failure" default:"hold" validate:"oneof=hold advance"`
	CursorStore         string        `mapstructure:"cursor_store" default:"postgres" validate:"oneof=postgres redis memory"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path" default:"stdout"`
}

// Submission failure policies
const (
	SubmissionFailureHold    = "hold"
	SubmissionFailureAdvance = "advance"
)

// Cursor store backends
const (
	CursorStorePostgres = "postgres"
	CursorStoreRedis    = "redis"
	CursorStoreMemory   = "memory"
)

// secretKeys are bound to the environment even when absent from the file,
// so credentials never have to be written to disk.
var secretKeys = []string{
	"relayer.private_key",
	"database.password",
	"redis.password",
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.resolve(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// resolve validates the configuration and parses the closed variants.
func (c *Config) resolve() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Relayer.ReplicaOffset >= c.Relayer.ReplicaCount {
		return fmt.Errorf("relayer.replica_offset (%d) must be less than relayer.replica_count (%d)",
			c.Relayer.ReplicaOffset, c.Relayer.ReplicaCount)
	}

	if err := c.Source.Gas.resolve(); err != nil {
		return fmt.Errorf("source.gas: %w", err)
	}
	if err := c.Destination.Gas.resolve(); err != nil {
		return fmt.Errorf("destination.gas: %w", err)
	}

	return nil
}

func (g *GasConfig) resolve() error {
	kind, err := ParseGasStrategy(g.Strategy)
	if err != nil {
		return err
	}
	g.Kind = kind

	if kind == GasStrategyStatic && g.PriceGwei == "" {
		return errors.New("price_gwei is required for the static strategy")
	}
	if _, err := g.PriceWei(); err != nil {
		return err
	}
	if _, err := g.MaxPriceWei(); err != nil {
		return err
	}
	return nil
}

// PriceWei returns the static gas price, or nil when none is configured.
func (g *GasConfig) PriceWei() (*big.Int, error) {
	return gweiToWei("price_gwei", g.PriceGwei)
}

// MaxPriceWei returns the gas price ceiling, or nil when uncapped.
func (g *GasConfig) MaxPriceWei() (*big.Int, error) {
	return gweiToWei("max_price_gwei", g.MaxPriceGwei)
}

func gweiToWei(field, gwei string) (*big.Int, error) {
	if gwei == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(gwei)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", field, gwei, err)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("invalid %s %q: must not be negative", field, gwei)
	}
	return d.Shift(9).BigInt(), nil
}
