package config

import (
	"fmt"
	"strings"
)

// GasStrategy is the closed set of gas pricing strategies a ledger can use.
type GasStrategy int

const (
	// GasStrategyStatic uses gas.price_gwei for every transaction.
	GasStrategyStatic GasStrategy = iota
	// GasStrategyNode uses the node's eth_gasPrice suggestion.
	GasStrategyNode
	// GasStrategyFast bids 25% above the node suggestion.
	GasStrategyFast
	// GasStrategyEIP1559 sets fee cap and tip from the latest base fee.
	GasStrategyEIP1559
)

var gasStrategyNames = map[string]GasStrategy{
	"static":  GasStrategyStatic,
	"node":    GasStrategyNode,
	"fast":    GasStrategyFast,
	"eip1559": GasStrategyEIP1559,
}

// ParseGasStrategy resolves a configured strategy name.
func ParseGasStrategy(name string) (GasStrategy, error) {
	s, ok := gasStrategyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown gas strategy %q", name)
	}
	return s, nil
}

func (s GasStrategy) String() string {
	for name, v := range gasStrategyNames {
		if v == s {
			return name
		}
	}
	return fmt.Sprintf("GasStrategy(%d)", int(s))
}
