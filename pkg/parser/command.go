package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// RouteCommand is the parsed form of a human route description.
type RouteCommand struct {
	Amount    string
	SrcSymbol string
	SrcChain  string
	DstSymbol string
	DstChain  string
}

// routePattern matches: <amount> <asset> TO <asset>, where an asset is a
// bare symbol or CHAIN.SYMBOL notation.
var routePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9._]+)\s+TO\s+([A-Z0-9._]+)$`)

// ParseRouteCommand parses a natural language route description
// Examples:
//   - "1.5 ETH to BNB"
//   - "swap 0.1 BTC to ETH"
//   - "100 ETH.USDC to POLYGON.USDC"
func ParseRouteCommand(command string) (*RouteCommand, error) {
	// Normalize the command
	command = strings.TrimSpace(strings.ToUpper(command))

	// Remove the word "SWAP" if present at the beginning
	command = strings.TrimPrefix(command, "SWAP ")

	matches := routePattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid route format. Expected: '<amount> <asset> to <asset>' (e.g., '1.5 ETH to BNB' or '100 ETH.USDC to POLYGON.USDC')")
	}

	cmd := &RouteCommand{Amount: matches[1]}
	cmd.SrcChain, cmd.SrcSymbol = splitAsset(matches[2])
	cmd.DstChain, cmd.DstSymbol = splitAsset(matches[3])
	return cmd, nil
}

// splitAsset splits CHAIN.SYMBOL notation; a bare symbol leaves the chain empty
func splitAsset(asset string) (chain, symbol string) {
	if i := strings.Index(asset, "."); i >= 0 {
		return asset[:i], asset[i+1:]
	}
	return "", asset
}

// NormalizeTokenSymbol normalizes a token symbol to standard format
func NormalizeTokenSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// nativeChains maps native coin symbols to their home chain.
var nativeChains = map[string]string{
	"ETH":   "ETH",
	"BNB":   "BSC",
	"MATIC": "POLYGON",
	"AVAX":  "AVAX_CCHAIN",
	"FTM":   "FANTOM",
	"SOL":   "SOLANA",
	"BTC":   "BTC",
	"LTC":   "LTC",
	"BCH":   "BCH",
	"DOGE":  "DOGE",
}

// NativeChainFor returns the home chain of a native coin symbol, or "" when
// the symbol is not a known native coin and a chain must be given explicitly.
func NativeChainFor(symbol string) string {
	return nativeChains[NormalizeTokenSymbol(symbol)]
}

// nativeDecimals is the base-unit precision of each chain's native coin.
var nativeDecimals = map[string]int{
	"ETH":         18,
	"BSC":         18,
	"POLYGON":     18,
	"ARBITRUM":    18,
	"OPTIMISM":    18,
	"BASE":        18,
	"AVAX_CCHAIN": 18,
	"FANTOM":      18,
	"SOLANA":      9,
	"BTC":         8,
	"LTC":         8,
	"BCH":         8,
	"DOGE":        8,
}

// NativeDecimals returns the native coin's decimals for a chain. Unknown
// chains default to 18, matching the EVM chains the aggregator adds most.
func NativeDecimals(chain string) int {
	if d, ok := nativeDecimals[strings.ToUpper(strings.TrimSpace(chain))]; ok {
		return d
	}
	return 18
}

// ToBaseUnits converts a human amount to an integer base-unit string
func ToBaseUnits(amount string, decimals int) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive, got %s", amount)
	}

	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return "", fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return shifted.BigInt().String(), nil
}

// FromBaseUnits converts an integer base-unit string to a human amount
func FromBaseUnits(amount string, decimals int) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid base-unit amount %q: %w", amount, err)
	}
	return d.Shift(int32(-decimals)).String(), nil
}
