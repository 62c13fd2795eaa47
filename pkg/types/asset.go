package types

import "strings"

// NativeAssetAddress is the sentinel address denoting a chain's native asset
// (ETH on Ethereum, BNB on BSC, and so on).
const NativeAssetAddress = "0x0000000000000000000000000000000000000000"

// ChainAsset identifies a token on a specific blockchain.
type ChainAsset struct {
	Address  string  `json:"address"`
	ChainID  string  `json:"blockchain"`
	Decimals int     `json:"decimals"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name,omitempty"`
	PriceUSD float64 `json:"usdPrice,omitempty"`
}

// IsNative reports whether the asset is the chain's native token.
func (a ChainAsset) IsNative() bool {
	return a.Address == "" || strings.EqualFold(a.Address, NativeAssetAddress)
}

// NativeAsset returns the native asset descriptor for a chain.
func NativeAsset(chain, symbol string, decimals int) ChainAsset {
	return ChainAsset{
		Address:  NativeAssetAddress,
		ChainID:  chain,
		Decimals: decimals,
		Symbol:   symbol,
	}
}

// SupportedChain describes one chain the aggregator can route through,
// including which bridge/liquidity providers are available on it.
type SupportedChain struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	Type        string   `json:"type,omitempty"`
	ChainID     string   `json:"chainId,omitempty"`
	Enabled     bool     `json:"enabled"`
	Testnet     bool     `json:"testnet,omitempty"`
	Providers   []string `json:"providers,omitempty"`
}
