package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/strangelove-ventures/web3-mcp/pkg/bridge"
)

// Config holds the application configuration
type Config struct {
	BaseURL          string
	APIKey           string
	WalletAddress    string
	EVMPrivateKey    string
	SolanaPrivateKey string
	Networks         Networks
}

// Networks holds the RPC endpoints used when executing prepared transactions
type Networks struct {
	EVM    map[string]EVMNetwork `mapstructure:"evm"`
	Solana SolanaNetwork         `mapstructure:"solana"`
}

// EVMNetwork is the RPC configuration for one EVM chain, keyed by the
// aggregator's blockchain name
type EVMNetwork struct {
	RPCUrl   string `mapstructure:"rpc_url"`
	ChainID  int64  `mapstructure:"chain_id"`
	GasLimit uint64 `mapstructure:"gas_limit"`
	GasPrice int64  `mapstructure:"gas_price"`
}

// SolanaNetwork is the RPC configuration for Solana
type SolanaNetwork struct {
	RPCUrl        string `mapstructure:"rpc_url"`
	Commitment    string `mapstructure:"commitment"`
	SkipPreflight bool   `mapstructure:"skip_preflight"`
}

// Load reads configuration from environment variables and an optional config file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".web3-mcp")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME")
	v.AddConfigPath(".")

	// Set default values
	v.SetDefault("base_url", bridge.DefaultBaseURL)

	// Read from environment variables
	v.SetEnvPrefix("WEB3_MCP")
	v.AutomaticEnv()

	// Read config file (optional)
	_ = v.ReadInConfig()

	// Create config struct
	cfg := &Config{
		BaseURL:          v.GetString("base_url"),
		APIKey:           v.GetString("api_key"),
		WalletAddress:    v.GetString("wallet_address"),
		EVMPrivateKey:    v.GetString("evm_private_key"),
		SolanaPrivateKey: v.GetString("solana_private_key"),
	}

	if err := v.UnmarshalKey("networks", &cfg.Networks); err != nil {
		return nil, fmt.Errorf("invalid networks configuration: %w", err)
	}
	applyNetworkDefaults(&cfg.Networks)

	return cfg, nil
}

// defaultEVMNetworks are public RPC endpoints for the chains the aggregator
// routes most often. Any of them can be overridden in the config file.
var defaultEVMNetworks = map[string]EVMNetwork{
	"ETH":         {RPCUrl: "https://eth.llamarpc.com", ChainID: 1},
	"BSC":         {RPCUrl: "https://bsc-dataseed.binance.org", ChainID: 56},
	"POLYGON":     {RPCUrl: "https://polygon-rpc.com", ChainID: 137},
	"ARBITRUM":    {RPCUrl: "https://arb1.arbitrum.io/rpc", ChainID: 42161},
	"OPTIMISM":    {RPCUrl: "https://mainnet.optimism.io", ChainID: 10},
	"BASE":        {RPCUrl: "https://mainnet.base.org", ChainID: 8453},
	"AVAX_CCHAIN": {RPCUrl: "https://api.avax.network/ext/bc/C/rpc", ChainID: 43114},
	"FANTOM":      {RPCUrl: "https://rpc.ftm.tools", ChainID: 250},
}

const defaultSolanaRPCUrl = "https://api.mainnet-beta.solana.com"

// applyNetworkDefaults normalizes chain-name keys to upper case and fills in
// the built-in endpoints for chains the config file does not mention
func applyNetworkDefaults(n *Networks) {
	evm := make(map[string]EVMNetwork, len(defaultEVMNetworks)+len(n.EVM))
	for name, network := range n.EVM {
		evm[strings.ToUpper(name)] = network
	}
	for name, network := range defaultEVMNetworks {
		if _, ok := evm[name]; !ok {
			evm[name] = network
		}
	}
	n.EVM = evm

	if n.Solana.RPCUrl == "" {
		n.Solana.RPCUrl = defaultSolanaRPCUrl
	}
	if n.Solana.Commitment == "" {
		n.Solana.Commitment = "confirmed"
	}
}
