package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/parser"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

var balanceChain string

var balanceCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Show a wallet's native coin balance",
	Long: `Show the native coin balance of an address on one chain. With no address
the configured wallet is used, deriving it from the private key if needed.

Examples:
  web3-mcp balance
  web3-mcp balance --chain BSC
  web3-mcp balance 0x1234...abcd --chain ETH
  web3-mcp balance --chain SOLANA`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVar(&balanceChain, "chain", "ETH", "Chain to query")
}

func runBalance(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	chain := strings.ToUpper(strings.TrimSpace(balanceChain))

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	resolver := wallet.NewResolver(credentialsFrom(cfg), newLogger(cmd))

	explicit := ""
	if len(args) > 0 {
		explicit = args[0]
	}

	family := types.ChainFamilyFor(chain)
	address, err := resolver.ResolveFor(family, explicit)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Fetch balance with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching balance..."
		s.Start()
	}

	var balance string
	switch family {
	case types.FamilyAccountBased:
		balance, err = evmBalance(cfg, chain, address)
	case types.FamilyOpaquePayload:
		balance, err = solanaBalance(cfg, address)
	default:
		err = fmt.Errorf("balance lookup is not supported for %s", chain)
	}

	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"chain":   chain,
			"address": address,
			"balance": balance,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                      WALLET BALANCE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Chain:    %s\n", chain)
	fmt.Printf("  Address:  %s\n", color.CyanString(address))
	fmt.Printf("  Balance:  %s\n", color.YellowString(balance))

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

// evmBalance reads the native coin balance through the chain's RPC endpoint
func evmBalance(cfg *config.Config, chain, address string) (string, error) {
	network, ok := cfg.Networks.EVM[chain]
	if !ok || network.RPCUrl == "" {
		return "", fmt.Errorf("no RPC endpoint configured for %s", chain)
	}
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid address: %s", address)
	}

	client, err := ethclient.Dial(network.RPCUrl)
	if err != nil {
		return "", fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}
	defer client.Close()

	balance, err := client.BalanceAt(context.Background(), common.HexToAddress(address), nil)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return parser.FromBaseUnits(balance.String(), parser.NativeDecimals(chain))
}

// solanaBalance reads the SOL balance through the configured RPC endpoint
func solanaBalance(cfg *config.Config, address string) (string, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return "", fmt.Errorf("invalid address: %w", err)
	}

	client := rpc.New(cfg.Networks.Solana.RPCUrl)
	balance, err := client.GetBalance(context.Background(), pubkey, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get balance: %w", err)
	}

	return parser.FromBaseUnits(strconv.FormatUint(balance.Value, 10), parser.NativeDecimals("SOLANA"))
}
