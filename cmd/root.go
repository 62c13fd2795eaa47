package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

var rootCmd = &cobra.Command{
	Use:   "web3-mcp",
	Short: "A CLI for cross-chain swaps through a bridge aggregator",
	Long: `web3-mcp quotes, prepares and executes cross-chain token swaps through a
bridge aggregator. Each subcommand maps to one aggregator operation and every
command supports --json for machine-readable output, so the tool works the
same for humans and for automated agents.

Examples:
  web3-mcp chains
  web3-mcp quote 1.5 ETH to BNB
  web3-mcp quote 100 ETH.USDC to POLYGON.USDC --all
  web3-mcp swap 1.5 ETH to BNB --quote-id <id> --execute
  web3-mcp status 0x1234...abcd --watch
  web3-mcp balance --chain SOLANA`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// newLogger builds the diagnostics logger; --verbose raises it to debug level
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// credentialsFrom collects the signing material the config carries
func credentialsFrom(cfg *config.Config) wallet.Credentials {
	return wallet.Credentials{
		Address:          cfg.WalletAddress,
		EVMPrivateKey:    cfg.EVMPrivateKey,
		SolanaPrivateKey: cfg.SolanaPrivateKey,
	}
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}
