package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/bridge"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

var (
	includeTestnets bool
	chainTypeFilter string
)

var chainsCmd = &cobra.Command{
	Use:     "chains",
	Aliases: []string{"list-chains", "ls"},
	Short:   "List the blockchains the aggregator can route through",
	Long: `List the blockchains the bridge aggregator can route through, with the
bridge and liquidity providers available on each.

Examples:
  web3-mcp chains
  web3-mcp chains --testnets
  web3-mcp chains --type utxo-like
  web3-mcp chains --json`,
	Run: runChains,
}

func init() {
	rootCmd.AddCommand(chainsCmd)

	chainsCmd.Flags().BoolVar(&includeTestnets, "testnets", false, "Include test networks")
	chainsCmd.Flags().StringVar(&chainTypeFilter, "type", "", "Filter by chain type (e.g. account-based, utxo-like)")
}

func runChains(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	apiClient := bridge.NewClient(cfg.BaseURL, cfg.APIKey, newLogger(cmd))

	// Fetch chains with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching supported chains..."
		s.Start()
	}

	chains, err := apiClient.GetChains(context.Background(), includeTestnets)

	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Apply filters
	if chainTypeFilter != "" {
		var filtered []types.SupportedChain
		for _, chain := range chains {
			if strings.EqualFold(chain.Type, chainTypeFilter) {
				filtered = append(filtered, chain)
			}
		}
		chains = filtered
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(chains, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayChains(chains)
	}
}

func displayChains(chains []types.SupportedChain) {
	if len(chains) == 0 {
		fmt.Println("\nNo chains found matching the criteria.")
		return
	}

	sort.Slice(chains, func(i, j int) bool { return chains[i].Name < chains[j].Name })

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                              SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	for _, chain := range chains {
		name := chain.Name
		if chain.DisplayName != "" && !strings.EqualFold(chain.DisplayName, chain.Name) {
			name = fmt.Sprintf("%s (%s)", chain.Name, chain.DisplayName)
		}

		state := color.GreenString("enabled")
		if !chain.Enabled {
			state = color.RedString("disabled")
		}
		if chain.Testnet {
			state += " " + color.YellowString("testnet")
		}

		fmt.Printf("  %-36s %-16s %s\n", color.YellowString(name), chain.Type, state)
		if len(chain.Providers) > 0 {
			fmt.Printf("  %-27s %s\n", "", color.HiBlackString(strings.Join(chain.Providers, ", ")))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("\nTotal: %d chains\n\n", len(chains))
}
