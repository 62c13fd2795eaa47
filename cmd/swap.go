package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/bridge"
	"github.com/strangelove-ventures/web3-mcp/pkg/executor"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

var (
	quoteID      string
	receiverAddr string
	executeSwap  bool
	skipConfirm  bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-asset> to <dest-asset>",
	Short: "Prepare (and optionally execute) a swap from an accepted quote",
	Long: `Prepare the transaction for a previously quoted route. The quote id comes
from the quote command and is replayed to the aggregator unchanged.

Without --execute the prepared transaction is only displayed, ready for an
external signer. With --execute it is signed and broadcast with the
configured private key after a confirmation prompt.

Examples:
  web3-mcp swap 1.5 ETH to BNB --quote-id <id>
  web3-mcp swap 1.5 ETH to BNB --quote-id <id> --receiver 0xabc...
  web3-mcp swap 2 SOL to BSC.BNB --quote-id <id> --execute
  web3-mcp swap 0.01 BTC to ETH --quote-id <id> --execute --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	addRouteFlags(swapCmd)
	swapCmd.Flags().StringVar(&quoteID, "quote-id", "", "Quote id from the quote command (REQUIRED)")
	swapCmd.Flags().StringVar(&receiverAddr, "receiver", "", "Recipient on the destination chain (default: your own wallet)")
	swapCmd.Flags().BoolVar(&executeSwap, "execute", false, "Sign and broadcast with the configured private key")
	swapCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	_ = swapCmd.MarkFlagRequired("quote-id")
}

func runSwap(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	req, err := buildRouteRequest(args)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	log := newLogger(cmd)
	creds := credentialsFrom(cfg)
	apiClient := bridge.NewClient(cfg.BaseURL, cfg.APIKey, log)
	resolver := wallet.NewResolver(creds, log)
	preparer := bridge.NewSwapPreparer(apiClient, resolver, nil, log)

	// Prepare the transaction with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Preparing swap transaction..."
		s.Start()
	}

	tx, err := preparer.Prepare(context.Background(), quoteID, req, receiverAddr)

	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		switch {
		case tx.Manual:
			displayManualNote(tx)
		case tx.ChainFamily == types.FamilyUTXO:
			displayTransferInstructions(tx)
		default:
			displayPreparedTransaction(tx)
		}
	}

	if !executeSwap {
		if jsonOutput {
			jsonData, _ := json.MarshalIndent(tx, "", "  ")
			fmt.Println(string(jsonData))
		} else if !tx.Manual && tx.ChainFamily != types.FamilyUTXO {
			fmt.Println("\nRe-run with --execute to sign and broadcast this transaction.")
		}
		return
	}

	if tx.Manual {
		printError(fmt.Errorf("this route cannot be executed automatically: %s", tx.Note))
		os.Exit(1)
	}

	// Ask for confirmation before spending
	if !skipConfirm && !jsonOutput {
		if !confirmExecution() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	manager := executor.NewManager(cfg.Networks, creds, log)

	if !jsonOutput {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Broadcasting transaction..."
		s.Start()
	}

	txHash, err := manager.Execute(context.Background(), tx)

	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		if errors.Is(err, executor.ErrUnsupportedFamily) {
			// No local signer for this family; the transfer details above are
			// everything the user's own wallet needs.
			if jsonOutput {
				jsonData, _ := json.MarshalIndent(tx, "", "  ")
				fmt.Println(string(jsonData))
			} else {
				color.Yellow("\nNo signer available for %s. Send the transfer above with your own wallet.\n", tx.SrcAsset.ChainID)
			}
			return
		}
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"transaction": tx,
			"txHash":      txHash,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Transaction broadcast!")
	fmt.Printf("  Tx Hash: %s\n", color.CyanString(txHash))

	fmt.Println("\nYou can monitor the transfer using:")
	color.Cyan("  web3-mcp status %s\n", txHash)
}

func displayPreparedTransaction(tx *types.PreparedTransaction) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                  PREPARED TRANSACTION")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Provider:     %s\n", color.CyanString(tx.Provider))
	fmt.Printf("  Chain:        %s (%s)\n", tx.SrcAsset.ChainID, tx.ChainFamily)
	if tx.To != "" {
		fmt.Printf("  To:           %s\n", tx.To)
	}
	if tx.Value != "" {
		fmt.Printf("  Value:        %s\n", tx.Value)
	}
	if tx.Data != "" {
		fmt.Printf("  Data:         %s\n", truncate(tx.Data, 66))
	}
	if tx.ApprovalAddress != "" {
		fmt.Printf("  Approve For:  %s\n", color.YellowString(tx.ApprovalAddress))
	}
	if tx.Note != "" {
		fmt.Printf("\n  Note: %s\n", color.YellowString(tx.Note))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayTransferInstructions(tx *types.PreparedTransaction) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("                 TRANSFER INSTRUCTIONS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nTo complete the swap, send %s %s to:\n\n",
		humanAmount(tx.Value, tx.SrcAsset.Decimals), tx.SrcAsset.Symbol)
	color.Cyan("  %s\n", tx.To)

	if tx.Data != "" {
		fmt.Printf("\nMemo (REQUIRED): %s\n", color.MagentaString(tx.Data))
		fmt.Println("Transfers without the memo cannot be matched to this swap.")
	}
	if tx.Note != "" {
		fmt.Printf("\n%s\n", color.YellowString(tx.Note))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func displayManualNote(tx *types.PreparedTransaction) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("              MANUAL CONSTRUCTION REQUIRED")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Provider: %s\n", color.CyanString(tx.Provider))
	fmt.Printf("\n  %s\n", tx.Note)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmExecution() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nSign and broadcast this transaction? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
