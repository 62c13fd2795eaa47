package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
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
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <src-tx-hash>",
	Short: "Check the status of a cross-chain transfer",
	Long: `Check the status of a cross-chain transfer by the transaction hash on the
source chain. With --watch the status is polled until the transfer reaches a
terminal state.

Examples:
  web3-mcp status 0x1234...abcd
  web3-mcp status 0x1234...abcd --watch
  web3-mcp status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Poll until the transfer reaches a terminal state")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	srcTxHash := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	log := newLogger(cmd)
	tracker := bridge.NewStatusTracker(bridge.NewClient(cfg.BaseURL, cfg.APIKey, log), log)

	if watchStatus {
		watchTransferStatus(tracker, srcTxHash, jsonOutput)
	} else {
		checkTransferStatus(tracker, srcTxHash, jsonOutput)
	}
}

func checkTransferStatus(tracker *bridge.StatusTracker, srcTxHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transfer status..."
		s.Start()
	}

	status, err := tracker.GetStatus(context.Background(), srcTxHash)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTransferStatus(status)
	}
}

func watchTransferStatus(tracker *bridge.StatusTracker, srcTxHash string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transfer status (Source Tx: %s)\n", color.CyanString(srcTxHash))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	if checkAndDisplayStatus(tracker, srcTxHash) {
		return
	}

	// Then check periodically
	for range ticker.C {
		if checkAndDisplayStatus(tracker, srcTxHash) {
			return
		}
	}
}

// checkAndDisplayStatus reports whether the transfer reached a terminal state
func checkAndDisplayStatus(tracker *bridge.StatusTracker, srcTxHash string) bool {
	status, err := tracker.GetStatus(context.Background(), srcTxHash)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayTransferStatus(status)

	if status.State.IsTerminal() {
		fmt.Println("Transfer reached a terminal state, stopping watch.")
		return true
	}
	return false
}

func displayTransferStatus(status *types.TransferStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                       TRANSFER STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Source Tx:   %s\n", color.CyanString(status.SrcTxHash))
	fmt.Printf("  State:       %s\n", getColoredState(status.State))
	if status.BridgeName != "" {
		fmt.Printf("  Bridge:      %s\n", status.BridgeName)
	}
	if status.DstTxHash != "" {
		fmt.Printf("  Dest Tx:     %s\n", color.HiBlackString(status.DstTxHash))
	}
	if status.Message != "" {
		fmt.Printf("  Message:     %s\n", status.Message)
	}
	if status.Error != "" {
		fmt.Printf("  Error:       %s\n", color.RedString(status.Error))
	}

	fmt.Printf("\n  %s\n", status.Explanation)

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredState(state types.StatusState) string {
	name := strings.ToUpper(string(state))

	switch state {
	case types.StateSuccess, types.StateClaim:
		return color.GreenString(name)
	case types.StatePending, types.StateIndexing:
		return color.YellowString(name)
	case types.StateRevert, types.StateFailed, types.StateError:
		return color.RedString(name)
	default:
		return name
	}
}
