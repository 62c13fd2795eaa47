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
	"github.com/strangelove-ventures/web3-mcp/pkg/parser"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

var (
	fromChain    string
	toChain      string
	srcTokenAddr string
	dstTokenAddr string
	srcDecimals  int
	dstDecimals  int
	slippagePct  float64
	walletAddr   string
	routeTimeout int
	withTestnets bool
	allQuotes    bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-asset> to <dest-asset>",
	Short: "Fetch swap quotes for a route",
	Long: `Fetch quotes for a route from the bridge aggregator. By default only the
best route is shown; --all lists every provider that can serve the pair.

Assets are native coin symbols or CHAIN.SYMBOL pairs. Bare symbols resolve
to their home chain (ETH to Ethereum, SOL to Solana); for anything else name
the chain explicitly or pass --from-chain / --to-chain.

Examples:
  web3-mcp quote 1.5 ETH to BNB
  web3-mcp quote 0.01 BTC to ETH
  web3-mcp quote 100 ETH.USDC to POLYGON.USDC --src-token 0xa0b8... --dst-token 0x2791... --src-decimals 6 --dst-decimals 6
  web3-mcp quote 2 SOL to BSC.BNB --all --slippage 0.5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	addRouteFlags(quoteCmd)
	quoteCmd.Flags().BoolVar(&allQuotes, "all", false, "Show every available route, not just the best one")
}

// addRouteFlags registers the flags shared by quote and swap
func addRouteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fromChain, "from-chain", "", "Source blockchain (overrides CHAIN.SYMBOL notation)")
	cmd.Flags().StringVar(&toChain, "to-chain", "", "Destination blockchain (overrides CHAIN.SYMBOL notation)")
	cmd.Flags().StringVar(&srcTokenAddr, "src-token", "", "Source token contract address (default: native coin)")
	cmd.Flags().StringVar(&dstTokenAddr, "dst-token", "", "Destination token contract address (default: native coin)")
	cmd.Flags().IntVar(&srcDecimals, "src-decimals", 18, "Source token decimals (used with --src-token)")
	cmd.Flags().IntVar(&dstDecimals, "dst-decimals", 18, "Destination token decimals (used with --dst-token)")
	cmd.Flags().Float64Var(&slippagePct, "slippage", 1, "Slippage tolerance in percent")
	cmd.Flags().StringVar(&walletAddr, "wallet", "", "Wallet address for provider-side checks (default: configured or derived)")
	cmd.Flags().IntVar(&routeTimeout, "timeout", 0, "Per-request quote timeout in seconds (5-60)")
	cmd.Flags().BoolVar(&withTestnets, "testnets", false, "Allow routes through test networks")
}

// buildRouteRequest turns the command words and route flags into a RouteRequest
func buildRouteRequest(args []string) (*types.RouteRequest, error) {
	route, err := parser.ParseRouteCommand(strings.Join(args, " "))
	if err != nil {
		return nil, err
	}

	srcChain := firstNonEmpty(fromChain, route.SrcChain, parser.NativeChainFor(route.SrcSymbol))
	if srcChain == "" {
		return nil, fmt.Errorf("cannot infer a chain for %s; pass --from-chain or use CHAIN.SYMBOL notation", route.SrcSymbol)
	}
	dstChain := firstNonEmpty(toChain, route.DstChain, parser.NativeChainFor(route.DstSymbol))
	if dstChain == "" {
		return nil, fmt.Errorf("cannot infer a chain for %s; pass --to-chain or use CHAIN.SYMBOL notation", route.DstSymbol)
	}
	srcChain = strings.ToUpper(strings.TrimSpace(srcChain))
	dstChain = strings.ToUpper(strings.TrimSpace(dstChain))

	srcAsset := types.NativeAsset(srcChain, route.SrcSymbol, parser.NativeDecimals(srcChain))
	if srcTokenAddr != "" {
		srcAsset = types.ChainAsset{
			Address:  srcTokenAddr,
			ChainID:  srcChain,
			Decimals: srcDecimals,
			Symbol:   route.SrcSymbol,
		}
	}

	dstAsset := types.NativeAsset(dstChain, route.DstSymbol, parser.NativeDecimals(dstChain))
	if dstTokenAddr != "" {
		dstAsset = types.ChainAsset{
			Address:  dstTokenAddr,
			ChainID:  dstChain,
			Decimals: dstDecimals,
			Symbol:   route.DstSymbol,
		}
	}

	amount, err := parser.ToBaseUnits(route.Amount, srcAsset.Decimals)
	if err != nil {
		return nil, err
	}

	return &types.RouteRequest{
		SrcAsset:        srcAsset,
		SrcChain:        srcChain,
		SrcAmount:       amount,
		DstAsset:        dstAsset,
		DstChain:        dstChain,
		WalletAddress:   walletAddr,
		SlippagePct:     slippagePct,
		IncludeTestnets: withTestnets,
		TimeoutSec:      routeTimeout,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func runQuote(cmd *cobra.Command, args []string) {
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
	apiClient := bridge.NewClient(cfg.BaseURL, cfg.APIKey, log)
	resolver := wallet.NewResolver(credentialsFrom(cfg), log)
	quotes := bridge.NewQuoteService(apiClient, resolver, log)

	// Fetch quotes with spinner
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quotes..."
		s.Start()
	}

	if allQuotes {
		results, err := quotes.GetAllQuotes(context.Background(), req)
		if !jsonOutput {
			s.Stop()
		}
		if err != nil {
			printError(err)
			os.Exit(1)
		}

		if jsonOutput {
			jsonData, _ := json.MarshalIndent(results, "", "  ")
			fmt.Println(string(jsonData))
		} else {
			displayQuoteList(results, req)
		}
		return
	}

	quote, err := quotes.GetBestQuote(context.Background(), req)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayQuote(quote, req)
	}
}

func displayQuote(q *types.Quote, req *types.RouteRequest) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                       ROUTE QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Provider:          %s (%s)\n", color.CyanString(q.Provider), q.RouteKind)
	fmt.Printf("  You Send:          %s %s on %s\n",
		humanAmount(q.SrcAmount, req.SrcAsset.Decimals), color.YellowString(req.SrcAsset.Symbol), req.SrcChain)
	fmt.Printf("  You Receive:       ~%s %s on %s\n",
		humanAmount(q.DstAmountEstimate, req.DstAsset.Decimals), color.YellowString(req.DstAsset.Symbol), req.DstChain)

	if q.DstAmountMin != "" {
		fmt.Printf("  Minimum Received:  %s %s\n", humanAmount(q.DstAmountMin, req.DstAsset.Decimals), req.DstAsset.Symbol)
	}
	if q.DurationMinutes > 0 {
		fmt.Printf("  Estimated Time:    %.1f minutes\n", q.DurationMinutes)
	}
	if q.PriceImpactPct != 0 {
		fmt.Printf("  Price Impact:      %.2f%%\n", q.PriceImpactPct)
	}
	if q.Fee.GasFeeNative != "" || q.Fee.GasFeeUSD > 0 {
		line := fmt.Sprintf("  Gas Fee:           %s", q.Fee.GasFeeNative)
		if q.Fee.GasFeeUSD > 0 {
			line += fmt.Sprintf(" ($%.2f)", q.Fee.GasFeeUSD)
		}
		fmt.Println(line)
	}
	if q.Fee.PercentFee != "" && q.Fee.PercentFee != "0" {
		fmt.Printf("  Provider Fee:      %s%%\n", q.Fee.PercentFee)
	}

	if len(q.Path) > 0 {
		hops := make([]string, 0, len(q.Path))
		for _, hop := range q.Path {
			desc := hop.Provider
			if hop.From.Symbol != "" && hop.To.Symbol != "" {
				desc = fmt.Sprintf("%s (%s -> %s)", hop.Provider, hop.From.Symbol, hop.To.Symbol)
			}
			hops = append(hops, desc)
		}
		fmt.Printf("  Route:             %s\n", strings.Join(hops, ", "))
	}

	for _, warning := range q.Warnings {
		color.Yellow("\n  Warning: %s", warning)
	}

	fmt.Printf("\n  Quote ID: %s\n", color.HiBlackString(q.QuoteID))
	fmt.Println("\n" + strings.Repeat("=", 60))

	routeWords := fmt.Sprintf("%s %s.%s to %s.%s",
		humanAmount(q.SrcAmount, req.SrcAsset.Decimals), req.SrcChain, req.SrcAsset.Symbol, req.DstChain, req.DstAsset.Symbol)
	fmt.Println("\nTo prepare this swap, run:")
	color.Cyan("  web3-mcp swap %s --quote-id '%s'\n", routeWords, q.QuoteID)
}

func displayQuoteList(quotes []types.Quote, req *types.RouteRequest) {
	if len(quotes) == 0 {
		fmt.Println("\nNo routes available for this pair.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     AVAILABLE ROUTES")
	fmt.Println(strings.Repeat("=", 60))

	for i, q := range quotes {
		fmt.Printf("\n  %d. %s (%s)\n", i+1, color.CyanString(q.Provider), q.RouteKind)
		fmt.Printf("     You Receive:  ~%s %s\n", humanAmount(q.DstAmountEstimate, req.DstAsset.Decimals), req.DstAsset.Symbol)
		if q.DurationMinutes > 0 {
			fmt.Printf("     Time:         %.1f minutes\n", q.DurationMinutes)
		}
		fmt.Printf("     Quote ID:     %s\n", color.HiBlackString(q.QuoteID))
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("\nTotal: %d routes. The first is the aggregator's best pick.\n\n", len(quotes))
}

// humanAmount renders a base-unit amount for display, falling back to the
// raw string when the provider sent something unparseable
func humanAmount(amount string, decimals int) string {
	if amount == "" {
		return ""
	}
	human, err := parser.FromBaseUnits(amount, decimals)
	if err != nil {
		return amount
	}
	return human
}
