package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

// QuoteService requests swap routes from the aggregator and normalizes them
// into Quote values. It keeps no cache: quotes expire on the provider's side,
// so every call goes through.
type QuoteService struct {
	client   *Client
	resolver *wallet.Resolver
	log      *logrus.Logger
}

// NewQuoteService creates a quote service over an aggregator client.
func NewQuoteService(client *Client, resolver *wallet.Resolver, log *logrus.Logger) *QuoteService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &QuoteService{
		client:   client,
		resolver: resolver,
		log:      log,
	}
}

// wireQuote is a quote as the aggregator sends it. Some providers populate
// provider, others providerType; both are accepted.
type wireQuote struct {
	ID                   string           `json:"id"`
	Provider             string           `json:"provider"`
	ProviderType         string           `json:"providerType"`
	RouteType            string           `json:"routeType"`
	SourceAmount         string           `json:"sourceAmount"`
	OutputAmount         string           `json:"outputAmount"`
	OutputAmountMin      string           `json:"outputAmountMin"`
	EstimatedTimeMinutes float64          `json:"estimatedTimeMinutes"`
	PriceImpact          float64          `json:"priceImpact"`
	Fees                 *wireFees        `json:"fees"`
	Path                 []types.RouteHop `json:"path"`
	Warnings             []string         `json:"warnings"`
}

type wireFees struct {
	GasFee     string  `json:"gasFee"`
	GasFeeUSD  float64 `json:"gasFeeUsd"`
	PercentFee string  `json:"percentFee"`
}

// GetBestQuote asks the aggregator for the single best route. A successful
// reply with no route is a *NoRouteAvailableError, distinct from a request
// failure.
func (s *QuoteService) GetBestQuote(ctx context.Context, req *types.RouteRequest) (*types.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := buildRoutePayload(req, s.walletFor(req))
	body, err := s.client.postJSON(ctx, "/routes/quoteBest", payload)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, &NoRouteAvailableError{SrcChain: req.SrcChain, DstChain: req.DstChain}
	}

	var w wireQuote
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("failed to parse quote: %w", err)
	}
	if w.ID == "" {
		return nil, &NoRouteAvailableError{SrcChain: req.SrcChain, DstChain: req.DstChain}
	}

	quote := normalizeQuote(w, req)
	return &quote, nil
}

// GetAllQuotes asks the aggregator for every available route. The result is
// always a slice; zero routes is a valid outcome, not an error.
func (s *QuoteService) GetAllQuotes(ctx context.Context, req *types.RouteRequest) ([]types.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	payload := buildRoutePayload(req, s.walletFor(req))
	body, err := s.client.postJSON(ctx, "/routes/quoteAll", payload)
	if err != nil {
		return nil, err
	}

	wires, err := decodeQuoteList(body)
	if err != nil {
		return nil, err
	}

	quotes := make([]types.Quote, 0, len(wires))
	for _, w := range wires {
		quotes = append(quotes, normalizeQuote(w, req))
	}
	return quotes, nil
}

// walletFor resolves the wallet to stamp on a quote request. Quotes are
// read-only, so an unresolvable wallet degrades to an anonymous quote
// instead of failing the call.
func (s *QuoteService) walletFor(req *types.RouteRequest) string {
	addr, err := s.resolver.ResolveFor(types.ChainFamilyFor(req.SrcChain), req.WalletAddress)
	if err != nil {
		s.log.WithError(err).Debug("requesting quote without a wallet address")
		return ""
	}
	return addr
}

// decodeQuoteList accepts the three shapes the quoteAll endpoint produces:
// a JSON array, a bare object when exactly one route exists, and an empty
// body when there is none.
func decodeQuoteList(body []byte) ([]wireQuote, error) {
	trimmed := bytes.TrimSpace(body)
	if emptyJSON(trimmed) {
		return []wireQuote{}, nil
	}

	switch trimmed[0] {
	case '[':
		var list []wireQuote
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to parse quote list: %w", err)
		}
		return list, nil
	case '{':
		var single wireQuote
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, fmt.Errorf("failed to parse quote: %w", err)
		}
		return []wireQuote{single}, nil
	default:
		return nil, fmt.Errorf("unexpected quote response: %s", string(trimmed))
	}
}

func emptyJSON(body []byte) bool {
	s := string(bytes.TrimSpace(body))
	return s == "" || s == "null" || s == "{}" || s == "[]"
}

func normalizeQuote(w wireQuote, req *types.RouteRequest) types.Quote {
	quote := types.Quote{
		QuoteID:           w.ID,
		Provider:          w.Provider,
		RouteKind:         routeKind(w.RouteType, req),
		SrcAmount:         w.SourceAmount,
		DstAmountEstimate: w.OutputAmount,
		DstAmountMin:      w.OutputAmountMin,
		DurationMinutes:   w.EstimatedTimeMinutes,
		PriceImpactPct:    w.PriceImpact,
		Path:              w.Path,
		Warnings:          w.Warnings,
	}
	if quote.Provider == "" {
		quote.Provider = w.ProviderType
	}
	if quote.SrcAmount == "" {
		quote.SrcAmount = req.SrcAmount
	}
	if w.Fees != nil {
		quote.Fee = types.FeeBreakdown{
			GasFeeNative: w.Fees.GasFee,
			GasFeeUSD:    w.Fees.GasFeeUSD,
			PercentFee:   w.Fees.PercentFee,
		}
	}
	return quote
}

// routeKind trusts the aggregator's route type when it sent one and falls
// back to comparing the requested chains.
func routeKind(raw string, req *types.RouteRequest) types.RouteKind {
	switch types.RouteKind(strings.ToLower(strings.TrimSpace(raw))) {
	case types.RouteSameChain:
		return types.RouteSameChain
	case types.RouteCrossChain:
		return types.RouteCrossChain
	}
	if req.SameChain() {
		return types.RouteSameChain
	}
	return types.RouteCrossChain
}
