package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

// SwapPreparer turns an accepted quote into an executable transaction
// descriptor. It is pure request/response orchestration: it never signs and
// never broadcasts.
type SwapPreparer struct {
	client   *Client
	resolver *wallet.Resolver
	registry *Registry
	log      *logrus.Logger
}

// NewSwapPreparer creates a swap preparer. A nil registry selects the
// default provider registry.
func NewSwapPreparer(client *Client, resolver *wallet.Resolver, registry *Registry, log *logrus.Logger) *SwapPreparer {
	if registry == nil {
		registry = NewRegistry()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SwapPreparer{
		client:   client,
		resolver: resolver,
		registry: registry,
		log:      log,
	}
}

// swapEnvelope is the part of a swap response shared across providers. The
// transaction itself is provider-specific and handled by the extraction
// registry.
type swapEnvelope struct {
	Provider     string          `json:"provider"`
	ProviderType string          `json:"providerType"`
	Error        string          `json:"error"`
	Message      string          `json:"message"`
	StatusCode   int             `json:"statusCode"`
	Transaction  json.RawMessage `json:"transaction"`
}

// Prepare requests the swap transaction for a previously quoted route. The
// quote id is replayed to the aggregator untouched. An empty or placeholder
// receiver resolves to the caller's own wallet on the destination chain.
func (p *SwapPreparer) Prepare(ctx context.Context, quoteID string, req *types.RouteRequest, receiver string) (*types.PreparedTransaction, error) {
	if strings.TrimSpace(quoteID) == "" {
		return nil, fmt.Errorf("quote id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	srcFamily := types.ChainFamilyFor(req.SrcChain)
	sender, err := p.resolver.ResolveFor(srcFamily, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	recv, err := p.resolver.ResolveFor(types.ChainFamilyFor(req.DstChain), receiver)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve a receiver on %s: %w", req.DstChain, err)
	}

	payload := swapPayload{
		ID:           quoteID,
		FromAddress:  sender,
		Receiver:     recv,
		routePayload: buildRoutePayload(req, sender),
	}

	body, err := p.client.postJSON(ctx, "/routes/swap", payload)
	if err != nil {
		return nil, err
	}
	if emptyJSON(body) {
		return nil, &NoRouteAvailableError{SrcChain: req.SrcChain, DstChain: req.DstChain}
	}

	var env swapEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to parse swap response: %w", err)
	}
	provider := env.Provider
	if provider == "" {
		provider = env.ProviderType
	}

	ex := &Extraction{
		Provider:  provider,
		Family:    srcFamily,
		SrcChain:  req.SrcChain,
		QuoteID:   quoteID,
		SrcAsset:  req.SrcAsset,
		SrcAmount: req.SrcAmount,
		DstAsset:  req.DstAsset,
		Raw:       body,
	}

	// Manual-construction providers answer before any error or transaction
	// checks: whatever they returned, there is nothing to extract.
	if p.registry.ManualConstructionRequired(provider) {
		return p.registry.ManualResult(ex), nil
	}

	if err := businessError(provider, &env, body); err != nil {
		return nil, err
	}
	if !hasTransaction(&env) {
		return nil, &NoRouteAvailableError{SrcChain: req.SrcChain, DstChain: req.DstChain}
	}

	if err := json.Unmarshal(body, &ex.Body); err != nil {
		return nil, fmt.Errorf("failed to parse swap response: %w", err)
	}

	tx, err := p.registry.Extract(ex)
	if err != nil {
		return nil, err
	}
	if env.Message != "" {
		tx.Note = env.Message
	}

	p.log.WithFields(logrus.Fields{
		"provider": provider,
		"family":   tx.ChainFamily,
	}).Debug("prepared swap transaction")
	return tx, nil
}

// businessError applies the error shapes providers embed in 2xx responses:
// an error field always wins; statusCode >= 400 is an error even when a
// transaction is present; a bare message is an error only when no
// transaction came with it. A message next to a transaction is advisory and
// is carried on the prepared transaction's Note instead.
func businessError(provider string, env *swapEnvelope, raw []byte) error {
	switch {
	case env.Error != "":
		return &SwapPreparationError{
			Provider:   provider,
			StatusCode: env.StatusCode,
			Message:    env.Error,
			Raw:        string(raw),
		}
	case env.StatusCode >= 400:
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("provider returned status code %d", env.StatusCode)
		}
		return &SwapPreparationError{
			Provider:   provider,
			StatusCode: env.StatusCode,
			Message:    msg,
			Raw:        string(raw),
		}
	case env.Message != "" && !hasTransaction(env):
		return &SwapPreparationError{
			Provider: provider,
			Message:  env.Message,
			Raw:      string(raw),
		}
	}
	return nil
}

func hasTransaction(env *swapEnvelope) bool {
	return len(env.Transaction) > 0 && string(env.Transaction) != "null"
}
