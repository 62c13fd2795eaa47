package types

// RouteKind classifies a quoted route by whether it crosses chains.
type RouteKind string

const (
	RouteSameChain  RouteKind = "same-chain"  // swap settles on a single chain
	RouteCrossChain RouteKind = "cross-chain" // transfer bridges between chains
)

// FeeBreakdown summarizes the cost of executing a quoted route.
type FeeBreakdown struct {
	GasFeeNative string  `json:"gasFeeNative"` // in the source chain's native token
	GasFeeUSD    float64 `json:"gasFeeUsd"`
	PercentFee   string  `json:"percentFee"` // provider fee as a percentage string
}

// RouteHop is one step of a route's internal path through providers.
type RouteHop struct {
	Provider string     `json:"provider"`
	From     ChainAsset `json:"from"`
	To       ChainAsset `json:"to"`
}

// Quote is a provider's proposed route for a swap or bridge transfer.
//
// QuoteID is assigned by the provider and is opaque: it must be replayed
// byte-for-byte when requesting the swap transaction, and is never parsed
// or reconstructed locally.
type Quote struct {
	QuoteID           string       `json:"quoteId"`
	Provider          string       `json:"provider"`
	RouteKind         RouteKind    `json:"routeKind"`
	SrcAmount         string       `json:"sourceAmount"`
	DstAmountEstimate string       `json:"destinationAmountEstimate"`
	DstAmountMin      string       `json:"destinationAmountMin,omitempty"`
	DurationMinutes   float64      `json:"durationMinutes,omitempty"`
	PriceImpactPct    float64      `json:"priceImpactPct,omitempty"`
	Fee               FeeBreakdown `json:"fee"`
	Path              []RouteHop   `json:"path,omitempty"`
	Warnings          []string     `json:"warnings,omitempty"`
}
