package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// MinSlippagePct and MaxSlippagePct bound the accepted slippage tolerance,
	// expressed as a percentage (0.01% to 50%).
	MinSlippagePct = 0.01
	MaxSlippagePct = 50

	// MinTimeoutSec and MaxTimeoutSec bound the per-request timeout forwarded
	// to the aggregator.
	MinTimeoutSec = 5
	MaxTimeoutSec = 60

	// DefaultTimeoutSec is used when the caller leaves TimeoutSec unset.
	DefaultTimeoutSec = 30
)

// RouteRequest describes a desired transfer between two assets, possibly on
// different chains. It is constructed per call and never persisted.
type RouteRequest struct {
	SrcAsset  ChainAsset `json:"sourceAsset"`
	SrcChain  string     `json:"sourceBlockchain"`
	SrcAmount string     `json:"sourceAmount"` // smallest-unit decimal string

	DstAsset ChainAsset `json:"destinationAsset"`
	DstChain string     `json:"destinationBlockchain"`

	WalletAddress string  `json:"walletAddress,omitempty"`
	SlippagePct   float64 `json:"slippage"` // percentage, converted to a fraction on the wire

	IncludeTestnets  bool `json:"includeTestnets,omitempty"`
	ShowFailedRoutes bool `json:"showFailedRoutes,omitempty"`
	TimeoutSec       int  `json:"timeout,omitempty"`
}

// Validate checks that the request is well formed before it is sent upstream.
func (r *RouteRequest) Validate() error {
	if r.SrcChain == "" {
		return fmt.Errorf("source blockchain is required")
	}
	if r.DstChain == "" {
		return fmt.Errorf("destination blockchain is required")
	}
	if r.SrcAmount == "" {
		return fmt.Errorf("source amount is required")
	}
	if _, err := decimal.NewFromString(r.SrcAmount); err != nil {
		return fmt.Errorf("invalid source amount %q: %w", r.SrcAmount, err)
	}
	if r.SlippagePct < MinSlippagePct || r.SlippagePct > MaxSlippagePct {
		return fmt.Errorf("slippage must be between %v and %v percent, got %v", MinSlippagePct, MaxSlippagePct, r.SlippagePct)
	}
	if r.TimeoutSec != 0 && (r.TimeoutSec < MinTimeoutSec || r.TimeoutSec > MaxTimeoutSec) {
		return fmt.Errorf("timeout must be between %d and %d seconds, got %d", MinTimeoutSec, MaxTimeoutSec, r.TimeoutSec)
	}
	return nil
}

// EffectiveTimeoutSec returns the timeout to transmit upstream, applying the
// default when the caller left it unset.
func (r *RouteRequest) EffectiveTimeoutSec() int {
	if r.TimeoutSec == 0 {
		return DefaultTimeoutSec
	}
	return r.TimeoutSec
}

// SameChain reports whether source and destination are on the same blockchain.
func (r *RouteRequest) SameChain() bool {
	return r.SrcChain == r.DstChain
}
