package bridge

import (
	"github.com/shopspring/decimal"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

// routePayload is the wire form of a RouteRequest. Coercion rules, applied
// here and nowhere else: amounts travel as decimal strings exactly as given;
// slippage travels as a fraction of one (pct/100), never as a percentage;
// asset references collapse to their address; the timeout always carries a
// concrete value; the referrer is always stamped.
type routePayload struct {
	SourceAsset           string `json:"sourceAsset"`
	SourceBlockchain      string `json:"sourceBlockchain"`
	SourceAmount          string `json:"sourceAmount"`
	DestinationAsset      string `json:"destinationAsset"`
	DestinationBlockchain string `json:"destinationBlockchain"`
	WalletAddress         string `json:"walletAddress,omitempty"`
	SlippageTolerance     string `json:"slippageTolerance"`
	IncludeTestnets       bool   `json:"includeTestnets"`
	ShowFailedRoutes      bool   `json:"showFailedRoutes"`
	Timeout               int    `json:"timeout"`
	Referrer              string `json:"referrer"`
}

// swapPayload is the wire form of a swap-preparation call. The quote id is
// replayed verbatim; it is never parsed or rebuilt.
type swapPayload struct {
	ID          string `json:"id"`
	FromAddress string `json:"fromAddress"`
	Receiver    string `json:"receiver,omitempty"`
	routePayload
}

func buildRoutePayload(req *types.RouteRequest, walletAddress string) routePayload {
	return routePayload{
		SourceAsset:           assetAddress(req.SrcAsset),
		SourceBlockchain:      req.SrcChain,
		SourceAmount:          req.SrcAmount,
		DestinationAsset:      assetAddress(req.DstAsset),
		DestinationBlockchain: req.DstChain,
		WalletAddress:         walletAddress,
		SlippageTolerance:     slippageFraction(req.SlippagePct),
		IncludeTestnets:       req.IncludeTestnets,
		ShowFailedRoutes:      req.ShowFailedRoutes,
		Timeout:               req.EffectiveTimeoutSec(),
		Referrer:              Referrer,
	}
}

// assetAddress returns the address identifying an asset on the wire. Native
// assets use the sentinel zero address.
func assetAddress(asset types.ChainAsset) string {
	if asset.IsNative() {
		return types.NativeAssetAddress
	}
	return asset.Address
}

// slippageFraction converts a percentage to the fractional decimal string
// the aggregator expects. The division is exact: 1 becomes "0.01", 0.5
// becomes "0.005", with no float round-trip.
func slippageFraction(pct float64) string {
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100)).String()
}
