package types

import (
	"fmt"
	"strings"
)

// ChainFamily classifies how a chain's transactions are structured. It
// determines which transaction-extraction strategy applies to a provider's
// swap response.
type ChainFamily string

const (
	FamilyAccountBased  ChainFamily = "account-based"  // EVM-style: to + calldata + value
	FamilyUTXO          ChainFamily = "utxo-like"      // transfer to a deposit address, optional memo
	FamilyOpaquePayload ChainFamily = "opaque-payload" // single encoded blob (e.g. Solana)
)

var utxoChains = map[string]bool{
	"BTC":  true,
	"LTC":  true,
	"BCH":  true,
	"DOGE": true,
}

var opaquePayloadChains = map[string]bool{
	"SOLANA": true,
}

// ChainFamilyFor maps an aggregator blockchain name to its chain family.
// Unrecognized chains default to account-based, which is where the
// aggregator adds new chains most often.
func ChainFamilyFor(chain string) ChainFamily {
	name := strings.ToUpper(strings.TrimSpace(chain))
	switch {
	case utxoChains[name]:
		return FamilyUTXO
	case opaquePayloadChains[name]:
		return FamilyOpaquePayload
	default:
		return FamilyAccountBased
	}
}

// PreparedTransaction is the normalized, executable form of a provider's
// swap response, ready to hand to a chain-specific signer.
//
// Which fields are populated depends on ChainFamily:
//   - account-based: To and Data are mandatory, Value optional ("" means zero),
//     ApprovalAddress set when an ERC-20 allowance is required first.
//   - utxo-like: To (deposit address) and Value (amount) are mandatory, Data
//     carries the provider memo when one is required.
//   - opaque-payload: Data holds the provider's encoded transaction verbatim.
//
// When Manual is true no executable payload exists: the provider requires
// out-of-band transaction construction and Note explains what to do.
type PreparedTransaction struct {
	ChainFamily     ChainFamily `json:"chainFamily"`
	To              string      `json:"to,omitempty"`
	Data            string      `json:"data,omitempty"`
	Value           string      `json:"value,omitempty"`
	ApprovalAddress string      `json:"approvalAddress,omitempty"`

	QuoteID   string     `json:"quoteId"`
	Provider  string     `json:"provider,omitempty"`
	SrcAsset  ChainAsset `json:"sourceAsset"`
	SrcAmount string     `json:"srcAmount,omitempty"`
	DstAsset  ChainAsset `json:"destinationAsset"`

	Manual bool   `json:"manual,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Validate checks the family-specific mandatory fields. A failure here means
// the provider response was accepted without the fields needed to execute,
// which the extractor is required to prevent.
func (t *PreparedTransaction) Validate() error {
	if t.Manual {
		return nil
	}
	switch t.ChainFamily {
	case FamilyAccountBased:
		if t.To == "" {
			return fmt.Errorf("account-based transaction is missing 'to'")
		}
		if t.Data == "" {
			return fmt.Errorf("account-based transaction is missing 'data'")
		}
	case FamilyUTXO:
		if t.To == "" {
			return fmt.Errorf("utxo-like transfer is missing the recipient address")
		}
		if t.Value == "" {
			return fmt.Errorf("utxo-like transfer is missing the amount")
		}
	case FamilyOpaquePayload:
		if t.Data == "" {
			return fmt.Errorf("opaque-payload transaction is missing 'data'")
		}
	default:
		return fmt.Errorf("unknown chain family %q", t.ChainFamily)
	}
	return nil
}
