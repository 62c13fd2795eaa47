package bridge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

// Extraction carries one provider swap response through an extraction
// strategy, along with the request context the resulting transaction keeps.
type Extraction struct {
	Provider  string
	Family    types.ChainFamily
	SrcChain  string
	QuoteID   string
	SrcAsset  types.ChainAsset
	SrcAmount string
	DstAsset  types.ChainAsset
	Raw       json.RawMessage
	Body      map[string]interface{}
}

// Strategy turns a provider's raw swap response into a PreparedTransaction.
// A strategy either returns a transaction carrying every mandatory field for
// its chain family or fails with *MalformedTransactionError; it never fills
// a gap with a guessed value.
type Strategy func(ex *Extraction) (*types.PreparedTransaction, error)

// Registry maps providers to extraction strategies. Providers without a
// registered override use their chain family's default. New providers are
// supported by registering a strategy, never by growing a branch inside an
// existing one.
type Registry struct {
	overrides []providerOverride
	families  map[types.ChainFamily]Strategy
	manual    []string
}

type providerOverride struct {
	match    string
	strategy Strategy
}

// NewRegistry returns a registry preloaded with the per-family defaults and
// the providers known to deviate from them.
func NewRegistry() *Registry {
	r := &Registry{
		families: map[types.ChainFamily]Strategy{
			types.FamilyAccountBased:  extractAccountTransaction,
			types.FamilyUTXO:          extractTransferDetails,
			types.FamilyOpaquePayload: extractOpaquePayload,
		},
	}

	// These move to/data/value between container objects and key names
	// across their API versions.
	r.Register("symbiosis", extractNestedTransaction)
	r.Register("openocean", extractNestedTransaction)
	r.Register("xy", extractNestedTransaction)

	// No programmatic transaction path exists for these at all.
	r.RegisterManual("wormhole")
	r.RegisterManual("mayan")

	return r
}

// Register adds an override for providers whose id contains match,
// case-insensitively. Overrides are consulted in registration order and the
// first hit wins.
func (r *Registry) Register(match string, strategy Strategy) {
	r.overrides = append(r.overrides, providerOverride{
		match:    strings.ToLower(match),
		strategy: strategy,
	})
}

// RegisterManual marks providers whose id contains match as requiring
// manual, out-of-band transaction construction.
func (r *Registry) RegisterManual(match string) {
	r.manual = append(r.manual, strings.ToLower(match))
}

// ManualConstructionRequired reports whether a provider has no programmatic
// transaction path. Callers must check this before extraction: attempting to
// extract from such a provider's response fails with a misleading error.
func (r *Registry) ManualConstructionRequired(provider string) bool {
	id := strings.ToLower(provider)
	for _, m := range r.manual {
		if m != "" && strings.Contains(id, m) {
			return true
		}
	}
	return false
}

// ManualResult is the informational result for a manual-construction
// provider. It carries no executable payload.
func (r *Registry) ManualResult(ex *Extraction) *types.PreparedTransaction {
	return &types.PreparedTransaction{
		ChainFamily: ex.Family,
		QuoteID:     ex.QuoteID,
		Provider:    ex.Provider,
		SrcAsset:    ex.SrcAsset,
		SrcAmount:   ex.SrcAmount,
		DstAsset:    ex.DstAsset,
		Manual:      true,
		Note: fmt.Sprintf("%s requires manual transaction construction: complete the transfer through the provider's own interface",
			ex.Provider),
	}
}

// Extract dispatches the response to the matching strategy and re-checks the
// mandatory fields for the declared chain family on the way out.
func (r *Registry) Extract(ex *Extraction) (*types.PreparedTransaction, error) {
	if r.ManualConstructionRequired(ex.Provider) {
		return r.ManualResult(ex), nil
	}

	tx, err := r.strategyFor(ex)(ex)
	if err != nil {
		return nil, err
	}
	if err := tx.Validate(); err != nil {
		return nil, &MalformedTransactionError{Provider: ex.Provider, Reason: err.Error(), Raw: string(ex.Raw)}
	}
	return tx, nil
}

func (r *Registry) strategyFor(ex *Extraction) Strategy {
	id := strings.ToLower(ex.Provider)
	for _, o := range r.overrides {
		if o.match != "" && strings.Contains(id, o.match) {
			return o.strategy
		}
	}
	if s, ok := r.families[ex.Family]; ok {
		return s
	}
	return r.families[types.FamilyAccountBased]
}

// transactionObject returns the response's transaction object, or nil.
func (ex *Extraction) transactionObject() map[string]interface{} {
	obj, _ := ex.Body["transaction"].(map[string]interface{})
	return obj
}

func (ex *Extraction) missing(field string) error {
	return &MalformedTransactionError{Provider: ex.Provider, MissingField: field, Raw: string(ex.Raw)}
}

func (ex *Extraction) prepared(to, data, value, approval string) *types.PreparedTransaction {
	return &types.PreparedTransaction{
		ChainFamily:     ex.Family,
		To:              to,
		Data:            data,
		Value:           value,
		ApprovalAddress: approval,
		QuoteID:         ex.QuoteID,
		Provider:        ex.Provider,
		SrcAsset:        ex.SrcAsset,
		SrcAmount:       ex.SrcAmount,
		DstAsset:        ex.DstAsset,
	}
}

// extractAccountTransaction is the default for account-based chains: to and
// data sit directly on the transaction object and both are mandatory.
func extractAccountTransaction(ex *Extraction) (*types.PreparedTransaction, error) {
	tx := ex.transactionObject()
	if tx == nil {
		return nil, ex.missing("transaction")
	}

	to := stringField(tx, "to")
	if to == "" {
		return nil, ex.missing("to")
	}
	data := stringField(tx, "data")
	if data == "" {
		return nil, ex.missing("data")
	}

	value := stringField(tx, "value")
	approval := stringField(tx, "approvalAddress", "approveTo")
	return ex.prepared(to, data, value, approval), nil
}

// Containers the known deviating providers nest their transaction under, in
// probe order.
var nestedContainers = []string{"transaction", "tx", "transactionRequest"}

// Keys the bounded scan accepts an address under.
var nestedAddressKeys = []string{"to", "targetAddress", "contractAddress"}

const maxScanDepth = 3

// extractNestedTransaction probes the known container/key combinations in
// priority order, taking the first non-empty hit per field. When 'to' is
// still unresolved it falls back to a bounded scan of the object graph, and
// fails rather than guess when that also finds nothing.
func extractNestedTransaction(ex *Extraction) (*types.PreparedTransaction, error) {
	var to, data, value, approval string
	for _, container := range nestedContainers {
		obj, ok := ex.Body[container].(map[string]interface{})
		if !ok {
			continue
		}
		if to == "" {
			to = stringField(obj, "to", "targetAddress")
		}
		if data == "" {
			data = stringField(obj, "data")
		}
		if value == "" {
			value = stringField(obj, "value")
		}
		if approval == "" {
			approval = stringField(obj, "approvalAddress", "approveTo")
		}
	}

	if to == "" {
		to = scanForAddress(ex.Body, 0)
	}
	if to == "" {
		return nil, ex.missing("to")
	}
	if data == "" {
		return nil, ex.missing("data")
	}
	return ex.prepared(to, data, value, approval), nil
}

// scanForAddress walks the object graph at most maxScanDepth levels deep
// looking for a 20-byte hex address stored under a known address key. Maps
// are visited in sorted key order so the result is deterministic.
func scanForAddress(node interface{}, depth int) string {
	if depth > maxScanDepth {
		return ""
	}

	switch v := node.(type) {
	case map[string]interface{}:
		for _, key := range nestedAddressKeys {
			if s, ok := v[key].(string); ok && common.IsHexAddress(s) {
				return s
			}
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if found := scanForAddress(v[key], depth+1); found != "" {
				return found
			}
		}
	case []interface{}:
		for _, item := range v {
			if found := scanForAddress(item, depth+1); found != "" {
				return found
			}
		}
	}
	return ""
}

// extractTransferDetails is the default for utxo-like chains, where a swap
// is a plain transfer: send an amount to the provider's deposit address,
// usually with a routing memo.
func extractTransferDetails(ex *Extraction) (*types.PreparedTransaction, error) {
	tx := ex.transactionObject()
	if tx == nil {
		return nil, ex.missing("transaction")
	}

	recipient := stringField(tx, "recipientAddress", "to")
	if recipient == "" {
		return nil, ex.missing("recipientAddress")
	}
	amount := stringField(tx, "amount", "value")
	if amount == "" {
		return nil, ex.missing("amount")
	}

	if strings.EqualFold(ex.SrcChain, "BTC") {
		if _, err := btcutil.DecodeAddress(recipient, &chaincfg.MainNetParams); err != nil {
			return nil, &MalformedTransactionError{
				Provider: ex.Provider,
				Reason:   fmt.Sprintf("invalid bitcoin recipient address %q: %v", recipient, err),
				Raw:      string(ex.Raw),
			}
		}
	}

	memo := stringField(tx, "memo")
	return ex.prepared(recipient, memo, amount, ""), nil
}

// extractOpaquePayload is the default for chains whose transaction is a
// single encoded blob. The blob is returned verbatim for the caller's own
// deserializer; no field-level decomposition is attempted.
func extractOpaquePayload(ex *Extraction) (*types.PreparedTransaction, error) {
	tx := ex.transactionObject()
	if tx == nil {
		return nil, ex.missing("transaction")
	}

	data := stringField(tx, "data")
	if data == "" {
		return nil, ex.missing("data")
	}
	return ex.prepared("", data, "", ""), nil
}

// stringField returns the first usable value among keys, coerced to string.
// Coercion rules: strings are trimmed and taken as-is; JSON numbers are
// formatted without an exponent; booleans, nulls and objects are treated as
// absent.
func stringField(obj map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch v := obj[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
