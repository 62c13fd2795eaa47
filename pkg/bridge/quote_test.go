package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

func testRouteRequest() *types.RouteRequest {
	return &types.RouteRequest{
		SrcAsset:    types.NativeAsset("ETH", "ETH", 18),
		SrcChain:    "ETH",
		SrcAmount:   "1000000000000000000",
		DstAsset:    types.NativeAsset("BSC", "BNB", 18),
		DstChain:    "BSC",
		SlippagePct: 1,
	}
}

func newTestQuoteService(baseURL string, creds wallet.Credentials) *QuoteService {
	log := testLogger()
	return NewQuoteService(NewClient(baseURL, "", log), wallet.NewResolver(creds, log), log)
}

// mockQuoteServer answers one route endpoint with a fixed raw body and
// captures the request payload it received.
func mockQuoteServer(t *testing.T, path string, body string, captured *map[string]interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(body))
		require.NoError(t, err)
	}))
}

const bestQuoteBody = `{
	"id": "q-7f3a1c",
	"provider": "symbiosis",
	"routeType": "cross-chain",
	"sourceAmount": "1000000000000000000",
	"outputAmount": "4100000000000000000",
	"outputAmountMin": "4059000000000000000",
	"estimatedTimeMinutes": 4,
	"priceImpact": 0.12,
	"fees": {"gasFee": "0.00042", "gasFeeUsd": 1.62, "percentFee": "0.3"},
	"path": [{"provider": "symbiosis", "from": {"blockchain": "ETH", "symbol": "ETH"}, "to": {"blockchain": "BSC", "symbol": "BNB"}}],
	"warnings": ["high price impact"]
}`

func TestGetBestQuote(t *testing.T) {
	var captured map[string]interface{}
	server := mockQuoteServer(t, "/routes/quoteBest", bestQuoteBody, &captured)
	defer server.Close()

	// No credentials configured: a quote must still go through, anonymously.
	svc := newTestQuoteService(server.URL, wallet.Credentials{})

	quote, err := svc.GetBestQuote(context.Background(), testRouteRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, quote.QuoteID)
	assert.Equal(t, "symbiosis", quote.Provider)
	assert.Equal(t, types.RouteCrossChain, quote.RouteKind)
	assert.Equal(t, "4100000000000000000", quote.DstAmountEstimate)
	require.Len(t, quote.Path, 1)
	assert.Equal(t, []string{"high price impact"}, quote.Warnings)

	gasFee, err := decimal.NewFromString(quote.Fee.GasFeeNative)
	require.NoError(t, err)
	assert.False(t, gasFee.IsNegative())

	// Wire payload checks.
	assert.Equal(t, types.NativeAssetAddress, captured["sourceAsset"])
	assert.Equal(t, "ETH", captured["sourceBlockchain"])
	assert.Equal(t, "0.01", captured["slippageTolerance"])
	assert.Equal(t, "web3-mcp", captured["referrer"])
	_, hasWallet := captured["walletAddress"]
	assert.False(t, hasWallet, "unresolvable wallet degrades to an anonymous quote")
}

func TestGetBestQuoteStampsResolvedWallet(t *testing.T) {
	var captured map[string]interface{}
	server := mockQuoteServer(t, "/routes/quoteBest", bestQuoteBody, &captured)
	defer server.Close()

	svc := newTestQuoteService(server.URL, wallet.Credentials{
		Address: "0x1111111111111111111111111111111111111111",
	})

	_, err := svc.GetBestQuote(context.Background(), testRouteRequest())
	require.NoError(t, err)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", captured["walletAddress"])
}

func TestGetBestQuoteNoRoute(t *testing.T) {
	for _, body := range []string{"", "null", "{}"} {
		server := mockQuoteServer(t, "/routes/quoteBest", body, nil)
		svc := newTestQuoteService(server.URL, wallet.Credentials{})

		_, err := svc.GetBestQuote(context.Background(), testRouteRequest())

		var noRoute *NoRouteAvailableError
		require.ErrorAs(t, err, &noRoute, "body %q", body)
		assert.Equal(t, "ETH", noRoute.SrcChain)
		assert.Equal(t, "BSC", noRoute.DstChain)
		server.Close()
	}
}

func TestGetBestQuoteInvalidRequestSkipsNetwork(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	svc := newTestQuoteService(server.URL, wallet.Credentials{})
	req := testRouteRequest()
	req.SlippagePct = 99

	_, err := svc.GetBestQuote(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slippage")
	assert.Zero(t, calls)
}

func TestDecodeQuoteListShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
		wantErr bool
	}{
		{name: "array unchanged", body: `[{"id":"a"},{"id":"b"}]`, wantIDs: []string{"a", "b"}},
		{name: "bare object wrapped", body: `{"id":"a"}`, wantIDs: []string{"a"}},
		{name: "empty array", body: `[]`, wantIDs: []string{}},
		{name: "empty body", body: ``, wantIDs: []string{}},
		{name: "null", body: `null`, wantIDs: []string{}},
		{name: "scalar is rejected", body: `12`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wires, err := decodeQuoteList([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			ids := make([]string, 0, len(wires))
			for _, w := range wires {
				ids = append(ids, w.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// A single route may arrive as a bare object or a one-element array; both
// must normalize to the same result.
func TestGetAllQuotesObjectEqualsArray(t *testing.T) {
	asObject := mockQuoteServer(t, "/routes/quoteAll", bestQuoteBody, nil)
	defer asObject.Close()
	asArray := mockQuoteServer(t, "/routes/quoteAll", "["+bestQuoteBody+"]", nil)
	defer asArray.Close()

	fromObject, err := newTestQuoteService(asObject.URL, wallet.Credentials{}).
		GetAllQuotes(context.Background(), testRouteRequest())
	require.NoError(t, err)
	fromArray, err := newTestQuoteService(asArray.URL, wallet.Credentials{}).
		GetAllQuotes(context.Background(), testRouteRequest())
	require.NoError(t, err)

	assert.Equal(t, fromArray, fromObject)
	require.Len(t, fromObject, 1)
}

func TestGetAllQuotesEmptyIsNotAnError(t *testing.T) {
	server := mockQuoteServer(t, "/routes/quoteAll", `[]`, nil)
	defer server.Close()

	quotes, err := newTestQuoteService(server.URL, wallet.Credentials{}).
		GetAllQuotes(context.Background(), testRouteRequest())
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestNormalizeQuoteVariants(t *testing.T) {
	req := testRouteRequest()

	t.Run("providerType accepted for provider", func(t *testing.T) {
		q := normalizeQuote(wireQuote{ID: "x", ProviderType: "openocean"}, req)
		assert.Equal(t, "openocean", q.Provider)
	})

	t.Run("route kind falls back to requested chains", func(t *testing.T) {
		q := normalizeQuote(wireQuote{ID: "x"}, req)
		assert.Equal(t, types.RouteCrossChain, q.RouteKind)

		same := testRouteRequest()
		same.DstChain = "ETH"
		q = normalizeQuote(wireQuote{ID: "x"}, same)
		assert.Equal(t, types.RouteSameChain, q.RouteKind)
	})

	t.Run("missing fees leave zero breakdown", func(t *testing.T) {
		q := normalizeQuote(wireQuote{ID: "x"}, req)
		assert.Equal(t, types.FeeBreakdown{}, q.Fee)
	})

	t.Run("source amount echoes request when omitted", func(t *testing.T) {
		q := normalizeQuote(wireQuote{ID: "x"}, req)
		assert.Equal(t, req.SrcAmount, q.SrcAmount)
	})
}
