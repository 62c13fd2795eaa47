package bridge

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestGetChains(t *testing.T) {
	var gotQuery, gotAPIKey, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info/chains" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("X-Api-Key")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`[
			{"name":"ETH","displayName":"Ethereum","type":"account-based","enabled":true,"providers":["lifi","symbiosis"]},
			{"name":"BTC","type":"utxo-like","enabled":true,"providers":["thorchain"]}
		]`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-key", testLogger())
	chains, err := client.GetChains(context.Background(), true)
	require.NoError(t, err)

	assert.Equal(t, "includeTestnets=true", gotQuery)
	assert.Equal(t, "secret-key", gotAPIKey)
	assert.NotEmpty(t, gotRequestID)
	require.Len(t, chains, 2)
	assert.Equal(t, "ETH", chains[0].Name)
	assert.Equal(t, []string{"lifi", "symbiosis"}, chains[0].Providers)
	assert.True(t, chains[1].Enabled)
}

func TestClientNon2xxBecomesQuoteProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, err := w.Write([]byte(`{"message":"rate limit exceeded"}`))
		require.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	_, err := client.GetChains(context.Background(), false)
	require.Error(t, err)

	var provErr *QuoteProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Equal(t, "rate limit exceeded", provErr.Message)
	assert.Contains(t, provErr.Body, "rate limit exceeded")
	assert.Contains(t, err.Error(), "429")
}

func TestClientDoesNotRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", testLogger())
	_, err := client.GetChains(context.Background(), false)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed request must surface immediately, never be retried")
}

func TestClientTransportErrorIsNotProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewClient(server.URL, "", testLogger())
	_, err := client.GetChains(context.Background(), false)
	require.Error(t, err)

	var provErr *QuoteProviderError
	assert.False(t, errors.As(err, &provErr), "transport failures propagate as plain errors")
}

func TestExtractErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "message field", body: `{"message":"out of gas"}`, want: "out of gas"},
		{name: "error field", body: `{"error":"bad request"}`, want: "bad request"},
		{name: "message wins over error", body: `{"message":"m","error":"e"}`, want: "m"},
		{name: "errors list", body: `{"errors":["a","b"]}`, want: "[a b]"},
		{name: "not json", body: `<html>boom</html>`, want: ""},
		{name: "empty object", body: `{}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorMessage([]byte(tt.body)))
		})
	}
}
