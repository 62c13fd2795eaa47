package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

const (
	// DefaultBaseURL is the hosted bridge aggregator endpoint.
	DefaultBaseURL = "https://bridge.strange.love/api"

	// Referrer identifies this application on every route request. The
	// aggregator uses it for fee attribution; requests without it get
	// lower-quality quotes. Not user-configurable.
	Referrer = "web3-mcp"

	// httpTimeout caps a single aggregator call. It sits above the largest
	// timeout a RouteRequest may carry so the aggregator-side timeout fires
	// first.
	httpTimeout = 65 * time.Second
)

// Client is a thin JSON client for the bridge aggregator API. It issues
// single-shot requests and never retries: a repeated quote or swap request
// can hit rate limits or duplicate a monetary action upstream.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logrus.Logger
}

// NewClient creates an aggregator client. An empty baseURL selects the
// hosted endpoint; apiKey is optional.
func NewClient(baseURL, apiKey string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: httpTimeout},
		log:     log,
	}
}

// GetChains lists the chains the aggregator can route through, with their
// provider capability flags.
func (c *Client) GetChains(ctx context.Context, includeTestnets bool) ([]types.SupportedChain, error) {
	query := url.Values{}
	query.Set("includeTestnets", strconv.FormatBool(includeTestnets))

	body, err := c.getJSON(ctx, "/info/chains", query)
	if err != nil {
		return nil, err
	}

	var chains []types.SupportedChain
	if err := json.Unmarshal(body, &chains); err != nil {
		return nil, fmt.Errorf("failed to parse chain list: %w", err)
	}
	return chains, nil
}

// getJSON performs a GET and returns the raw body. Non-2xx replies become
// *QuoteProviderError; transport errors propagate wrapped.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req)
}

// postJSON performs a POST with a JSON body and returns the raw body.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	// Correlation id for matching request and response lines in debug logs
	requestID := uuid.NewString()

	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	req.Header.Set("X-Request-Id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aggregator request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"method":    req.Method,
		"path":      req.URL.Path,
		"status":    resp.StatusCode,
		"requestId": requestID,
	}).Debug("aggregator call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &QuoteProviderError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(body),
			Body:       string(body),
		}
	}
	return body, nil
}

// extractErrorMessage pulls a human-readable message out of an error body.
// The aggregator uses several shapes; an empty string means none matched and
// the caller should show the raw body instead.
func extractErrorMessage(body []byte) string {
	var errResp map[string]interface{}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	if message, ok := errResp["message"].(string); ok && message != "" {
		return message
	}
	if errText, ok := errResp["error"].(string); ok && errText != "" {
		return errText
	}
	if errs, ok := errResp["errors"]; ok {
		return fmt.Sprintf("%v", errs)
	}
	return ""
}
