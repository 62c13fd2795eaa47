package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

// StatusTracker queries the lifecycle state of an in-flight cross-chain
// transfer. Every call goes to the aggregator; nothing is retained between
// polls.
type StatusTracker struct {
	client *Client
	log    *logrus.Logger
}

// NewStatusTracker creates a status tracker over an aggregator client.
func NewStatusTracker(client *Client, log *logrus.Logger) *StatusTracker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StatusTracker{client: client, log: log}
}

// wireStatus is the aggregator status body. bridge vs bridgeName and
// dstTxHash vs destinationTxHash both occur upstream; all are accepted.
type wireStatus struct {
	Status            string `json:"status"`
	SrcTxHash         string `json:"srcTxHash"`
	DstTxHash         string `json:"dstTxHash"`
	DestinationTxHash string `json:"destinationTxHash"`
	Bridge            string `json:"bridge"`
	BridgeName        string `json:"bridgeName"`
	Message           string `json:"message"`
	Error             string `json:"error"`
}

var statusStates = map[string]types.StatusState{
	"pending":  types.StatePending,
	"indexing": types.StateIndexing,
	"success":  types.StateSuccess,
	"claim":    types.StateClaim,
	"revert":   types.StateRevert,
	"failed":   types.StateFailed,
	"error":    types.StateError,
}

// One fixed explanation per state, attached to every TransferStatus next to
// the provider's own message/error text.
var statusExplanations = map[types.StatusState]string{
	types.StatePending:  "The transfer is waiting for the source transaction to confirm.",
	types.StateIndexing: "The source transaction is confirmed and the bridge is indexing it.",
	types.StateSuccess:  "The transfer completed and the funds arrived on the destination chain.",
	types.StateClaim:    "The funds arrived but must be claimed manually on the destination chain.",
	types.StateRevert:   "The transfer was reverted and the funds are being returned on the source chain.",
	types.StateFailed:   "The transfer failed. Contact the bridge provider before retrying.",
	types.StateError:    "The bridge reported an error; inspect the message and error fields for details.",
}

// GetStatus fetches and normalizes the current status of a transfer, keyed
// by its source chain transaction hash.
func (t *StatusTracker) GetStatus(ctx context.Context, srcTxHash string) (*types.TransferStatus, error) {
	srcTxHash = strings.TrimSpace(srcTxHash)
	if srcTxHash == "" {
		return nil, fmt.Errorf("source transaction hash is required")
	}

	query := url.Values{}
	query.Set("srcTxHash", srcTxHash)

	body, err := t.client.getJSON(ctx, "/info/status", query)
	if err != nil {
		return nil, err
	}

	var w wireStatus
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("failed to parse status: %w", err)
	}

	state, explanation := mapStatus(w.Status)

	dstTxHash := w.DstTxHash
	if dstTxHash == "" {
		dstTxHash = w.DestinationTxHash
	}
	bridgeName := w.BridgeName
	if bridgeName == "" {
		bridgeName = w.Bridge
	}

	t.log.WithFields(logrus.Fields{
		"srcTxHash": srcTxHash,
		"state":     state,
	}).Debug("transfer status")

	return &types.TransferStatus{
		SrcTxHash:   srcTxHash,
		DstTxHash:   dstTxHash,
		State:       state,
		BridgeName:  bridgeName,
		Message:     w.Message,
		Error:       w.Error,
		Explanation: explanation,
	}, nil
}

// mapStatus maps a raw provider token onto the status state machine. A
// missing token means the bridge has not seen the transfer yet. Unknown
// tokens pass through lowercased with a catch-all explanation so an
// upstream addition never crashes a caller.
func mapStatus(raw string) (types.StatusState, string) {
	token := strings.ToLower(strings.TrimSpace(raw))
	if token == "" {
		return types.StatePending, statusExplanations[types.StatePending]
	}
	if state, ok := statusStates[token]; ok {
		return state, statusExplanations[state]
	}
	return types.StatusState(token), fmt.Sprintf(
		"The bridge reported an unrecognized status %q; treat the transfer as still in progress and check again later.", raw)
}
