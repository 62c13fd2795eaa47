package types

// StatusState is the state of an in-flight cross-chain transfer.
type StatusState string

const (
	StatePending  StatusState = "pending"  // source transaction not yet confirmed
	StateIndexing StatusState = "indexing" // confirmed, waiting for the bridge to pick it up
	StateSuccess  StatusState = "success"  // funds delivered on the destination chain
	StateClaim    StatusState = "claim"    // delivered, but the user must claim manually
	StateRevert   StatusState = "revert"   // bridge reverted, funds returned on the source chain
	StateFailed   StatusState = "failed"   // transfer failed
	StateError    StatusState = "error"    // outcome unknown, consult Message/Error
)

// IsTerminal reports whether no further state transition is expected.
func (s StatusState) IsTerminal() bool {
	switch s {
	case StateSuccess, StateClaim, StateRevert, StateFailed, StateError:
		return true
	}
	return false
}

// Succeeded reports whether the transfer reached a terminal-success state.
// StateClaim counts as success: the funds arrived, a claim action remains.
func (s StatusState) Succeeded() bool {
	return s == StateSuccess || s == StateClaim
}

// TransferStatus is a point-in-time view of a cross-chain transfer, keyed by
// the source chain's transaction hash. It is recomputed on every poll.
type TransferStatus struct {
	SrcTxHash   string      `json:"srcTxHash"`
	DstTxHash   string      `json:"dstTxHash,omitempty"`
	State       StatusState `json:"state"`
	BridgeName  string      `json:"bridgeName,omitempty"`
	Message     string      `json:"message,omitempty"`
	Error       string      `json:"error,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
}
