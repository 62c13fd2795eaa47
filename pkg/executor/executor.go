package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

// ErrUnsupportedFamily is returned when no signer exists for a prepared
// transaction's chain family. Callers fall back to showing the transfer
// details for the user to execute with their own wallet.
var ErrUnsupportedFamily = errors.New("no signer available for this chain family")

// Executor signs and broadcasts a prepared transaction, returning its hash
// (or signature) on the source chain.
type Executor interface {
	Execute(ctx context.Context, tx *types.PreparedTransaction) (string, error)
}

// Manager routes a prepared transaction to the executor for its chain family
type Manager struct {
	networks config.Networks
	creds    wallet.Credentials
	log      *logrus.Logger
}

// NewManager creates an execution manager
func NewManager(networks config.Networks, creds wallet.Credentials, log *logrus.Logger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		networks: networks,
		creds:    creds,
		log:      log,
	}
}

// CanExecute reports whether a signer exists for the chain family
func (m *Manager) CanExecute(family types.ChainFamily) bool {
	switch family {
	case types.FamilyAccountBased, types.FamilyOpaquePayload:
		return true
	default:
		return false
	}
}

// Execute signs and broadcasts the transaction on its source chain
func (m *Manager) Execute(ctx context.Context, tx *types.PreparedTransaction) (string, error) {
	if tx.Manual {
		return "", fmt.Errorf("transaction requires manual construction: %s", tx.Note)
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}

	switch tx.ChainFamily {
	case types.FamilyAccountBased:
		exec, err := NewEVMExecutor(m.networks.EVM, tx.SrcAsset.ChainID, m.creds.EVMPrivateKey, m.log)
		if err != nil {
			return "", err
		}
		defer exec.Close()
		return exec.Execute(ctx, tx)

	case types.FamilyOpaquePayload:
		exec, err := NewSolanaExecutor(m.networks.Solana, m.creds.SolanaPrivateKey, m.log)
		if err != nil {
			return "", err
		}
		return exec.Execute(ctx, tx)

	default:
		return "", fmt.Errorf("cannot execute %s transaction: %w", tx.ChainFamily, ErrUnsupportedFamily)
	}
}
