package executor

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

// SolanaExecutor signs and submits opaque-payload transactions on Solana
type SolanaExecutor struct {
	network    config.SolanaNetwork
	client     *rpc.Client
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
	log        *logrus.Logger
}

// NewSolanaExecutor creates a Solana executor
func NewSolanaExecutor(network config.SolanaNetwork, privateKey string, log *logrus.Logger) (*SolanaExecutor, error) {
	// Validate configuration
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	if privateKey == "" {
		return nil, fmt.Errorf("no Solana private key configured")
	}

	key, err := wallet.SolanaKeyFromString(privateKey)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SolanaExecutor{
		network:    network,
		client:     rpc.New(network.RPCUrl),
		privateKey: key,
		publicKey:  key.PublicKey(),
		log:        log,
	}, nil
}

// Execute deserializes the provider's encoded transaction, refreshes the
// blockhash, then signs and submits it
func (s *SolanaExecutor) Execute(ctx context.Context, prepared *types.PreparedTransaction) (string, error) {
	if prepared.Data == "" {
		return "", fmt.Errorf("opaque-payload transaction is missing 'data'")
	}

	raw, err := base64.StdEncoding.DecodeString(prepared.Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction payload: %w", err)
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return "", fmt.Errorf("failed to deserialize transaction: %w", err)
	}

	// The provider serialized against a blockhash that may already be stale
	recent, err := s.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	tx.Message.RecentBlockhash = recent.Value.Blockhash

	// Sign transaction
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.publicKey) {
			return &s.privateKey
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	// Send transaction
	opts := rpc.TransactionOpts{
		SkipPreflight:       s.network.SkipPreflight,
		PreflightCommitment: s.commitment(),
	}
	sig, err := s.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"signature": sig.String(),
	}).Debug("broadcast Solana transaction")

	return sig.String(), nil
}

// commitment returns the commitment level from config
func (s *SolanaExecutor) commitment() rpc.CommitmentType {
	switch strings.ToLower(s.network.Commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "confirmed":
		return rpc.CommitmentConfirmed
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
