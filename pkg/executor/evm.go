package executor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/config"
	"github.com/strangelove-ventures/web3-mcp/pkg/types"
	"github.com/strangelove-ventures/web3-mcp/pkg/wallet"
)

// EVMExecutor signs and broadcasts account-based transactions on one EVM chain
type EVMExecutor struct {
	chain      string
	network    config.EVMNetwork
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	from       common.Address
	log        *logrus.Logger
}

// ERC20 allowance and approve function ABI
const erc20ABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

// fallbackGasLimit covers a typical router swap when the node refuses to
// estimate gas.
const fallbackGasLimit = uint64(250000)

// NewEVMExecutor creates an executor for a configured EVM network
func NewEVMExecutor(networks map[string]config.EVMNetwork, chain string, privateKeyHex string, log *logrus.Logger) (*EVMExecutor, error) {
	name := strings.ToUpper(strings.TrimSpace(chain))

	// Get network configuration
	network, exists := networks[name]
	if !exists {
		return nil, fmt.Errorf("no RPC endpoint configured for %s", chain)
	}
	if network.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for %s", chain)
	}
	if privateKeyHex == "" {
		return nil, fmt.Errorf("no EVM private key configured")
	}

	// Connect to the RPC endpoint
	client, err := ethclient.Dial(network.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := wallet.EVMKeyFromHex(privateKeyHex)
	if err != nil {
		client.Close()
		return nil, err
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EVMExecutor{
		chain:      name,
		network:    network,
		client:     client,
		privateKey: privateKey,
		from:       crypto.PubkeyToAddress(privateKey.PublicKey),
		log:        log,
	}, nil
}

// Execute signs and broadcasts the prepared transaction, sending an ERC-20
// approval first when the provider requires one
func (e *EVMExecutor) Execute(ctx context.Context, tx *types.PreparedTransaction) (string, error) {
	// Re-check the account-based invariant before touching the chain
	if tx.To == "" || tx.Data == "" {
		return "", fmt.Errorf("account-based transaction is missing 'to' or 'data'")
	}
	if !common.IsHexAddress(tx.To) {
		return "", fmt.Errorf("invalid transaction target address: %s", tx.To)
	}

	value, err := parseWeiValue(tx.Value)
	if err != nil {
		return "", err
	}

	// Get nonce
	nonce, err := e.client.PendingNonceAt(ctx, e.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	// Get gas price
	gasPrice, err := e.gasPrice(ctx)
	if err != nil {
		return "", err
	}

	// Approve the provider's spender first when the swap moves an ERC-20
	if tx.ApprovalAddress != "" && !tx.SrcAsset.IsNative() {
		approved, err := e.ensureAllowance(ctx, tx, nonce, gasPrice)
		if err != nil {
			return "", err
		}
		if approved {
			nonce++
		}
	}

	to := common.HexToAddress(tx.To)
	data := common.FromHex(tx.Data)
	gasLimit := e.gasLimit(ctx, to, value, data)

	signedTx, err := e.signTransaction(ctx, nonce, to, value, gasLimit, gasPrice, data)
	if err != nil {
		return "", err
	}

	// Send transaction
	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"chain": e.chain,
		"hash":  signedTx.Hash().Hex(),
		"nonce": signedTx.Nonce(),
	}).Debug("broadcast swap transaction")

	return signedTx.Hash().Hex(), nil
}

// ensureAllowance checks the provider's ERC-20 allowance and sends an
// approval for the exact swap amount when it is short. Reports whether an
// approval transaction was broadcast.
func (e *EVMExecutor) ensureAllowance(ctx context.Context, tx *types.PreparedTransaction, nonce uint64, gasPrice *big.Int) (bool, error) {
	if !common.IsHexAddress(tx.SrcAsset.Address) {
		return false, fmt.Errorf("invalid token contract address: %s", tx.SrcAsset.Address)
	}
	if !common.IsHexAddress(tx.ApprovalAddress) {
		return false, fmt.Errorf("invalid approval address: %s", tx.ApprovalAddress)
	}
	required, ok := new(big.Int).SetString(tx.SrcAmount, 10)
	if !ok || required.Sign() < 0 {
		return false, fmt.Errorf("invalid source amount for approval: %q", tx.SrcAmount)
	}

	token := common.HexToAddress(tx.SrcAsset.Address)
	spender := common.HexToAddress(tx.ApprovalAddress)

	parsedABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return false, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	// Check the current allowance
	callData, err := parsedABI.Pack("allowance", e.from, spender)
	if err != nil {
		return false, fmt.Errorf("failed to pack allowance data: %w", err)
	}
	result, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: callData}, nil)
	if err != nil {
		return false, fmt.Errorf("failed to read allowance: %w", err)
	}
	allowance := new(big.Int).SetBytes(result)
	if allowance.Cmp(required) >= 0 {
		return false, nil
	}

	// Approve exactly the swap amount
	approveData, err := parsedABI.Pack("approve", spender, required)
	if err != nil {
		return false, fmt.Errorf("failed to pack approve data: %w", err)
	}

	gasLimit := e.gasLimit(ctx, token, nil, approveData)
	signedTx, err := e.signTransaction(ctx, nonce, token, big.NewInt(0), gasLimit, gasPrice, approveData)
	if err != nil {
		return false, err
	}
	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return false, fmt.Errorf("failed to send approval transaction: %w", err)
	}

	e.log.WithFields(logrus.Fields{
		"token":   tx.SrcAsset.Address,
		"spender": tx.ApprovalAddress,
		"hash":    signedTx.Hash().Hex(),
	}).Debug("broadcast ERC-20 approval")

	return true, nil
}

// signTransaction builds and signs a legacy transaction for the configured chain
func (e *EVMExecutor) signTransaction(ctx context.Context, nonce uint64, to common.Address, value *big.Int, gasLimit uint64, gasPrice *big.Int, data []byte) (*ethtypes.Transaction, error) {
	chainID, err := e.chainID(ctx)
	if err != nil {
		return nil, err
	}

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), e.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signedTx, nil
}

// chainID returns the configured chain id, asking the node when the config
// does not pin one
func (e *EVMExecutor) chainID(ctx context.Context) (*big.Int, error) {
	if e.network.ChainID != 0 {
		return big.NewInt(e.network.ChainID), nil
	}
	chainID, err := e.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return chainID, nil
}

// gasPrice returns the gas price to use for transactions
func (e *EVMExecutor) gasPrice(ctx context.Context) (*big.Int, error) {
	// Use configured gas price if available
	if e.network.GasPrice != 0 {
		return big.NewInt(e.network.GasPrice), nil
	}

	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return gasPrice, nil
}

// gasLimit estimates gas for the call with a 20% buffer, falling back to a
// fixed limit when the node refuses to estimate
func (e *EVMExecutor) gasLimit(ctx context.Context, to common.Address, value *big.Int, data []byte) uint64 {
	if e.network.GasLimit != 0 {
		return e.network.GasLimit
	}

	msg := ethereum.CallMsg{
		From:  e.from,
		To:    &to,
		Value: value,
		Data:  data,
	}
	estimated, err := e.client.EstimateGas(ctx, msg)
	if err != nil {
		e.log.WithError(err).Debug("gas estimation failed, using fallback limit")
		return fallbackGasLimit
	}
	return estimated * 120 / 100
}

// parseWeiValue parses a transaction value that providers send either as a
// decimal string or as 0x-prefixed hex. Empty means zero.
func parseWeiValue(value string) (*big.Int, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return big.NewInt(0), nil
	}

	digits := raw
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
		base = 16
	}
	parsed, ok := new(big.Int).SetString(digits, base)
	if !ok || parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid transaction value: %q", raw)
	}
	return parsed, nil
}

// Close closes the client connection
func (e *EVMExecutor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
