package wallet

import (
	"io"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"0x0000000000000000000000000000000000000000", true},
		{"0x0000000000000000000000000000000000000001", true},
		{"0x1234567890123456789012345678901234567890", true},
		{"0xYourWalletAddress", true},
		{"YOUR_WALLET_ADDRESS", true},
		{"your_wallet_address", true},
		{"<YOUR_WALLET_ADDRESS>", true},
		{"  0x0000000000000000000000000000000000000001  ", true},
		{"0X1234567890123456789012345678901234567890", true},
		{"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", false},
		{"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlaceholder(tt.addr))
		})
	}
}

func TestResolveExplicitWins(t *testing.T) {
	r := NewResolver(Credentials{
		Address:       "0x1111111111111111111111111111111111111111",
		EVMPrivateKey: testEVMKey,
	}, quietLogger())

	addr, err := r.Resolve("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", addr)
}

func TestResolvePlaceholderFallsBackToConfigured(t *testing.T) {
	r := NewResolver(Credentials{
		Address: "0x1111111111111111111111111111111111111111",
	}, quietLogger())

	for _, placeholder := range []string{
		"0x0000000000000000000000000000000000000001",
		"0xYourWalletAddress",
		"<YOUR_WALLET_ADDRESS>",
	} {
		addr, err := r.Resolve(placeholder)
		require.NoError(t, err)
		assert.Equal(t, "0x1111111111111111111111111111111111111111", addr)
	}
}

func TestResolvePlaceholderFallsBackToDerived(t *testing.T) {
	r := NewResolver(Credentials{EVMPrivateKey: testEVMKey}, quietLogger())

	addr, err := r.Resolve("0x0000000000000000000000000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, testEVMAddress, addr)
}

func TestResolveEmptyFallsBackToDerived(t *testing.T) {
	r := NewResolver(Credentials{EVMPrivateKey: "0x" + testEVMKey}, quietLogger())

	addr, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, testEVMAddress, addr)
}

func TestResolveForSolana(t *testing.T) {
	w := solana.NewWallet()
	r := NewResolver(Credentials{SolanaPrivateKey: w.PrivateKey.String()}, quietLogger())

	addr, err := r.ResolveFor(types.FamilyOpaquePayload, "")
	require.NoError(t, err)
	assert.Equal(t, w.PublicKey().String(), addr)
}

func TestResolveForUTXODerivesSegwit(t *testing.T) {
	r := NewResolver(Credentials{EVMPrivateKey: testEVMKey}, quietLogger())

	addr, err := r.ResolveFor(types.FamilyUTXO, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(addr, "bc1q"), "got %s", addr)
}

func TestResolveForUnknownFamilyUsesEVM(t *testing.T) {
	r := NewResolver(Credentials{EVMPrivateKey: testEVMKey}, quietLogger())

	addr, err := r.ResolveFor(types.FamilyAccountBased, "")
	require.NoError(t, err)
	assert.Equal(t, testEVMAddress, addr)
}

func TestResolveNothingAvailable(t *testing.T) {
	r := NewResolver(Credentials{}, quietLogger())

	_, err := r.Resolve("")
	require.Error(t, err)

	var resErr *AddressResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Len(t, resErr.Tried, 3)
	assert.Contains(t, err.Error(), "no explicit address given")
	assert.Contains(t, err.Error(), "no wallet address configured")
	assert.Contains(t, err.Error(), "no EVM private key configured")
}

func TestResolvePlaceholderWithoutFallbacks(t *testing.T) {
	r := NewResolver(Credentials{}, quietLogger())

	_, err := r.Resolve("0x0000000000000000000000000000000000000000")
	require.Error(t, err)

	var resErr *AddressResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestResolveBadKeyReportsDerivationFailure(t *testing.T) {
	r := NewResolver(Credentials{EVMPrivateKey: "nothex"}, quietLogger())

	_, err := r.Resolve("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "derivation from EVM private key failed")
}
