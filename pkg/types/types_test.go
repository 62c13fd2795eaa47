package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChainFamilyFor(t *testing.T) {
	tests := []struct {
		chain string
		want  ChainFamily
	}{
		{"ETH", FamilyAccountBased},
		{"BSC", FamilyAccountBased},
		{"POLYGON", FamilyAccountBased},
		{"eth", FamilyAccountBased},
		{"BTC", FamilyUTXO},
		{"btc", FamilyUTXO},
		{"LTC", FamilyUTXO},
		{"DOGE", FamilyUTXO},
		{"SOLANA", FamilyOpaquePayload},
		{"solana", FamilyOpaquePayload},
		{" ETH ", FamilyAccountBased},
		// Unknown chains default to account-based.
		{"SOME_NEW_CHAIN", FamilyAccountBased},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			assert.Equal(t, tt.want, ChainFamilyFor(tt.chain))
		})
	}
}

func TestChainAssetIsNative(t *testing.T) {
	assert.True(t, ChainAsset{Address: NativeAssetAddress}.IsNative())
	assert.True(t, ChainAsset{Address: "0x0000000000000000000000000000000000000000"}.IsNative())
	assert.True(t, ChainAsset{}.IsNative())
	assert.False(t, ChainAsset{Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7"}.IsNative())
}

func TestRouteRequestValidate(t *testing.T) {
	valid := RouteRequest{
		SrcAsset:    NativeAsset("ETH", "ETH", 18),
		SrcChain:    "ETH",
		SrcAmount:   "1000000000000000000",
		DstAsset:    NativeAsset("BSC", "BNB", 18),
		DstChain:    "BSC",
		SlippagePct: 1,
	}

	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *RouteRequest)
	}{
		{"missing source chain", func(r *RouteRequest) { r.SrcChain = "" }},
		{"missing destination chain", func(r *RouteRequest) { r.DstChain = "" }},
		{"missing amount", func(r *RouteRequest) { r.SrcAmount = "" }},
		{"non-decimal amount", func(r *RouteRequest) { r.SrcAmount = "1.2.3" }},
		{"slippage too low", func(r *RouteRequest) { r.SlippagePct = 0.001 }},
		{"slippage too high", func(r *RouteRequest) { r.SlippagePct = 51 }},
		{"timeout too low", func(r *RouteRequest) { r.TimeoutSec = 2 }},
		{"timeout too high", func(r *RouteRequest) { r.TimeoutSec = 90 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestRouteRequestEffectiveTimeout(t *testing.T) {
	req := RouteRequest{}
	assert.Equal(t, DefaultTimeoutSec, req.EffectiveTimeoutSec())

	req.TimeoutSec = 45
	assert.Equal(t, 45, req.EffectiveTimeoutSec())
}

func TestPreparedTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		tx      PreparedTransaction
		wantErr string
	}{
		{
			name: "account-based complete",
			tx:   PreparedTransaction{ChainFamily: FamilyAccountBased, To: "0xAA", Data: "0xbb"},
		},
		{
			name:    "account-based missing to",
			tx:      PreparedTransaction{ChainFamily: FamilyAccountBased, Data: "0xbb"},
			wantErr: "'to'",
		},
		{
			name:    "account-based missing data",
			tx:      PreparedTransaction{ChainFamily: FamilyAccountBased, To: "0xAA"},
			wantErr: "'data'",
		},
		{
			name: "utxo complete",
			tx:   PreparedTransaction{ChainFamily: FamilyUTXO, To: "bc1qxyz", Value: "10000"},
		},
		{
			name:    "utxo missing amount",
			tx:      PreparedTransaction{ChainFamily: FamilyUTXO, To: "bc1qxyz"},
			wantErr: "amount",
		},
		{
			name: "opaque complete",
			tx:   PreparedTransaction{ChainFamily: FamilyOpaquePayload, Data: "AQIDBA=="},
		},
		{
			name:    "opaque missing data",
			tx:      PreparedTransaction{ChainFamily: FamilyOpaquePayload},
			wantErr: "'data'",
		},
		{
			name: "manual skips field checks",
			tx:   PreparedTransaction{ChainFamily: FamilyAccountBased, Manual: true, Note: "construct manually"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestStatusStateTerminal(t *testing.T) {
	terminal := []StatusState{StateSuccess, StateClaim, StateRevert, StateFailed, StateError}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "state %s should be terminal", s)
	}

	for _, s := range []StatusState{StatePending, StateIndexing} {
		assert.False(t, s.IsTerminal(), "state %s should not be terminal", s)
	}

	assert.True(t, StateSuccess.Succeeded())
	assert.True(t, StateClaim.Succeeded())
	assert.False(t, StateRevert.Succeeded())
	assert.False(t, StateFailed.Succeeded())
	assert.False(t, StateError.Succeeded())
}
