package wallet

import (
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
)

// EVMKeyFromHex parses a hex-encoded secp256k1 private key, accepting an
// optional 0x prefix.
func EVMKeyFromHex(raw string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(raw), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVM private key: %w", err)
	}
	return key, nil
}

// EVMAddressFromKey derives the checksummed address for a private key.
func EVMAddressFromKey(key *ecdsa.PrivateKey) (string, error) {
	pub, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("failed to get public key")
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// solanaKeyParser is one attempt at decoding a Solana keypair. Attempts run
// in a fixed order and the first success wins; parse failures select the
// next format rather than aborting.
type solanaKeyParser struct {
	format string
	parse  func(string) (solana.PrivateKey, error)
}

var solanaKeyParsers = []solanaKeyParser{
	{
		format: "base58",
		parse: func(raw string) (solana.PrivateKey, error) {
			return solana.PrivateKeyFromBase58(raw)
		},
	},
	{
		format: "base64",
		parse: func(raw string) (solana.PrivateKey, error) {
			b, err := base64.StdEncoding.DecodeString(raw)
			if err != nil {
				return nil, err
			}
			return solana.PrivateKey(b), nil
		},
	},
	{
		format: "json-byte-array",
		parse: func(raw string) (solana.PrivateKey, error) {
			var b []byte
			if err := json.Unmarshal([]byte(raw), &b); err == nil {
				return solana.PrivateKey(b), nil
			}
			// json.Unmarshal into []byte expects base64; keygen files are
			// plain integer arrays, so decode those explicitly.
			var ints []int
			if err := json.Unmarshal([]byte(raw), &ints); err != nil {
				return nil, err
			}
			b = make([]byte, len(ints))
			for i, v := range ints {
				if v < 0 || v > 255 {
					return nil, fmt.Errorf("byte %d out of range: %d", i, v)
				}
				b[i] = byte(v)
			}
			return solana.PrivateKey(b), nil
		},
	},
}

// SolanaKeyFromString decodes an ed25519 keypair, trying base58, base64 and
// JSON byte-array encodings in that order.
func SolanaKeyFromString(raw string) (solana.PrivateKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty Solana private key")
	}

	var tried []string
	for _, p := range solanaKeyParsers {
		key, err := p.parse(raw)
		if err == nil && len(key) == 64 {
			return key, nil
		}
		if err == nil {
			err = fmt.Errorf("decoded to %d bytes, want 64", len(key))
		}
		tried = append(tried, fmt.Sprintf("%s (%v)", p.format, err))
	}
	return nil, fmt.Errorf("invalid Solana private key, tried: %s", strings.Join(tried, "; "))
}

// SolanaAddressFromKey returns the base58 public key for a keypair.
func SolanaAddressFromKey(key solana.PrivateKey) string {
	return key.PublicKey().String()
}

// BTCAddressFromKey derives the Bitcoin mainnet segwit address for a
// secp256k1 private key. Other UTXO chains use different encodings and
// need an explicit or configured address instead.
func BTCAddressFromKey(key *ecdsa.PrivateKey) (string, error) {
	pubKeyHash := btcutil.Hash160(crypto.CompressPubkey(&key.PublicKey))
	addr, err := btcutil.NewAddressWitnessPubKeyHash(pubKeyHash, &chaincfg.MainNetParams)
	if err != nil {
		return "", fmt.Errorf("failed to derive segwit address: %w", err)
	}
	return addr.EncodeAddress(), nil
}
