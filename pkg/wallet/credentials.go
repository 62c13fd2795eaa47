package wallet

// Credentials carries the wallet material the engine may act with. It is
// built once by the caller (from config) and passed in explicitly; nothing
// in this package reads the environment on its own.
type Credentials struct {
	// Address is a pre-configured public address, used as-is when set.
	Address string

	// EVMPrivateKey is a hex-encoded secp256k1 key (0x prefix optional),
	// used to derive an address for account-based and utxo-like chains.
	EVMPrivateKey string

	// SolanaPrivateKey is an ed25519 keypair in base58, base64 or JSON
	// byte-array form, used to derive an address for opaque-payload chains.
	SolanaPrivateKey string
}

// HasSigner reports whether any private key is configured.
func (c Credentials) HasSigner() bool {
	return c.EVMPrivateKey != "" || c.SolanaPrivateKey != ""
}
