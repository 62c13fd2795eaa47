package wallet

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/strangelove-ventures/web3-mcp/pkg/types"
)

// placeholderAddresses are fill-in-the-blank example values that callers
// paste verbatim from documentation or tool prompts. Treating one as a real
// destination would route funds to a dead address, so they are substituted
// with the caller's own wallet instead.
var placeholderAddresses = map[string]bool{
	"0x0000000000000000000000000000000000000000": true,
	"0x0000000000000000000000000000000000000001": true,
	"0x1234567890123456789012345678901234567890": true,
	"0xyourwalletaddress":                        true,
	"your_wallet_address":                        true,
	"<your_wallet_address>":                      true,
}

// IsPlaceholder reports whether addr is a known example address that must
// never be used as a real sender or receiver.
func IsPlaceholder(addr string) bool {
	return placeholderAddresses[strings.ToLower(strings.TrimSpace(addr))]
}

// AddressResolutionError reports that no usable wallet address could be
// found, listing every source that was tried.
type AddressResolutionError struct {
	Tried []string
}

func (e *AddressResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve a wallet address: %s", strings.Join(e.Tried, "; "))
}

// Resolver resolves the wallet address to act as sender or receiver.
//
// Resolution order: an explicit non-placeholder address wins; otherwise the
// configured public address; otherwise an address derived from the
// configured private key for the requested chain family.
type Resolver struct {
	creds Credentials
	log   *logrus.Logger
}

// NewResolver builds a resolver over the given credentials.
func NewResolver(creds Credentials, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{creds: creds, log: log}
}

// Resolve resolves an address for account-based chains. See ResolveFor.
func (r *Resolver) Resolve(explicit string) (string, error) {
	return r.ResolveFor(types.FamilyAccountBased, explicit)
}

// ResolveFor resolves the acting wallet address for a chain family. It
// fails with *AddressResolutionError when every source comes up empty;
// private keys are never logged.
func (r *Resolver) ResolveFor(family types.ChainFamily, explicit string) (string, error) {
	var tried []string

	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if !IsPlaceholder(explicit) {
			r.logSource(family, "explicit")
			return explicit, nil
		}
		r.log.WithFields(logrus.Fields{"address": explicit, "family": family}).
			Warn("ignoring placeholder wallet address")
		tried = append(tried, fmt.Sprintf("explicit address %q is a placeholder", explicit))
	} else {
		tried = append(tried, "no explicit address given")
	}

	if r.creds.Address != "" {
		r.logSource(family, "configured")
		return r.creds.Address, nil
	}
	tried = append(tried, "no wallet address configured")

	addr, err := r.derive(family)
	if err == nil {
		r.logSource(family, "derived")
		return addr, nil
	}
	tried = append(tried, err.Error())

	return "", &AddressResolutionError{Tried: tried}
}

func (r *Resolver) derive(family types.ChainFamily) (string, error) {
	switch family {
	case types.FamilyOpaquePayload:
		if r.creds.SolanaPrivateKey == "" {
			return "", fmt.Errorf("no Solana private key configured")
		}
		key, err := SolanaKeyFromString(r.creds.SolanaPrivateKey)
		if err != nil {
			return "", fmt.Errorf("derivation from Solana private key failed: %w", err)
		}
		return SolanaAddressFromKey(key), nil
	case types.FamilyUTXO:
		if r.creds.EVMPrivateKey == "" {
			return "", fmt.Errorf("no private key configured")
		}
		key, err := EVMKeyFromHex(r.creds.EVMPrivateKey)
		if err != nil {
			return "", fmt.Errorf("derivation from private key failed: %w", err)
		}
		return BTCAddressFromKey(key)
	default:
		if r.creds.EVMPrivateKey == "" {
			return "", fmt.Errorf("no EVM private key configured")
		}
		key, err := EVMKeyFromHex(r.creds.EVMPrivateKey)
		if err != nil {
			return "", fmt.Errorf("derivation from EVM private key failed: %w", err)
		}
		return EVMAddressFromKey(key)
	}
}

func (r *Resolver) logSource(family types.ChainFamily, source string) {
	r.log.WithFields(logrus.Fields{"source": source, "family": family}).
		Debug("resolved wallet address")
}
