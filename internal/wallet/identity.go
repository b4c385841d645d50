package wallet

import (
	"errors"
	"fmt"
	"strings"

	addresscodec "github.com/Peersyst/xrpl-go/address-codec"
	xrplcrypto "github.com/Peersyst/xrpl-go/pkg/crypto"
	"github.com/Peersyst/xrpl-go/xrpl/transaction"
	xrplwallet "github.com/Peersyst/xrpl-go/xrpl/wallet"

	"github.com/LeJamon/campuspay/internal/apperr"
	"github.com/LeJamon/campuspay/internal/crypto"
)

var ErrIdentityClosed = errors.New("wallet: identity closed")

// Identity is a ledger account's key material. The seed stays inside the
// identity; Sign derives the keys on demand.
type Identity struct {
	address   string
	publicKey string
	seed      *crypto.Seed
}

func fromWallet(w xrplwallet.Wallet) *Identity {
	return &Identity{
		address:   string(w.ClassicAddress),
		publicKey: w.PublicKey,
		seed:      crypto.NewSeed(w.Seed),
	}
}

// Generate creates a fresh ed25519 identity. It is not funded.
func Generate() (*Identity, error) {
	w, err := xrplwallet.New(xrplcrypto.ED25519())
	if err != nil {
		return nil, fmt.Errorf("generate wallet: %w", err)
	}
	return fromWallet(w), nil
}

// RecoverFromSeed derives the identity for an encoded family seed. The same
// seed always yields the same address and public key.
func RecoverFromSeed(seed string) (id *Identity, err error) {
	const op = "wallet.recover"

	seed = strings.TrimSpace(seed)
	if seed == "" || seed[0] != 's' {
		return nil, apperr.InvalidSeed(op, errors.New("seed must be an encoded family seed"))
	}

	// Malformed base58 input can panic deep in the codec.
	defer func() {
		if r := recover(); r != nil {
			id = nil
			err = apperr.InvalidSeed(op, fmt.Errorf("%v", r))
		}
	}()

	w, err := xrplwallet.FromSeed(seed, "")
	if err != nil {
		return nil, apperr.InvalidSeed(op, err)
	}
	return fromWallet(w), nil
}

func (i *Identity) Address() string {
	return i.address
}

func (i *Identity) PublicKey() string {
	return i.publicKey
}

// Seed reveals the secret seed. Only the wallet creation response may carry
// it back to its owner; it must never be logged.
func (i *Identity) Seed() string {
	return i.seed.Reveal()
}

// Sign signs a fully autofilled transaction and returns the hex blob and
// its hash. A field the binary codec cannot encode is returned as an error.
func (i *Identity) Sign(tx transaction.FlatTransaction) (blob, hash string, err error) {
	seed := i.seed.Reveal()
	if seed == "" {
		return "", "", ErrIdentityClosed
	}
	// The codec panics on field values of an unexpected Go type.
	defer func() {
		if r := recover(); r != nil {
			blob, hash = "", ""
			err = fmt.Errorf("sign %v: encode: %v", tx["TransactionType"], r)
		}
	}()
	w, err := xrplwallet.FromSeed(seed, "")
	if err != nil {
		return "", "", fmt.Errorf("derive signing keys: %w", err)
	}
	blob, hash, err = w.Sign(tx)
	if err != nil {
		return "", "", fmt.Errorf("sign %v: %w", tx["TransactionType"], err)
	}
	return blob, hash, nil
}

// Close erases the seed. The identity can no longer sign afterwards.
func (i *Identity) Close() {
	i.seed.Close()
}

func (i *Identity) String() string {
	return i.address
}

// ValidateAddress checks a classic address, including its checksum.
func ValidateAddress(address string) error {
	if !addresscodec.IsValidClassicAddress(address) {
		return fmt.Errorf("invalid classic address %q", address)
	}
	return nil
}
