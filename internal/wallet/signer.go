package wallet

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// Signer authorises transactions on behalf of one address.
type Signer interface {
	Address() string
	SignTransaction(tx types.Transaction) (txID string, signed []byte, err error)
}

// MnemonicSigner signs with a key derived from a 25-word account mnemonic.
type MnemonicSigner struct {
	address string
	key     ed25519.PrivateKey
}

// NewMnemonicSigner derives the account behind phrase.
func NewMnemonicSigner(phrase string) (*MnemonicSigner, error) {
	key, err := mnemonic.ToPrivateKey(strings.Join(strings.Fields(phrase), " "))
	if err != nil {
		return nil, fmt.Errorf("decoding mnemonic: %w", err)
	}
	acct, err := crypto.AccountFromPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("deriving account: %w", err)
	}
	return &MnemonicSigner{address: acct.Address.String(), key: key}, nil
}

// Address returns the signer's account address.
func (s *MnemonicSigner) Address() string {
	return s.address
}

// SignTransaction signs tx and returns its id with the msgpack-encoded signed transaction.
func (s *MnemonicSigner) SignTransaction(tx types.Transaction) (string, []byte, error) {
	txID, signed, err := crypto.SignTransaction(s.key, tx)
	if err != nil {
		return "", nil, fmt.Errorf("signing transaction: %w", err)
	}
	return txID, signed, nil
}

// ValidAddress reports whether addr is a well-formed account address.
func ValidAddress(addr string) bool {
	_, err := types.DecodeAddress(addr)
	return err == nil
}
