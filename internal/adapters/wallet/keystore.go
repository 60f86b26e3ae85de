package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
)

// KeystoreVault encrypts private keys into Web3 Secret Storage JSON using a passphrase
type KeystoreVault struct {
	passphrase string
	scryptN    int
	scryptP    int
}

// NewKeystoreVault creates a vault with the standard scrypt parameters
func NewKeystoreVault(cfg *config.RuntimeConfig) *KeystoreVault {
	return NewKeystoreVaultWithParams(cfg.WalletPassphrase, keystore.StandardScryptN, keystore.StandardScryptP)
}

// NewKeystoreVaultWithParams creates a vault with explicit scrypt cost parameters
func NewKeystoreVaultWithParams(passphrase string, scryptN, scryptP int) *KeystoreVault {
	return &KeystoreVault{
		passphrase: passphrase,
		scryptN:    scryptN,
		scryptP:    scryptP,
	}
}

// Encrypt parses a hex private key and returns its checksummed address and the encrypted key JSON
func (v *KeystoreVault) Encrypt(privateKeyHex string) (string, []byte, error) {
	if v.passphrase == "" {
		return "", nil, domain.NewError(domain.KindKeyring, "wallet passphrase is not set (SMOLDER_WALLET_PASSPHRASE)")
	}

	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return "", nil, domain.InvalidParameter("private key", "not valid hex")
	}
	privateKey, err := crypto.ToECDSA(raw)
	if err != nil {
		return "", nil, domain.InvalidParameter("private key", err.Error())
	}

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}
	encrypted, err := keystore.EncryptKey(key, v.passphrase, v.scryptN, v.scryptP)
	if err != nil {
		return "", nil, domain.WrapError(domain.KindKeyring, err, "failed to encrypt private key")
	}
	return key.Address.Hex(), encrypted, nil
}

// Decrypt recovers the private key from its encrypted JSON
func (v *KeystoreVault) Decrypt(encrypted []byte) (*ecdsa.PrivateKey, error) {
	key, err := keystore.DecryptKey(encrypted, v.passphrase)
	if err != nil {
		return nil, domain.WrapError(domain.KindKeyring, err, "failed to decrypt wallet key")
	}
	return key.PrivateKey, nil
}
