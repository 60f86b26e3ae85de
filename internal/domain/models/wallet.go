package models

import "time"

// Wallet is a named signing key. EncryptedKey never leaves the store through listings.
type Wallet struct {
	ID           WalletID  `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	EncryptedKey []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type NewWallet struct {
	Name         string
	Address      string
	EncryptedKey []byte
}
