package usecase

import (
	"context"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ManageWallets adds, lists and removes signing wallets
type ManageWallets struct {
	repo  WalletRepository
	vault KeyVault
}

// NewManageWallets creates a new ManageWallets use case
func NewManageWallets(repo WalletRepository, vault KeyVault) *ManageWallets {
	return &ManageWallets{repo: repo, vault: vault}
}

// Add encrypts a private key and stores it under a unique name
func (uc *ManageWallets) Add(ctx context.Context, name, privateKey string) (*models.Wallet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidParameter("name", "a wallet name is required")
	}

	existing, err := uc.repo.GetWalletByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Validation("wallet '%s' already exists", name)
	}

	address, encrypted, err := uc.vault.Encrypt(privateKey)
	if err != nil {
		return nil, err
	}

	byAddress, err := uc.repo.GetWalletByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if byAddress != nil {
		return nil, domain.Validation("address %s is already stored as wallet '%s'", address, byAddress.Name)
	}

	return uc.repo.CreateWallet(ctx, models.NewWallet{
		Name:         name,
		Address:      address,
		EncryptedKey: encrypted,
	})
}

// List returns every wallet without key material
func (uc *ManageWallets) List(ctx context.Context) ([]*models.Wallet, error) {
	wallets, err := uc.repo.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	if wallets == nil {
		wallets = []*models.Wallet{}
	}
	return wallets, nil
}

// Get returns one wallet by name
func (uc *ManageWallets) Get(ctx context.Context, name string) (*models.Wallet, error) {
	wallet, err := uc.repo.GetWalletByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, domain.WalletNotFound(name)
	}
	return wallet, nil
}

// Remove deletes a wallet by name
func (uc *ManageWallets) Remove(ctx context.Context, name string) error {
	deleted, err := uc.repo.DeleteWallet(ctx, name)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.WalletNotFound(name)
	}
	return nil
}
