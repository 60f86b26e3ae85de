package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/usecase"
)

func TestManageWallets(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *usecase.ManageWallets {
		vault := new(MockKeyVault)
		vault.On("Encrypt", "0xkey1").Return(deployerAddress, []byte("enc1"), nil)
		vault.On("Encrypt", "0xkey2").Return(holder, []byte("enc2"), nil)
		vault.On("Encrypt", "garbage").Return("", nil, domain.InvalidParameter("private_key", "invalid private key"))
		return usecase.NewManageWallets(newStore(t), vault)
	}

	t.Run("add list remove", func(t *testing.T) {
		uc := setup(t)

		wallet, err := uc.Add(ctx, "deployer", "0xkey1")
		require.NoError(t, err)
		assert.Equal(t, deployerAddress, wallet.Address)

		_, err = uc.Add(ctx, "ops", "0xkey2")
		require.NoError(t, err)

		wallets, err := uc.List(ctx)
		require.NoError(t, err)
		require.Len(t, wallets, 2)
		for _, w := range wallets {
			assert.Empty(t, w.EncryptedKey)
		}

		require.NoError(t, uc.Remove(ctx, "ops"))
		wallets, err = uc.List(ctx)
		require.NoError(t, err)
		assert.Len(t, wallets, 1)
	})

	t.Run("duplicate name", func(t *testing.T) {
		uc := setup(t)
		_, err := uc.Add(ctx, "deployer", "0xkey1")
		require.NoError(t, err)
		_, err = uc.Add(ctx, "deployer", "0xkey2")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("duplicate address", func(t *testing.T) {
		uc := setup(t)
		_, err := uc.Add(ctx, "deployer", "0xkey1")
		require.NoError(t, err)
		_, err = uc.Add(ctx, "again", "0xkey1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "deployer")
	})

	t.Run("invalid key and name", func(t *testing.T) {
		uc := setup(t)
		_, err := uc.Add(ctx, "bad", "garbage")
		assert.True(t, domain.IsValidation(err))
		_, err = uc.Add(ctx, "  ", "0xkey1")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("remove missing", func(t *testing.T) {
		uc := setup(t)
		err := uc.Remove(ctx, "ghost")
		require.Error(t, err)
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindWalletNotFound, kind)

		_, err = uc.Get(ctx, "ghost")
		assert.True(t, domain.IsNotFound(err))
	})
}
