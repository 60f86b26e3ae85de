package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/usecase"
)

type initRecorder struct {
	calls int
	err   error
}

func (r *initRecorder) Init(ctx context.Context) error {
	r.calls++
	return r.err
}

func TestInitProject(t *testing.T) {
	ctx := context.Background()

	newProject := func(t *testing.T, gitignore string) *config.RuntimeConfig {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "foundry.toml"), []byte("[profile.default]\n"), 0644))
		if gitignore != "" {
			require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0644))
		}
		return &config.RuntimeConfig{ProjectRoot: root, DataDir: filepath.Join(root, ".smolder"), Store: config.StoreFile}
	}

	t.Run("fresh project", func(t *testing.T) {
		cfg := newProject(t, "out/\ncache/")
		store := &initRecorder{}

		result, err := usecase.NewInitProject(cfg, store).Run(ctx)
		require.NoError(t, err)
		assert.False(t, result.AlreadyInitialized)
		assert.Len(t, result.Steps, 3)
		assert.Equal(t, 1, store.calls)
		assert.DirExists(t, cfg.DataDir)

		data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, ".gitignore"))
		require.NoError(t, err)
		assert.Equal(t, "out/\ncache/\n.smolder/\n", string(data))
	})

	t.Run("second run changes nothing", func(t *testing.T) {
		cfg := newProject(t, "")
		uc := usecase.NewInitProject(cfg, &initRecorder{})
		_, err := uc.Run(ctx)
		require.NoError(t, err)

		result, err := uc.Run(ctx)
		require.NoError(t, err)
		assert.True(t, result.AlreadyInitialized)

		data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, ".gitignore"))
		require.NoError(t, err)
		assert.Equal(t, ".smolder/\n", string(data))
	})

	t.Run("existing ignore entry without slash", func(t *testing.T) {
		cfg := newProject(t, ".smolder\n")
		_, err := usecase.NewInitProject(cfg, &initRecorder{}).Run(ctx)
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(cfg.ProjectRoot, ".gitignore"))
		require.NoError(t, err)
		assert.Equal(t, ".smolder\n", string(data))
	})

	t.Run("not a foundry project", func(t *testing.T) {
		root := t.TempDir()
		store := &initRecorder{}
		_, err := usecase.NewInitProject(&config.RuntimeConfig{ProjectRoot: root, DataDir: filepath.Join(root, ".smolder")}, store).Run(ctx)
		require.Error(t, err)
		kind, _ := domain.KindOf(err)
		assert.Equal(t, domain.KindConfig, kind)
		assert.Zero(t, store.calls)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		cfg := newProject(t, "")
		_, err := usecase.NewInitProject(cfg, &initRecorder{err: domain.StorageError(assert.AnError, "schema failed")}).Run(ctx)
		assert.True(t, domain.IsStorage(err))
	})
}
