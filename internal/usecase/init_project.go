package usecase

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
)

// StoreInitializer prepares a registry backend for first use
type StoreInitializer interface {
	Init(ctx context.Context) error
}

// InitProject handles project initialization
type InitProject struct {
	config *config.RuntimeConfig
	store  StoreInitializer
}

// NewInitProject creates a new init project use case
func NewInitProject(cfg *config.RuntimeConfig, store StoreInitializer) *InitProject {
	return &InitProject{
		config: cfg,
		store:  store,
	}
}

// InitProjectResult contains the result of project initialization
type InitProjectResult struct {
	AlreadyInitialized bool       `json:"alreadyInitialized"`
	Steps              []InitStep `json:"steps"`
}

// InitStep represents a step in the initialization process
type InitStep struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Run creates the data directory, keeps it out of git and initialises the store
func (uc *InitProject) Run(ctx context.Context) (*InitProjectResult, error) {
	result := &InitProjectResult{}

	if _, err := os.Stat(filepath.Join(uc.config.ProjectRoot, "foundry.toml")); err != nil {
		return result, domain.NewError(domain.KindConfig, "not a Foundry project: foundry.toml not found in %s", uc.config.ProjectRoot)
	}

	if _, err := os.Stat(uc.config.DataDir); err == nil {
		result.AlreadyInitialized = true
	}
	if err := os.MkdirAll(uc.config.DataDir, 0755); err != nil {
		return result, domain.WrapError(domain.KindIO, err, "failed to create %s", uc.config.DataDir)
	}
	result.Steps = append(result.Steps, InitStep{
		Name:    "Create data directory",
		Success: true,
		Message: uc.config.DataDir,
	})

	added, err := ensureGitignored(uc.config.ProjectRoot, filepath.Base(uc.config.DataDir)+"/")
	if err != nil {
		return result, err
	}
	message := ".gitignore already lists the data directory"
	if added {
		message = "Added data directory to .gitignore"
	}
	result.Steps = append(result.Steps, InitStep{Name: "Update .gitignore", Success: true, Message: message})

	if err := uc.store.Init(ctx); err != nil {
		return result, err
	}
	result.Steps = append(result.Steps, InitStep{
		Name:    "Initialize registry",
		Success: true,
		Message: "Store: " + string(uc.config.Store),
	})

	return result, nil
}

// ensureGitignored appends entry to the project's .gitignore unless a line already matches it
func ensureGitignored(projectRoot, entry string) (bool, error) {
	path := filepath.Join(projectRoot, ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, domain.WrapError(domain.KindIO, err, "failed to read .gitignore")
	}

	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == entry || line == strings.TrimSuffix(entry, "/") || line == "/"+entry {
			return false, nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, domain.WrapError(domain.KindIO, err, "failed to open .gitignore")
	}
	defer f.Close()

	prefix := ""
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		prefix = "\n"
	}
	if _, err := f.WriteString(prefix + entry + "\n"); err != nil {
		return false, domain.WrapError(domain.KindIO, err, "failed to update .gitignore")
	}
	return true, nil
}
