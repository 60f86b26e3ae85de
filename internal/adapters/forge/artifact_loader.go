package forge

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/abi"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ArtifactLoader reads compiled contracts from forge's build output
type ArtifactLoader struct {
	outDir string
	srcDir string
	log    *slog.Logger
}

// NewArtifactLoader creates a loader for the project's configured out and src directories
func NewArtifactLoader(cfg *config.RuntimeConfig, log *slog.Logger) *ArtifactLoader {
	src, out, _ := cfg.FoundryConfig.Paths()
	return NewArtifactLoaderWithDirs(
		filepath.Join(cfg.ProjectRoot, out),
		filepath.Join(cfg.ProjectRoot, src),
		log,
	)
}

// NewArtifactLoaderWithDirs creates a loader for explicit directories
func NewArtifactLoaderWithDirs(outDir, srcDir string, log *slog.Logger) *ArtifactLoader {
	return &ArtifactLoader{
		outDir: outDir,
		srcDir: srcDir,
		log:    log.With("component", "ArtifactLoader"),
	}
}

// Load reads the artifact of a contract, trying out/<Name>.sol/<Name>.json then out/<Name>/<Name>.json
func (l *ArtifactLoader) Load(name string) (*models.Artifact, error) {
	candidates := []string{
		filepath.Join(l.outDir, name+".sol", name+".json"),
		filepath.Join(l.outDir, name, name+".json"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var artifact models.Artifact
		if err := json.Unmarshal(data, &artifact); err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "invalid artifact %s", path)
		}
		return &artifact, nil
	}

	return nil, domain.NewError(domain.KindArtifactNotFound,
		"could not find artifact for contract '%s', make sure `forge build` was run", name)
}

// List enumerates the deployable contracts compiled from the project's own sources, sorted by name
func (l *ArtifactLoader) List() ([]models.ArtifactInfo, error) {
	entries, err := os.ReadDir(l.outDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.ArtifactInfo{}, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindIO, err, "failed to read %s", l.outDir)
	}

	artifacts := []models.ArtifactInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		if strings.HasPrefix(dirName, ".") || dirName == "build-info" {
			continue
		}
		// vendored dependencies compile into out/ too but have no source under src/
		if !l.sourceExists(dirName) {
			continue
		}

		dir := filepath.Join(l.outDir, dirName)
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, domain.WrapError(domain.KindIO, err, "failed to read %s", dir)
		}
		for _, f := range files {
			fileName := f.Name()
			if f.IsDir() || filepath.Ext(fileName) != ".json" || strings.HasSuffix(fileName, ".metadata.json") {
				continue
			}

			path := filepath.Join(dir, fileName)
			data, err := os.ReadFile(path)
			if err != nil {
				l.log.Debug("skipping unreadable artifact", "path", path, "error", err)
				continue
			}
			var artifact models.Artifact
			if err := json.Unmarshal(data, &artifact); err != nil {
				l.log.Debug("skipping malformed artifact", "path", path, "error", err)
				continue
			}
			if !domain.IsValidBytecode(artifact.Bytecode.Object) {
				continue
			}

			hasConstructorArgs := false
			if parsed, err := abi.Parse(string(artifact.ABI)); err == nil {
				hasConstructorArgs = parsed.HasConstructorWithArgs()
			}

			artifacts = append(artifacts, models.ArtifactInfo{
				Name:               strings.TrimSuffix(fileName, ".json"),
				SourcePath:         dirName,
				ArtifactPath:       path,
				HasConstructorArgs: hasConstructorArgs,
			})
		}
	}

	sort.SliceStable(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// Details loads an artifact together with its parsed constructor
func (l *ArtifactLoader) Details(name string) (*models.ArtifactDetails, error) {
	artifact, err := l.Load(name)
	if err != nil {
		return nil, err
	}

	details := &models.ArtifactDetails{
		Name:        name,
		SourcePath:  l.findSourcePath(name),
		ABI:         artifact.ABI,
		HasBytecode: domain.IsValidBytecode(artifact.Bytecode.Object),
	}
	if parsed, err := abi.Parse(string(artifact.ABI)); err == nil {
		details.Constructor = parsed.Constructor()
	}
	return details, nil
}

// sourceExists reports whether a file with the given name exists anywhere under src
func (l *ArtifactLoader) sourceExists(fileName string) bool {
	found := false
	_ = filepath.WalkDir(l.srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == fileName {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// findSourcePath returns the out/ directory holding the artifact, which is named after its source file
func (l *ArtifactLoader) findSourcePath(name string) string {
	entries, err := os.ReadDir(l.outDir)
	if err == nil {
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if _, err := os.Stat(filepath.Join(l.outDir, entry.Name(), name+".json")); err == nil {
				return entry.Name()
			}
		}
	}
	return name + ".sol"
}
