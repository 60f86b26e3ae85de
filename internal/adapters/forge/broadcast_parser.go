package forge

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

const runLatestFile = "run-latest.json"

// BroadcastParser reads forge's broadcast/<script>/<chainId>/run-latest.json files
type BroadcastParser struct {
	broadcastDir string
	artifacts    usecase.ArtifactLoader
	log          *slog.Logger
}

// NewBroadcastParser creates a parser for the project's configured broadcast directory
func NewBroadcastParser(cfg *config.RuntimeConfig, artifacts usecase.ArtifactLoader, log *slog.Logger) *BroadcastParser {
	_, _, broadcast := cfg.FoundryConfig.Paths()
	return NewBroadcastParserWithDir(filepath.Join(cfg.ProjectRoot, broadcast), artifacts, log)
}

// NewBroadcastParserWithDir creates a parser for an explicit broadcast directory
func NewBroadcastParserWithDir(broadcastDir string, artifacts usecase.ArtifactLoader, log *slog.Logger) *BroadcastParser {
	return &BroadcastParser{
		broadcastDir: broadcastDir,
		artifacts:    artifacts,
		log:          log.With("component", "BroadcastParser"),
	}
}

// Parse reads the latest broadcast of a script on a chain. The script reference may be a
// path and may carry a ":Contract" suffix, e.g. "script/Deploy.s.sol:Deploy".
func (p *BroadcastParser) Parse(scriptRef string, chainID models.ChainID) (*domain.BroadcastOutput, error) {
	scriptFile, _, _ := strings.Cut(scriptRef, ":")
	scriptName := filepath.Base(scriptFile)
	if scriptName == "" || scriptName == "." || scriptName == string(filepath.Separator) {
		return nil, domain.InvalidParameter("script", "invalid script path "+scriptRef)
	}

	path := filepath.Join(p.broadcastDir, scriptName, chainID.String(), runLatestFile)
	if _, err := os.Stat(path); err != nil {
		return nil, domain.NewError(domain.KindFileNotFound,
			"could not find broadcast output at %s, make sure the script was run with --broadcast", path)
	}
	return p.ParseFile(path)
}

// ParseFile reads one broadcast file
func (p *BroadcastParser) ParseFile(path string) (*domain.BroadcastOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewError(domain.KindFileNotFound, "broadcast file not found: %s", path)
		}
		return nil, domain.WrapError(domain.KindIO, err, "failed to read broadcast file %s", path)
	}

	var output domain.BroadcastOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, domain.WrapError(domain.KindSerialization, err, "failed to parse broadcast file %s", path)
	}
	return &output, nil
}

// FindBroadcastFiles lists every broadcast/<script>/<chainId>/run-latest.json, skipping
// non-numeric directories such as forge's dry-run output
func (p *BroadcastParser) FindBroadcastFiles() ([]usecase.BroadcastFileRef, error) {
	scripts, err := os.ReadDir(p.broadcastDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.WrapError(domain.KindIO, err, "failed to read %s", p.broadcastDir)
	}

	var refs []usecase.BroadcastFileRef
	for _, script := range scripts {
		if !script.IsDir() {
			continue
		}
		chains, err := os.ReadDir(filepath.Join(p.broadcastDir, script.Name()))
		if err != nil {
			p.log.Warn("skipping unreadable broadcast directory", "script", script.Name(), "error", err)
			continue
		}
		for _, chain := range chains {
			if !chain.IsDir() {
				continue
			}
			chainID, err := strconv.ParseUint(chain.Name(), 10, 64)
			if err != nil {
				continue
			}
			path := filepath.Join(p.broadcastDir, script.Name(), chain.Name(), runLatestFile)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			refs = append(refs, usecase.BroadcastFileRef{
				Script:  script.Name(),
				ChainID: models.ChainID(chainID),
				Path:    path,
			})
		}
	}

	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Script != refs[j].Script {
			return refs[i].Script < refs[j].Script
		}
		return refs[i].ChainID < refs[j].ChainID
	})
	return refs, nil
}

// ExtractDeployments turns every CREATE transaction carrying a contract name and address into a
// deployment. A transaction whose artifact cannot be loaded is skipped and reported in the error slice.
func (p *BroadcastParser) ExtractDeployments(output *domain.BroadcastOutput) ([]models.ParsedDeployment, []error) {
	var deployments []models.ParsedDeployment
	var errs []error

	for _, tx := range output.Transactions {
		if !tx.IsCreate() || tx.ContractName == "" || tx.ContractAddress == "" {
			continue
		}
		deployment, err := p.extractDeployment(tx, output)
		if err != nil {
			p.log.Warn("skipping deployment", "contract", tx.ContractName, "tx", tx.Hash, "error", err)
			errs = append(errs, err)
			continue
		}
		deployments = append(deployments, *deployment)
	}

	return deployments, errs
}

func (p *BroadcastParser) extractDeployment(tx domain.BroadcastTransaction, output *domain.BroadcastOutput) (*models.ParsedDeployment, error) {
	artifact, err := p.artifacts.Load(tx.ContractName)
	if err != nil {
		return nil, err
	}

	var blockNumber *uint64
	if receipt, ok := output.ReceiptFor(tx.Hash); ok {
		if n, err := domain.ParseHexBlockNumber(receipt.BlockNumber); err == nil {
			blockNumber = &n
		}
	}

	bytecodeHash, err := domain.ComputeBytecodeHash(artifact.Bytecode.Object)
	if err != nil {
		return nil, err
	}

	var constructorArgs *string
	if tx.Arguments != nil {
		encoded, err := json.Marshal(tx.Arguments)
		if err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "failed to encode constructor arguments")
		}
		s := string(encoded)
		constructorArgs = &s
	}

	abiJSON := "[]"
	if len(artifact.ABI) > 0 {
		abiJSON = string(artifact.ABI)
	}

	return &models.ParsedDeployment{
		ContractName:    tx.ContractName,
		Address:         tx.ContractAddress,
		Deployer:        tx.Transaction.From,
		TxHash:          tx.Hash,
		BlockNumber:     blockNumber,
		ConstructorArgs: constructorArgs,
		ABI:             abiJSON,
		BytecodeHash:    bytecodeHash,
		SourcePath:      "src/" + tx.ContractName + ".sol:" + tx.ContractName,
	}, nil
}
