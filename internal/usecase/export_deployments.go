package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ExportFormat names an export encoding
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
	ExportTS   ExportFormat = "ts"
	ExportEnv  ExportFormat = "env"
)

// ExportFormats lists the supported formats
var ExportFormats = []ExportFormat{ExportJSON, ExportYAML, ExportTS, ExportEnv}

// ExportDeployments renders the current deployments for consumption by other tools
type ExportDeployments struct {
	repo DeploymentRepository
}

// NewExportDeployments creates a new ExportDeployments use case
func NewExportDeployments(repo DeploymentRepository) *ExportDeployments {
	return &ExportDeployments{repo: repo}
}

// ExportParams selects the network (empty for all) and the format
type ExportParams struct {
	Network string
	Format  ExportFormat
}

// ExportedNetwork groups the current deployments of one network
type ExportedNetwork struct {
	ChainID   models.ChainID              `json:"chainId" yaml:"chainId"`
	Contracts map[string]ExportedContract `json:"contracts" yaml:"contracts"`
}

// ExportedContract is the exported form of a current deployment
type ExportedContract struct {
	Address     string    `json:"address" yaml:"address"`
	Version     int       `json:"version" yaml:"version"`
	TxHash      string    `json:"txHash" yaml:"txHash"`
	BlockNumber *uint64   `json:"blockNumber,omitempty" yaml:"blockNumber,omitempty"`
	DeployedAt  time.Time `json:"deployedAt" yaml:"deployedAt"`
}

// Run renders the export document
func (uc *ExportDeployments) Run(ctx context.Context, params ExportParams) ([]byte, error) {
	format := ExportFormat(strings.ToLower(string(params.Format)))
	if format == "" {
		format = ExportJSON
	}

	views, err := uc.repo.ListDeploymentsForExport(ctx, params.Network)
	if err != nil {
		return nil, err
	}
	networks := groupForExport(views)

	switch format {
	case ExportJSON:
		data, err := json.MarshalIndent(networks, "", "  ")
		if err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "failed to encode export")
		}
		return append(data, '\n'), nil
	case ExportYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(networks); err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "failed to encode export")
		}
		if err := enc.Close(); err != nil {
			return nil, domain.WrapError(domain.KindSerialization, err, "failed to encode export")
		}
		return buf.Bytes(), nil
	case ExportTS:
		return renderTypeScript(networks), nil
	case ExportEnv:
		return renderEnv(networks), nil
	default:
		return nil, domain.InvalidParameter("format", fmt.Sprintf("unsupported format '%s' (expected json, yaml, ts or env)", params.Format))
	}
}

func groupForExport(views []*models.DeploymentView) map[string]ExportedNetwork {
	networks := make(map[string]ExportedNetwork)
	for _, v := range views {
		network, ok := networks[v.NetworkName]
		if !ok {
			network = ExportedNetwork{ChainID: v.ChainID, Contracts: make(map[string]ExportedContract)}
			networks[v.NetworkName] = network
		}
		network.Contracts[v.ContractName] = ExportedContract{
			Address:     v.Address,
			Version:     v.Version,
			TxHash:      v.TxHash,
			BlockNumber: v.BlockNumber,
			DeployedAt:  v.DeployedAt,
		}
	}
	return networks
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func renderTypeScript(networks map[string]ExportedNetwork) []byte {
	var b strings.Builder
	b.WriteString("// Generated by smolder export. Do not edit.\n\n")
	b.WriteString("export const deployments = {\n")
	for _, name := range sortedKeys(networks) {
		network := networks[name]
		fmt.Fprintf(&b, "  %q: {\n", name)
		fmt.Fprintf(&b, "    chainId: %d,\n", network.ChainID)
		b.WriteString("    contracts: {\n")
		for _, contract := range sortedKeys(network.Contracts) {
			c := network.Contracts[contract]
			fmt.Fprintf(&b, "      %q: { address: %q, version: %d },\n", contract, c.Address, c.Version)
		}
		b.WriteString("    },\n")
		b.WriteString("  },\n")
	}
	b.WriteString("} as const;\n\n")
	b.WriteString("export type NetworkName = keyof typeof deployments;\n")
	return []byte(b.String())
}

func renderEnv(networks map[string]ExportedNetwork) []byte {
	var b strings.Builder
	for _, name := range sortedKeys(networks) {
		network := networks[name]
		fmt.Fprintf(&b, "# %s (chain %d)\n", name, network.ChainID)
		for _, contract := range sortedKeys(network.Contracts) {
			fmt.Fprintf(&b, "%s=%s\n", EnvKey(name, contract), network.Contracts[contract].Address)
		}
	}
	return []byte(b.String())
}

var upper = cases.Upper(language.Und)

// EnvKey builds NETWORK_CONTRACT_ADDRESS, splitting camel case and replacing punctuation with underscores
func EnvKey(network, contract string) string {
	return upper.String(envWord(network) + "_" + envWord(contract) + "_ADDRESS")
}

func envWord(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
