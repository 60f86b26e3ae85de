package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/smolder-dev/smolder/internal/domain"
	"github.com/smolder-dev/smolder/internal/domain/config"
	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectDeployment lets the user pick one deployment; non-interactive runs get an error naming the networks
func (s *SelectorAdapter) SelectDeployment(ctx context.Context, candidates []*models.DeploymentView, prompt string) (*models.DeploymentView, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no deployments provided for selection")
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	if s.config.NonInteractive || s.config.JSON {
		networks := make([]string, len(candidates))
		for i, c := range candidates {
			networks[i] = c.NetworkName
		}
		return nil, domain.Validation("%s is ambiguous, pass --network (one of: %s)",
			candidates[0].ContractName, strings.Join(networks, ", "))
	}

	options := formatDeploymentOptions(candidates)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return candidates[index], nil
}

// formatDeploymentOptions creates display strings for deployment selection
func formatDeploymentOptions(candidates []*models.DeploymentView) []string {
	options := make([]string, len(candidates))
	for i, c := range candidates {
		network := color.New(color.FgWhite, color.Bold).Sprint(c.NetworkName)
		address := color.New(color.FgBlue).Sprint(c.Address)
		options[i] = fmt.Sprintf("%s v%d %s (#%s)", network, c.Version, address, c.ID)
	}
	return options
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.DeploymentSelector = (*SelectorAdapter)(nil)
