package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// DeploymentsRenderer renders deployment lists grouped by network
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders one table per network followed by a summary
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}
	byNetwork := make(map[string][]*models.DeploymentView)
	chainIDs := make(map[string]models.ChainID)
	for _, d := range result.Deployments {
		byNetwork[d.NetworkName] = append(byNetwork[d.NetworkName], d)
		chainIDs[d.NetworkName] = d.ChainID
	}

	networks := make([]string, 0, len(byNetwork))
	for name := range byNetwork {
		networks = append(networks, name)
	}
	sort.Strings(networks)

	for i, name := range networks {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		fmt.Fprintf(r.out, "%s%s\n",
			chainHeaderBold.Sprintf(" %s ", name),
			chainHeader.Sprintf(" chain %s ", chainIDs[name]))

		fmt.Fprintln(r.out, r.table(byNetwork[name]))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Total: %d deployment(s) across %d network(s)\n", result.Summary.Total, len(result.Summary.ByNetwork))
	return nil
}

func (r *DeploymentsRenderer) table(deployments []*models.DeploymentView) string {
	sorted := make([]*models.DeploymentView, len(deployments))
	copy(sorted, deployments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ContractName != sorted[j].ContractName {
			return sorted[i].ContractName < sorted[j].ContractName
		}
		return sorted[i].Version > sorted[j].Version
	})

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{PaddingLeft: "  ", PaddingRight: " "}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	t.AppendHeader(table.Row{"ID", "CONTRACT", "ADDRESS", "VERSION", "DEPLOYED"})
	for _, d := range sorted {
		name := contractStyle.Sprint(d.ContractName)
		version := fmt.Sprintf("v%d", d.Version)
		if !d.IsCurrent {
			name = timestampStyle.Sprint(d.ContractName)
			version = timestampStyle.Sprintf("v%d (superseded)", d.Version)
		}
		t.AppendRow(table.Row{
			d.ID,
			name,
			addressStyle.Sprint(d.Address),
			version,
			timestampStyle.Sprint(formatTime(d.DeployedAt)),
		})
	}
	return t.Render()
}
