package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// NetworksRenderer renders network and contract lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders configured and registered networks
func (r *NetworksRenderer) RenderNetworksList(networks []usecase.NetworkInfo) error {
	if len(networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, n := range networks {
		switch {
		case n.Network != nil && n.Configured:
			fmt.Fprintf(r.out, "  ✅ %s - Chain ID: %s\n", n.Name, n.Network.ChainID)
		case n.Network != nil:
			fmt.Fprintf(r.out, "  %s %s - Chain ID: %s %s\n", warningStyle.Sprint("•"), n.Name, n.Network.ChainID,
				timestampStyle.Sprint("(not in foundry.toml)"))
		default:
			fmt.Fprintf(r.out, "  %s %s %s\n", labelStyle.Sprint("○"), n.Name, timestampStyle.Sprint("(no deployments yet)"))
		}
	}
	return nil
}

// RenderContracts renders the contracts known to the registry
func (r *NetworksRenderer) RenderContracts(contracts []*models.Contract) error {
	if len(contracts) == 0 {
		fmt.Fprintln(r.out, "No contracts recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"ID", "NAME", "SOURCE", "BYTECODE HASH"})
	for _, c := range contracts {
		t.AppendRow(table.Row{c.ID, contractStyle.Sprint(c.Name), c.SourcePath, shortHash(c.BytecodeHash)})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}
