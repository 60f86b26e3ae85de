package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/smolder-dev/smolder/internal/domain/models"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeployment renders detailed deployment information
func (r *DeploymentRenderer) RenderDeployment(d *models.DeploymentView) error {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment #%s: %s\n", d.ID, d.ContractName)
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out)
	field(r.out, "Contract", contractStyle.Sprint(d.ContractName))
	field(r.out, "Network", fmt.Sprintf("%s (chain %s)", d.NetworkName, d.ChainID))
	field(r.out, "Address", d.Address)
	field(r.out, "Deployer", d.Deployer)

	status := successStyle.Sprint("current")
	if !d.IsCurrent {
		status = timestampStyle.Sprint("superseded")
	}
	field(r.out, "Version", fmt.Sprintf("v%d (%s)", d.Version, status))

	fmt.Fprintln(r.out)
	sectionHeaderStyle.Fprintln(r.out, "Transaction:")
	field(r.out, "Hash", d.TxHash)
	if d.BlockNumber != nil {
		field(r.out, "Block", *d.BlockNumber)
	}
	field(r.out, "Deployed At", formatTime(d.DeployedAt))
	return nil
}
