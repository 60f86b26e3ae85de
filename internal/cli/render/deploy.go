package render

import (
	"fmt"
	"io"

	"github.com/smolder-dev/smolder/internal/usecase"
)

// DeployRenderer renders script runs and live deployments
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderScriptResult renders the outcome of a forge script run
func (r *DeployRenderer) RenderScriptResult(result *usecase.DeployScriptResult) error {
	if result.DryRun {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Simulation on %s succeeded", result.Network.Name)))
		fmt.Fprintln(r.out, timestampStyle.Sprint("Nothing was broadcast; rerun with --broadcast to deploy."))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Script broadcast to %s (chain %d)", result.Network.Name, result.Network.ChainID)))
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No new deployments recorded")
	} else {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Recorded:")
		for _, rec := range result.Deployments {
			fmt.Fprintf(r.out, "  • %s v%d at %s\n",
				contractStyle.Sprint(rec.ContractName), rec.Deployment.Version, rec.Deployment.Address)
		}
	}
	if result.AlreadyRecorded > 0 {
		fmt.Fprintf(r.out, "\nAlready recorded: %d\n", result.AlreadyRecorded)
	}
	return nil
}

// RenderArtifactDeployment renders a deployment sent from a compiled artifact
func (r *DeployRenderer) RenderArtifactDeployment(result *usecase.DeployArtifactResult) error {
	d := result.Deployment
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %s v%d to %s", d.ContractName, d.Version, d.NetworkName)))
	field(r.out, "Address", d.Address)
	field(r.out, "Tx Hash", result.Tx.TxHash)
	field(r.out, "Block", result.Tx.BlockNumber)
	field(r.out, "Gas Used", result.Tx.GasUsed)
	field(r.out, "Deployment", d.ID)
	return nil
}
