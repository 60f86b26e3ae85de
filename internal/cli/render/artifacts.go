package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/smolder-dev/smolder/internal/domain/models"
)

// ArtifactsRenderer renders compiled artifacts
type ArtifactsRenderer struct {
	out io.Writer
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out}
}

// RenderArtifacts renders the artifact listing
func (r *ArtifactsRenderer) RenderArtifacts(artifacts []models.ArtifactInfo) error {
	if len(artifacts) == 0 {
		fmt.Fprintln(r.out, "No artifacts found; run forge build first")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"NAME", "SOURCE", "CONSTRUCTOR ARGS"})
	for _, a := range artifacts {
		args := "no"
		if a.HasConstructorArgs {
			args = "yes"
		}
		t.AppendRow(table.Row{contractStyle.Sprint(a.Name), a.SourcePath, args})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderArtifact renders one artifact's constructor
func (r *ArtifactsRenderer) RenderArtifact(details *models.ArtifactDetails) error {
	fmt.Fprintf(r.out, "%s %s\n", contractStyle.Sprint(details.Name), timestampStyle.Sprint(details.SourcePath))
	if !details.HasBytecode {
		fmt.Fprintln(r.out, FormatWarning("artifact has no creation bytecode (abstract contract or interface)"))
	}

	if details.Constructor == nil || len(details.Constructor.Inputs) == 0 {
		fmt.Fprintln(r.out, "Constructor: ()")
		return nil
	}

	params := make([]string, len(details.Constructor.Inputs))
	for i, in := range details.Constructor.Inputs {
		params[i] = strings.TrimSpace(in.Type + " " + in.Name)
	}
	fmt.Fprintf(r.out, "Constructor: (%s)", strings.Join(params, ", "))
	if details.Constructor.IsPayable() {
		fmt.Fprint(r.out, " "+warningStyle.Sprint("payable"))
	}
	fmt.Fprintln(r.out)
	return nil
}
