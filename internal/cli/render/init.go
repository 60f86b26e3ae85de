package render

import (
	"fmt"
	"io"

	"github.com/smolder-dev/smolder/internal/usecase"
)

// InitRenderer renders project initialization
type InitRenderer struct {
	out io.Writer
}

// NewInitRenderer creates a new init renderer
func NewInitRenderer(out io.Writer) *InitRenderer {
	return &InitRenderer{out: out}
}

func (r *InitRenderer) Render(result *usecase.InitProjectResult) error {
	for _, step := range result.Steps {
		if step.Success {
			fmt.Fprintf(r.out, "%s %s", successStyle.Sprint("✓"), step.Name)
		} else {
			fmt.Fprintf(r.out, "%s %s", failureStyle.Sprint("✗"), step.Name)
		}
		if step.Message != "" {
			fmt.Fprintf(r.out, " %s", timestampStyle.Sprint(step.Message))
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
	if result.AlreadyInitialized {
		fmt.Fprintln(r.out, FormatSuccess("Project already initialized; registry checked"))
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess("Project initialized"))
	fmt.Fprintln(r.out, "\nNext steps:")
	fmt.Fprintln(r.out, "  smolder wallet add deployer")
	fmt.Fprintln(r.out, "  smolder deploy <Artifact> --network <name> --wallet deployer")
	fmt.Fprintln(r.out, "  smolder sync")
	return nil
}
