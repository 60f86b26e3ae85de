package render

import (
	"fmt"
	"io"

	"github.com/smolder-dev/smolder/internal/usecase"
)

// SyncRenderer handles rendering of sync results
type SyncRenderer struct {
	out io.Writer
}

// NewSyncRenderer creates a new sync renderer
func NewSyncRenderer(out io.Writer) *SyncRenderer {
	return &SyncRenderer{out: out}
}

// RenderSyncResult renders the result of a broadcast import
func (r *SyncRenderer) RenderSyncResult(result *usecase.SyncResult) error {
	fmt.Fprintf(r.out, "Scanned %d broadcast file(s)", result.FilesScanned)
	if result.FilesSkipped > 0 {
		fmt.Fprintf(r.out, ", %d on unconfigured chains", result.FilesSkipped)
	}
	fmt.Fprintln(r.out)

	if len(result.Imported) > 0 {
		fmt.Fprintln(r.out)
		sectionHeaderStyle.Fprintln(r.out, "Imported:")
		for _, rec := range result.Imported {
			fmt.Fprintf(r.out, "  • %s v%d at %s\n",
				contractStyle.Sprint(rec.ContractName), rec.Deployment.Version, rec.Deployment.Address)
		}
	} else {
		fmt.Fprintln(r.out, "No new deployments found")
	}

	if result.Skipped > 0 {
		fmt.Fprintf(r.out, "\nAlready recorded: %d\n", result.Skipped)
	}

	if len(result.Errors) > 0 {
		warningStyle.Fprintf(r.out, "\nWarnings:\n")
		for _, err := range result.Errors {
			fmt.Fprintf(r.out, "  • %s\n", err)
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess("Registry synced"))
	return nil
}
