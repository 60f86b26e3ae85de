package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/smolder-dev/smolder/internal/domain/models"
	"github.com/smolder-dev/smolder/internal/usecase"
)

// InteractionRenderer renders ABI functions and contract interactions
type InteractionRenderer struct {
	out io.Writer
}

// NewInteractionRenderer creates a new interaction renderer
func NewInteractionRenderer(out io.Writer) *InteractionRenderer {
	return &InteractionRenderer{out: out}
}

// RenderFunctions lists a deployment's functions, reads first
func (r *InteractionRenderer) RenderFunctions(result *usecase.FunctionsResult) error {
	d := result.Deployment
	fmt.Fprintf(r.out, "%s at %s on %s\n\n", contractStyle.Sprint(d.ContractName), d.Address, d.NetworkName)

	r.functionGroup("Read functions", result.Functions.Read)
	fmt.Fprintln(r.out)
	r.functionGroup("Write functions", result.Functions.Write)
	return nil
}

func (r *InteractionRenderer) functionGroup(title string, fns []models.FunctionInfo) {
	sectionHeaderStyle.Fprintf(r.out, "%s (%d):\n", title, len(fns))
	if len(fns) == 0 {
		fmt.Fprintln(r.out, "  (none)")
		return
	}
	for _, fn := range fns {
		line := "  " + fn.Signature
		if len(fn.Outputs) > 0 {
			outs := make([]string, len(fn.Outputs))
			for i, o := range fn.Outputs {
				outs[i] = o.Type
			}
			line += " → (" + strings.Join(outs, ", ") + ")"
		}
		if fn.Mutability == models.MutabilityPayable {
			line += " " + warningStyle.Sprint("payable")
		}
		fmt.Fprintln(r.out, line)
	}
}

// RenderCallResult renders a decoded read result
func (r *InteractionRenderer) RenderCallResult(result *usecase.CallResult) error {
	fmt.Fprintf(r.out, "%s → %s\n", labelStyle.Sprint(result.Function.Signature), formatValue(result.Result))
	return nil
}

// RenderSendResult renders a mined write
func (r *InteractionRenderer) RenderSendResult(result *usecase.SendResult) error {
	if result.Status == models.CallStatusSuccess {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s confirmed", result.Function.Signature)))
	} else {
		fmt.Fprintln(r.out, FormatError(fmt.Sprintf("%s %s", result.Function.Signature, result.Status)))
	}
	field(r.out, "Tx Hash", result.TxHash)
	field(r.out, "Block", result.BlockNumber)
	field(r.out, "Gas Used", result.GasUsed)
	field(r.out, "Call ID", result.CallID)
	return nil
}

// RenderHistory renders a deployment's interaction history, newest first
func (r *InteractionRenderer) RenderHistory(records []*models.CallRecord) error {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "No calls recorded")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"ID", "TYPE", "FUNCTION", "STATUS", "RESULT / TX", "AT"})
	for _, rec := range records {
		detail := ""
		switch {
		case rec.TxHash != nil:
			detail = shortHash(*rec.TxHash)
		case rec.Result != nil:
			detail = *rec.Result
		case rec.ErrorMessage != nil:
			detail = failureStyle.Sprint(*rec.ErrorMessage)
		}
		t.AppendRow(table.Row{rec.ID, rec.CallType, rec.FunctionSignature, statusText(rec.Status), detail, formatTime(rec.CreatedAt)})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func statusText(s models.CallStatus) string {
	switch s {
	case models.CallStatusSuccess:
		return successStyle.Sprint(s)
	case models.CallStatusPending:
		return warningStyle.Sprint(s)
	default:
		return failureStyle.Sprint(s)
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "()"
	case string:
		return val
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
