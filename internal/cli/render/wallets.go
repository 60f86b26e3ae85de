package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/smolder-dev/smolder/internal/domain/models"
)

// WalletsRenderer renders signing wallets. Keys are never shown.
type WalletsRenderer struct {
	out io.Writer
}

// NewWalletsRenderer creates a new wallets renderer
func NewWalletsRenderer(out io.Writer) *WalletsRenderer {
	return &WalletsRenderer{out: out}
}

func (r *WalletsRenderer) RenderWallets(wallets []*models.Wallet) error {
	if len(wallets) == 0 {
		fmt.Fprintln(r.out, "No wallets; add one with 'smolder wallet add <name>'")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.AppendHeader(table.Row{"NAME", "ADDRESS", "ADDED"})
	for _, w := range wallets {
		t.AppendRow(table.Row{labelStyle.Sprint(w.Name), w.Address, formatTime(w.CreatedAt)})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

func (r *WalletsRenderer) RenderWalletAdded(w *models.Wallet) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Added wallet '%s' (%s)", w.Name, w.Address)))
	return nil
}
