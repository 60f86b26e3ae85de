package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Shared styles
var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	chainHeader        = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold    = color.New(color.BgCyan, color.FgBlack, color.Bold)
	contractStyle      = color.New(color.FgYellow)
	addressStyle       = color.New(color.FgWhite)
	timestampStyle     = color.New(color.Faint)
	successStyle       = color.New(color.FgGreen)
	warningStyle       = color.New(color.FgYellow)
	failureStyle       = color.New(color.FgRed)
	labelStyle         = color.New(color.FgCyan)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warningStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}
	return failureStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successStyle.Sprintf("✅ %s", message)
}

// JSON writes v as indented JSON
func JSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func shortHash(h string) string {
	if len(h) <= 18 {
		return h
	}
	return h[:10] + "..." + h[len(h)-6:]
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func field(out io.Writer, label string, value any) {
	fmt.Fprintf(out, "  %-14s %v\n", label+":", value)
}
