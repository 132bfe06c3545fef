package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/vantage/internal/dto"
	"github.com/aretw0/vantage/internal/presentation/tui"
	"github.com/muesli/termenv"
)

// WriteReport prints a cache report in the given format (text, json or markdown).
// Colors and glamour styling are only used when tty is set.
func WriteReport(w io.Writer, report dto.CacheReport, format string, tty bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "markdown":
		md := tui.MarkdownReport(report)
		if tty {
			rendered, err := tui.NewRenderer()(md)
			if err == nil {
				md = rendered
			}
		}
		_, err := io.WriteString(w, md)
		return err
	case "text", "":
		profile := termenv.Ascii
		if tty {
			profile = termenv.EnvColorProfile()
		}
		_, err := io.WriteString(w, tui.TextReport(report, profile))
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
