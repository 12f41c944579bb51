package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how structured results are rendered.
type OutputFormat string

const (
	// FormatYAML renders as YAML, the default for terminals.
	FormatYAML OutputFormat = "yaml"
	// FormatJSON renders as JSON, for piping.
	FormatJSON OutputFormat = "json"
)

// Output writes result to w in the given format.
func Output(w io.Writer, result any, format OutputFormat) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML, "":
		data, err := yaml.Marshal(result)
		if err != nil {
			return fmt.Errorf("cli: marshal yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("cli: unsupported output format %q", format)
	}
}
