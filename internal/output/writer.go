package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Format selects how a Reply is written.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat validates s. An empty string selects FormatJSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json, yaml or text)", s)
	}
}

// Write renders reply to w. JSON is indented when w is a terminal.
func Write(w io.Writer, format Format, reply Reply) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(w, reply, isTerminal(w))
	case FormatYAML:
		return WriteYAML(w, reply)
	case FormatText:
		return WriteText(w, reply)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// WriteJSON writes reply as a single JSON document.
func WriteJSON(w io.Writer, reply Reply, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(reply, "", "  ")
	} else {
		data, err = json.Marshal(reply)
	}
	if err != nil {
		return fmt.Errorf("marshaling reply to JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing JSON output: %w", err)
	}
	return nil
}

// WriteYAML writes reply as a YAML document.
func WriteYAML(w io.Writer, reply Reply) error {
	data, err := yaml.Marshal(reply)
	if err != nil {
		return fmt.Errorf("marshaling reply to YAML: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing YAML output: %w", err)
	}
	return nil
}

// WriteText writes the message of a success or the outcome of a failure on
// a single line.
func WriteText(w io.Writer, reply Reply) error {
	line := reply.Message
	if !reply.OK() {
		line = reply.Outcome
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
