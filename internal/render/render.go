package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Adda-Baaj/pokedex/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format selects how the catalog list is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat normalizes a user supplied format name.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (expected text, json or yaml)", raw)
	}
}

type listDocument struct {
	Count   int              `json:"count" yaml:"count"`
	Results []domain.Pokemon `json:"results" yaml:"results"`
}

// Render writes entities to w in the given format.
func Render(w io.Writer, format Format, entities []domain.Pokemon) error {
	if entities == nil {
		entities = []domain.Pokemon{}
	}
	doc := listDocument{Count: len(entities), Results: entities}

	switch format {
	case FormatText, "":
		return renderText(w, entities)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json list: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml list: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func renderText(w io.Writer, entities []domain.Pokemon) error {
	if len(entities) == 0 {
		_, err := fmt.Fprintln(w, "(no entries)")
		return err
	}
	width := len(fmt.Sprint(len(entities)))
	for i, p := range entities {
		if _, err := fmt.Fprintf(w, "%*d. %s\n", width, i+1, p.Name); err != nil {
			return fmt.Errorf("write list row: %w", err)
		}
	}
	return nil
}
