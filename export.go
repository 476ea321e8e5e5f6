package fromenv

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
	"olympos.io/encoding/edn"
)

// Format is a machine-readable output format of the variable list.
type Format string

// Supported export formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatEDN  Format = "edn"
)

// ParseFormat returns the format for a name or a file extension like ".yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "edn":
		return FormatEDN, nil
	default:
		return "", fmt.Errorf("format '%s' doesn't supported by the exporter", s)
	}
}

// variable is the exported view of a Descriptor
type variable struct {
	Key         string  `json:"key" yaml:"key" toml:"key" edn:"key"`
	Field       string  `json:"field" yaml:"field" toml:"field" edn:"field"`
	Type        string  `json:"type" yaml:"type" toml:"type" edn:"type"`
	Optional    bool    `json:"optional" yaml:"optional" toml:"optional" edn:"optional"`
	Required    bool    `json:"required" yaml:"required" toml:"required" edn:"required"`
	Default     *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty" edn:"default,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" edn:"description,omitempty"`
}

// variableList is the document root, TOML can't encode a bare array
type variableList struct {
	Variables []variable `json:"variables" yaml:"variables" toml:"variable" edn:"variables"`
}

// Export writes the list of environment variables of the structure in the given format.
func Export(w io.Writer, cfg interface{}, format Format) error {
	meta, err := Describe(cfg)
	if err != nil {
		return err
	}
	return WriteDescriptors(w, meta, format)
}

// WriteDescriptors writes descriptors in the given format.
func WriteDescriptors(w io.Writer, descriptors []Descriptor, format Format) error {
	list := variableList{Variables: make([]variable, 0, len(descriptors))}
	for _, d := range descriptors {
		list.Variables = append(list.Variables, variable{
			Key:         d.Key,
			Field:       d.Field,
			Type:        d.Type,
			Optional:    d.Optional,
			Required:    d.Required(),
			Default:     d.Default,
			Description: d.Description,
		})
	}

	var err error
	switch format {
	case FormatJSON:
		err = writeJSON(w, list)
	case FormatYAML:
		err = writeYAML(w, list)
	case FormatTOML:
		err = writeTOML(w, list)
	case FormatEDN:
		err = writeEDN(w, list)
	default:
		return fmt.Errorf("format '%s' doesn't supported by the exporter", format)
	}
	if err != nil {
		return fmt.Errorf("variable list export error: %w", err)
	}
	return nil
}

// writeJSON writes indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML writes YAML
func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// writeTOML writes TOML with an array of tables
func writeTOML(w io.Writer, v interface{}) error {
	return toml.NewEncoder(w).Encode(v)
}

// writeEDN writes EDN
func writeEDN(w io.Writer, v interface{}) error {
	b, err := edn.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
