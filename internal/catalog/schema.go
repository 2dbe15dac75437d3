package catalog

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefinitionFile is the on-disk shape of a milestone definition. JSON files
// are decoded with the same YAML decoder.
type DefinitionFile struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Components  StringList        `yaml:"components,omitempty"`
	Deadline    string            `yaml:"deadline"`
	Keywords    StringList        `yaml:"keywords,omitempty"`
	Inputs      map[string]string `yaml:"inputs,omitempty"`
}

// StringList accepts either a YAML sequence of strings or a single scalar.
// A scalar containing commas is split on them.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it = strings.TrimSpace(it); it != "" {
				out = append(out, it)
			}
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseDefinitionFile decodes raw definition content.
func ParseDefinitionFile(data []byte) (*DefinitionFile, error) {
	var f DefinitionFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing definition: %w", err)
	}
	return &f, nil
}

// MarshalDefinitionFile encodes f in the canonical YAML layout used by the
// scaffolding command.
func MarshalDefinitionFile(f *DefinitionFile) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encoding definition: %w", err)
	}
	return data, nil
}
