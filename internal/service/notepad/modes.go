package notepad

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed modes/*.yaml
var modeFiles embed.FS

// MergeStrategy controls how a reply is folded back into the note.
type MergeStrategy string

const (
	// MergeReplace overwrites the note's content with the reply.
	MergeReplace MergeStrategy = "replace"
	// MergeAppend adds the reply under a separator and heading.
	MergeAppend MergeStrategy = "append"
)

// Mode is a named instruction template controlling both prompt composition
// and the result-merge strategy.
type Mode struct {
	Name        string        `yaml:"name"`
	Instruction string        `yaml:"instruction"`
	Heading     string        `yaml:"heading"`
	Merge       MergeStrategy `yaml:"merge"`
}

// ModeRegistry holds the AI dock modes loaded from the embedded YAML file.
type ModeRegistry struct {
	modes map[string]Mode
	order []string
}

// NewModeRegistry loads the embedded mode definitions.
func NewModeRegistry() (*ModeRegistry, error) {
	data, err := modeFiles.ReadFile("modes/modes.yaml")
	if err != nil {
		return nil, fmt.Errorf("read mode registry: %w", err)
	}

	var file struct {
		Modes []Mode `yaml:"modes"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal mode registry: %w", err)
	}
	if len(file.Modes) == 0 {
		return nil, fmt.Errorf("mode registry is empty")
	}

	r := &ModeRegistry{modes: make(map[string]Mode, len(file.Modes))}
	for _, m := range file.Modes {
		if m.Merge != MergeReplace && m.Merge != MergeAppend {
			return nil, fmt.Errorf("mode %q: unknown merge strategy %q", m.Name, m.Merge)
		}
		r.modes[m.Name] = m
		r.order = append(r.order, m.Name)
	}
	return r, nil
}

// Get returns the mode by name.
func (r *ModeRegistry) Get(name string) (Mode, bool) {
	m, ok := r.modes[name]
	return m, ok
}

// Names returns the mode names in registry order.
func (r *ModeRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// DefaultInstruction returns the mode's placeholder instruction. Free mode
// has none.
func (r *ModeRegistry) DefaultInstruction(name string) string {
	return r.modes[name].Instruction
}
