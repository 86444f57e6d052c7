package config

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CheckSpec selects an asynchronous check instead of a literal keyword.
type CheckSpec struct {
	Type      string `json:"type" yaml:"type"`                               // shell, http or judge
	Command   string `json:"command,omitempty" yaml:"command,omitempty"`     // shell
	URL       string `json:"url,omitempty" yaml:"url,omitempty"`             // http
	Criterion string `json:"criterion,omitempty" yaml:"criterion,omitempty"` // judge
}

// ActionSpec describes one destructive action guarded by a trigger.
type ActionSpec struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Run         string     `json:"run" yaml:"run"`
	Keyword     string     `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	Check       *CheckSpec `json:"check,omitempty" yaml:"check,omitempty"`
	Options     Options    `json:"options,omitempty" yaml:"options,omitempty"`
	Timeout     int        `json:"timeout,omitempty" yaml:"timeout,omitempty"` // seconds
}

// Batch is a file of actions sharing one host screen.
type Batch struct {
	Preset  string       `json:"preset,omitempty" yaml:"preset,omitempty"`
	Actions []ActionSpec `json:"actions" yaml:"actions"`
}

// LoadBatch reads a YAML (or JSON) batch file and validates it.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var b Batch
	if isYAML(path) {
		err = yaml.Unmarshal(data, &b)
	} else {
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func (b *Batch) Validate() error {
	if len(b.Actions) == 0 {
		return fmt.Errorf("batch has no actions")
	}

	seen := make(map[string]bool, len(b.Actions))
	for i, a := range b.Actions {
		if a.Name == "" {
			return fmt.Errorf("action %d: name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("action %q: duplicate name", a.Name)
		}
		seen[a.Name] = true

		if a.Run == "" {
			return fmt.Errorf("action %q: run is required", a.Name)
		}
		if a.Keyword != "" && a.Check != nil {
			return fmt.Errorf("action %q: keyword and check are mutually exclusive", a.Name)
		}
		if a.Check != nil {
			if err := a.Check.validate(); err != nil {
				return fmt.Errorf("action %q: %w", a.Name, err)
			}
		}
	}
	return nil
}

func (c *CheckSpec) validate() error {
	switch c.Type {
	case "shell":
		if c.Command == "" {
			return fmt.Errorf("shell check needs a command")
		}
	case "http":
		if c.URL == "" {
			return fmt.Errorf("http check needs a url")
		}
	case "judge":
		if c.Criterion == "" {
			return fmt.Errorf("judge check needs a criterion")
		}
	default:
		return fmt.Errorf("unknown check type %q", c.Type)
	}
	return nil
}
