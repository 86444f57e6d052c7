package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrPresetNotFound  = errors.New("preset not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile holds credentials for the OpenAI-compatible judge check.
type Profile struct {
	APIKey  string `json:"api_key" yaml:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Model   string `json:"model" yaml:"model"`
}

// File is the persisted configuration: root modal defaults, named presets
// layered on top of them, and judge profiles.
type File struct {
	Defaults      Config             `json:"defaults" yaml:"defaults"`
	Presets       map[string]Options `json:"presets" yaml:"presets"`
	ActivePreset  string             `json:"active_preset,omitempty" yaml:"active_preset,omitempty"`
	MergePresets  bool               `json:"merge_presets" yaml:"merge_presets"`
	Profiles      map[string]Profile `json:"profiles" yaml:"profiles"`
	ActiveProfile string             `json:"active_profile" yaml:"active_profile"`

	path           string
	currentProfile *Profile
}

// DefaultModel is used by profiles that name no model.
const DefaultModel = "gpt-4o-mini"

// LoadConfig loads (or creates) the config file in the config directory.
func LoadConfig() (*File, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := newDefaultFile(configPath)
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, cfg.finish()
	}

	return LoadFile(configPath)
}

// LoadFile reads a JSON or YAML (by extension) config file. Keys absent from
// the file keep their library defaults.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := newDefaultFile(path)
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, cfg.finish()
}

func newDefaultFile(path string) *File {
	return &File{
		Defaults: DefaultConfig(),
		Presets:  make(map[string]Options),
		Profiles: map[string]Profile{
			"default": {Model: DefaultModel},
		},
		ActiveProfile: "default",
		MergePresets:  true,
		path:          path,
	}
}

func (f *File) finish() error {
	if f.Presets == nil {
		f.Presets = make(map[string]Options)
	}
	f.applyEnvOverrides()

	if err := f.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}
	if err := f.setCurrentProfile(); err != nil {
		return fmt.Errorf("failed to set current profile: %w", err)
	}
	return nil
}

func (f *File) applyEnvOverrides() {
	if preset := os.Getenv("TYPEDCONFIRM_PRESET"); preset != "" {
		f.ActivePreset = preset
	}
	if profile := os.Getenv("TYPEDCONFIRM_PROFILE"); profile != "" {
		f.ActiveProfile = profile
	}
}

// Path is where Save writes.
func (f *File) Path() string {
	return f.path
}

// Save writes the config back to the file it was loaded from.
func (f *File) Save() error {
	if f.path == "" {
		configPath, err := getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
		f.path = configPath
	}
	return f.SaveTo(f.path)
}

func (f *File) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Resolve returns the root defaults layered with the named preset, or with
// the active preset when name is empty.
func (f *File) Resolve(name string) (Config, error) {
	if name == "" {
		name = f.ActivePreset
	}
	if name == "" {
		return f.Defaults, nil
	}

	opts, ok := f.Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}

	merged := Merge(f.Defaults, opts, !f.MergePresets)
	if err := merged.Validate(); err != nil {
		return Config{}, fmt.Errorf("preset %q: %w", name, err)
	}
	return merged, nil
}

// PresetNames returns the preset names in no particular order.
func (f *File) PresetNames() []string {
	names := make([]string, 0, len(f.Presets))
	for name := range f.Presets {
		names = append(names, name)
	}
	return names
}

func (f *File) IsJudgeConfigured() bool {
	return f.GetAPIKey() != ""
}

func (f *File) GetAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	if f.currentProfile == nil {
		return ""
	}
	return f.currentProfile.APIKey
}

func (f *File) GetModel() string {
	if f.currentProfile == nil || f.currentProfile.Model == "" {
		return DefaultModel
	}
	return f.currentProfile.Model
}

func (f *File) GetBaseURL() string {
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		return url
	}
	if f.currentProfile == nil {
		return ""
	}
	return f.currentProfile.BaseURL
}

// SwitchProfile makes name the active judge profile.
func (f *File) SwitchProfile(name string) error {
	if _, ok := f.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	f.ActiveProfile = name
	return f.setCurrentProfile()
}

func getConfigPath() (string, error) {
	var configDir string

	// Use TYPEDCONFIRM_HOME if set, otherwise use user's home directory
	if home := os.Getenv("TYPEDCONFIRM_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".typedconfirm", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func (f *File) setCurrentProfile() error {
	if len(f.Profiles) == 0 {
		f.currentProfile = nil
		return nil
	}

	profile, exists := f.Profiles[f.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range f.Profiles {
			f.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	f.currentProfile = &profile
	return nil
}
