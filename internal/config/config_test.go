package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_ShallowPerSection(t *testing.T) {
	root := DefaultConfig()
	root.Settings.HideHeader = true
	root.Translations.CancelLabel = "Abort"

	opts := Options{
		Translations: &TranslationsPatch{ConfirmLabel: String("Destroy")},
		Settings:     &SettingsPatch{AutoConfirm: Bool(true), RandomKeywordLength: Int(12)},
	}

	got := Merge(root, opts, false)

	assert.Equal(t, "Destroy", got.Translations.ConfirmLabel)
	assert.Equal(t, "Abort", got.Translations.CancelLabel, "untouched key keeps root value")
	assert.True(t, got.Settings.HideHeader)
	assert.True(t, got.Settings.AutoConfirm)
	assert.Equal(t, 12, got.Settings.RandomKeywordLength)
	assert.Equal(t, root.Classes, got.Classes)
}

func TestMerge_Replace(t *testing.T) {
	root := DefaultConfig()
	root.Settings.HideHeader = true
	root.Translations.CancelLabel = "Abort"

	t.Run("present section is replaced", func(t *testing.T) {
		got := Merge(root, Options{Settings: &SettingsPatch{AutoConfirm: Bool(true)}}, true)

		assert.False(t, got.Settings.HideHeader, "root setting dropped")
		assert.True(t, got.Settings.AutoConfirm)
		assert.Equal(t, DefaultRandomKeywordLength, got.Settings.RandomKeywordLength)
		assert.Equal(t, "Abort", got.Translations.CancelLabel, "absent section keeps root")
	})

	t.Run("empty options leave root alone", func(t *testing.T) {
		assert.Equal(t, root, Merge(root, Options{}, true))
	})
}

func TestMerge_DoesNotMutateRoot(t *testing.T) {
	root := DefaultConfig()
	_ = Merge(root, Options{Translations: &TranslationsPatch{Error: String("nope")}}, false)
	assert.Equal(t, DefaultTranslations().Error, root.Translations.Error)
}

func TestMerge_BlankInstructionPrefix(t *testing.T) {
	got := Merge(DefaultConfig(), Options{Translations: &TranslationsPatch{InstructionPrefix: String("")}}, false)
	assert.Empty(t, got.Translations.InstructionPrefix)
}

func TestSettingsDurations(t *testing.T) {
	s := Settings{}
	assert.Equal(t, DefaultDebounceTime, int(s.Debounce().Milliseconds()))
	assert.Equal(t, DefaultSettleTime, int(s.Settle().Milliseconds()))
	assert.Zero(t, s.Timeout())
	assert.Equal(t, DefaultRandomKeywordLength, s.KeywordLength())

	s.AsyncDebounceTime = 120
	s.AsyncTimeout = 2000
	assert.Equal(t, int64(120), s.Debounce().Milliseconds())
	assert.Equal(t, int64(2000), s.Timeout().Milliseconds())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Settings.AsyncDebounceTime = -1
	assert.ErrorContains(t, cfg.Validate(), "asyncDebounceTime")
}

func TestLoadConfig_CreatesDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("TYPEDCONFIRM_HOME", home)
	t.Setenv("TYPEDCONFIRM_PRESET", "")
	t.Setenv("TYPEDCONFIRM_PROFILE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	path := filepath.Join(home, ".typedconfirm", "config.json")
	assert.Equal(t, path, cfg.Path())
	_, err = os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg.Defaults)
	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, DefaultModel, cfg.GetModel())
}

func TestLoadFile_PartialJSONKeepsDefaults(t *testing.T) {
	t.Setenv("TYPEDCONFIRM_PRESET", "")
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"defaults": {"settings": {"autoConfirm": true}},
		"presets": {"prod": {"settings": {"randomKeywordLength": 16}}},
		"active_preset": "prod"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Defaults.Settings.AutoConfirm)
	assert.Equal(t, DefaultDebounceTime, cfg.Defaults.Settings.AsyncDebounceTime)
	assert.Equal(t, DefaultTranslations(), cfg.Defaults.Translations)

	resolved, err := cfg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, 16, resolved.Settings.RandomKeywordLength)
	assert.True(t, resolved.Settings.AutoConfirm)
}

func TestLoadFile_YAML(t *testing.T) {
	t.Setenv("TYPEDCONFIRM_PRESET", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
defaults:
  translations:
    modalHeader: Danger zone
merge_presets: false
presets:
  quiet:
    settings:
      hideHeader: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Danger zone", cfg.Defaults.Translations.ModalHeader)

	resolved, err := cfg.Resolve("quiet")
	require.NoError(t, err)
	assert.True(t, resolved.Settings.HideHeader)
	assert.Equal(t, "Danger zone", resolved.Translations.ModalHeader)
}

func TestResolve_UnknownPreset(t *testing.T) {
	cfg := newDefaultFile("")
	_, err := cfg.Resolve("missing")
	assert.ErrorIs(t, err, ErrPresetNotFound)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TYPEDCONFIRM_PRESET", "ci")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "")

	cfg := newDefaultFile("")
	require.NoError(t, cfg.finish())

	assert.Equal(t, "ci", cfg.ActivePreset)
	assert.Equal(t, "sk-test", cfg.GetAPIKey())
	assert.True(t, cfg.IsJudgeConfigured())
}

func TestSwitchProfile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := newDefaultFile("")
	cfg.Profiles["work"] = Profile{APIKey: "k", Model: "gpt-4o"}
	require.NoError(t, cfg.finish())

	require.NoError(t, cfg.SwitchProfile("work"))
	assert.Equal(t, "gpt-4o", cfg.GetModel())
	assert.Equal(t, "k", cfg.GetAPIKey())

	assert.ErrorIs(t, cfg.SwitchProfile("nope"), ErrProfileNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := newDefaultFile(path)
	cfg.Presets["prod"] = Options{Settings: &SettingsPatch{SecretKeyword: Bool(true)}}
	require.NoError(t, cfg.Save())

	t.Setenv("TYPEDCONFIRM_PRESET", "")
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Contains(t, loaded.Presets, "prod")
	assert.True(t, *loaded.Presets["prod"].Settings.SecretKeyword)
}

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(dir, "ok.yaml")
		content := `
preset: prod
actions:
  - name: drop-db
    description: Drop the staging database
    run: echo dropping
    keyword: staging db
    options:
      settings:
        replaceKeywordSpaces: true
  - name: wipe-cache
    run: echo wiping
    check:
      type: shell
      command: test "$TYPEDCONFIRM_INPUT" = yes
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))

		b, err := LoadBatch(path)
		require.NoError(t, err)
		require.Len(t, b.Actions, 2)
		assert.Equal(t, "prod", b.Preset)
		assert.True(t, *b.Actions[0].Options.Settings.ReplaceKeywordSpaces)
		assert.Equal(t, "shell", b.Actions[1].Check.Type)
	})

	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"empty", "actions: []", "no actions"},
		{"missing run", "actions: [{name: a}]", "run is required"},
		{"duplicate", "actions: [{name: a, run: x}, {name: a, run: y}]", "duplicate"},
		{"both keyword and check", "actions: [{name: a, run: x, keyword: k, check: {type: shell, command: c}}]", "mutually exclusive"},
		{"bad check", "actions: [{name: a, run: x, check: {type: ftp}}]", "unknown check type"},
		{"judge without criterion", "actions: [{name: a, run: x, check: {type: judge}}]", "criterion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0600))

			_, err := LoadBatch(path)
			assert.ErrorContains(t, err, tt.errPart)
		})
	}
}
