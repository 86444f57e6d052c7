package config

import (
	"fmt"
	"time"
)

// Translations holds every user-facing string of the modal. An empty
// instruction prefix or suffix is simply not rendered.
type Translations struct {
	ModalHeader       string `json:"modalHeader" yaml:"modalHeader"`
	InstructionPrefix string `json:"instructionPrefix" yaml:"instructionPrefix"`
	InstructionSuffix string `json:"instructionSuffix" yaml:"instructionSuffix"`
	CancelLabel       string `json:"cancelLabel" yaml:"cancelLabel"`
	ConfirmLabel      string `json:"confirmLabel" yaml:"confirmLabel"`
	RegenerateLabel   string `json:"regenerateLabel" yaml:"regenerateLabel"`
	Error             string `json:"error" yaml:"error"`
	LoadingLabel      string `json:"loadingLabel" yaml:"loadingLabel"`
}

// Classes are lipgloss colours ("62", "#be4a4a") for the footer buttons.
type Classes struct {
	CancelBtn     string `json:"cancelBtn" yaml:"cancelBtn"`
	ConfirmBtn    string `json:"confirmBtn" yaml:"confirmBtn"`
	RegenerateBtn string `json:"regenerateBtn" yaml:"regenerateBtn"`
}

// Settings toggles modal behaviour. Durations are milliseconds.
type Settings struct {
	HideHeader                   bool `json:"hideHeader" yaml:"hideHeader"`
	HideKeywordIndication        bool `json:"hideKeywordIndication" yaml:"hideKeywordIndication"`
	HideErrorMessage             bool `json:"hideErrorMessage" yaml:"hideErrorMessage"`
	HideLoader                   bool `json:"hideLoader" yaml:"hideLoader"`
	DisableInputValidationColors bool `json:"disableInputValidationColors" yaml:"disableInputValidationColors"`
	DisableFalseEmission         bool `json:"disableFalseEmission" yaml:"disableFalseEmission"`
	RandomKeywordLength          int  `json:"randomKeywordLength" yaml:"randomKeywordLength"`
	DisableRandomRegeneration    bool `json:"disableRandomRegeneration" yaml:"disableRandomRegeneration"`
	ReplaceKeywordSpaces         bool `json:"replaceKeywordSpaces" yaml:"replaceKeywordSpaces"`
	DisablePlaceholder           bool `json:"disablePlaceholder" yaml:"disablePlaceholder"`
	DisableAnimations            bool `json:"disableAnimations" yaml:"disableAnimations"`
	SecretKeyword                bool `json:"secretKeyword" yaml:"secretKeyword"`
	AutoConfirm                  bool `json:"autoConfirm" yaml:"autoConfirm"`
	AsyncDebounceTime            int  `json:"asyncDebounceTime" yaml:"asyncDebounceTime"`

	SettleTime     int `json:"settleTime" yaml:"settleTime"`
	AsyncTimeout   int `json:"asyncTimeout" yaml:"asyncTimeout"`
	AsyncMinLength int `json:"asyncMinLength" yaml:"asyncMinLength"`
}

// Config is the full modal configuration snapshot handed to triggers.
type Config struct {
	Translations Translations `json:"translations" yaml:"translations"`
	Classes      Classes      `json:"classes" yaml:"classes"`
	Settings     Settings     `json:"settings" yaml:"settings"`
}

const (
	DefaultRandomKeywordLength = 8
	DefaultDebounceTime        = 500
	DefaultSettleTime          = 300
)

func DefaultTranslations() Translations {
	return Translations{
		ModalHeader:       "Please confirm your action",
		InstructionPrefix: "Type in",
		InstructionSuffix: "to confirm",
		CancelLabel:       "Cancel",
		ConfirmLabel:      "Confirm",
		RegenerateLabel:   "Regenerate",
		Error:             "Incorrect input provided",
		LoadingLabel:      "Checking",
	}
}

func DefaultClasses() Classes {
	return Classes{
		CancelBtn:     "245",
		ConfirmBtn:    "#be4a4a",
		RegenerateBtn: "62",
	}
}

func DefaultSettings() Settings {
	return Settings{
		RandomKeywordLength: DefaultRandomKeywordLength,
		AsyncDebounceTime:   DefaultDebounceTime,
		SettleTime:          DefaultSettleTime,
	}
}

func DefaultConfig() Config {
	return Config{
		Translations: DefaultTranslations(),
		Classes:      DefaultClasses(),
		Settings:     DefaultSettings(),
	}
}

// KeywordLength is the random keyword length, falling back to the default.
func (s Settings) KeywordLength() int {
	if s.RandomKeywordLength <= 0 {
		return DefaultRandomKeywordLength
	}
	return s.RandomKeywordLength
}

// Debounce is the quiet period before an async check starts.
func (s Settings) Debounce() time.Duration {
	if s.AsyncDebounceTime <= 0 {
		return DefaultDebounceTime * time.Millisecond
	}
	return time.Duration(s.AsyncDebounceTime) * time.Millisecond
}

// Settle is the pause between a correct match and auto-confirmation.
func (s Settings) Settle() time.Duration {
	if s.SettleTime <= 0 {
		return DefaultSettleTime * time.Millisecond
	}
	return time.Duration(s.SettleTime) * time.Millisecond
}

// Timeout bounds one async check; zero means no deadline.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.AsyncTimeout) * time.Millisecond
}

// Validate rejects negative lengths and durations.
func (c Config) Validate() error {
	s := c.Settings
	checks := []struct {
		name  string
		value int
	}{
		{"randomKeywordLength", s.RandomKeywordLength},
		{"asyncDebounceTime", s.AsyncDebounceTime},
		{"settleTime", s.SettleTime},
		{"asyncTimeout", s.AsyncTimeout},
		{"asyncMinLength", s.AsyncMinLength},
	}
	for _, chk := range checks {
		if chk.value < 0 {
			return fmt.Errorf("settings.%s must not be negative (got %d)", chk.name, chk.value)
		}
	}
	return nil
}
