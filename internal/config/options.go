package config

// TranslationsPatch overrides individual translation keys. Nil fields keep
// the underlying value; a non-nil empty string blanks it.
type TranslationsPatch struct {
	ModalHeader       *string `json:"modalHeader,omitempty" yaml:"modalHeader,omitempty"`
	InstructionPrefix *string `json:"instructionPrefix,omitempty" yaml:"instructionPrefix,omitempty"`
	InstructionSuffix *string `json:"instructionSuffix,omitempty" yaml:"instructionSuffix,omitempty"`
	CancelLabel       *string `json:"cancelLabel,omitempty" yaml:"cancelLabel,omitempty"`
	ConfirmLabel      *string `json:"confirmLabel,omitempty" yaml:"confirmLabel,omitempty"`
	RegenerateLabel   *string `json:"regenerateLabel,omitempty" yaml:"regenerateLabel,omitempty"`
	Error             *string `json:"error,omitempty" yaml:"error,omitempty"`
	LoadingLabel      *string `json:"loadingLabel,omitempty" yaml:"loadingLabel,omitempty"`
}

// SettingsPatch overrides individual settings.
type SettingsPatch struct {
	HideHeader                   *bool `json:"hideHeader,omitempty" yaml:"hideHeader,omitempty"`
	HideKeywordIndication        *bool `json:"hideKeywordIndication,omitempty" yaml:"hideKeywordIndication,omitempty"`
	HideErrorMessage             *bool `json:"hideErrorMessage,omitempty" yaml:"hideErrorMessage,omitempty"`
	HideLoader                   *bool `json:"hideLoader,omitempty" yaml:"hideLoader,omitempty"`
	DisableInputValidationColors *bool `json:"disableInputValidationColors,omitempty" yaml:"disableInputValidationColors,omitempty"`
	DisableFalseEmission         *bool `json:"disableFalseEmission,omitempty" yaml:"disableFalseEmission,omitempty"`
	RandomKeywordLength          *int  `json:"randomKeywordLength,omitempty" yaml:"randomKeywordLength,omitempty"`
	DisableRandomRegeneration    *bool `json:"disableRandomRegeneration,omitempty" yaml:"disableRandomRegeneration,omitempty"`
	ReplaceKeywordSpaces         *bool `json:"replaceKeywordSpaces,omitempty" yaml:"replaceKeywordSpaces,omitempty"`
	DisablePlaceholder           *bool `json:"disablePlaceholder,omitempty" yaml:"disablePlaceholder,omitempty"`
	DisableAnimations            *bool `json:"disableAnimations,omitempty" yaml:"disableAnimations,omitempty"`
	SecretKeyword                *bool `json:"secretKeyword,omitempty" yaml:"secretKeyword,omitempty"`
	AutoConfirm                  *bool `json:"autoConfirm,omitempty" yaml:"autoConfirm,omitempty"`
	AsyncDebounceTime            *int  `json:"asyncDebounceTime,omitempty" yaml:"asyncDebounceTime,omitempty"`
	SettleTime                   *int  `json:"settleTime,omitempty" yaml:"settleTime,omitempty"`
	AsyncTimeout                 *int  `json:"asyncTimeout,omitempty" yaml:"asyncTimeout,omitempty"`
	AsyncMinLength               *int  `json:"asyncMinLength,omitempty" yaml:"asyncMinLength,omitempty"`
}

// Options are per-trigger (or per-preset) overrides. Classes cannot be
// overridden below the root.
type Options struct {
	Translations *TranslationsPatch `json:"translations,omitempty" yaml:"translations,omitempty"`
	Settings     *SettingsPatch     `json:"settings,omitempty" yaml:"settings,omitempty"`
}

// Merge layers opts over root. Each section is handled independently: with
// replace=false present fields are shallow-merged into the root section,
// with replace=true a present section starts again from library defaults.
func Merge(root Config, opts Options, replace bool) Config {
	out := root

	if opts.Translations != nil {
		if replace {
			out.Translations = DefaultTranslations()
		}
		opts.Translations.applyTo(&out.Translations)
	}
	if opts.Settings != nil {
		if replace {
			out.Settings = DefaultSettings()
		}
		opts.Settings.applyTo(&out.Settings)
	}

	return out
}

func (p *TranslationsPatch) applyTo(t *Translations) {
	setString(&t.ModalHeader, p.ModalHeader)
	setString(&t.InstructionPrefix, p.InstructionPrefix)
	setString(&t.InstructionSuffix, p.InstructionSuffix)
	setString(&t.CancelLabel, p.CancelLabel)
	setString(&t.ConfirmLabel, p.ConfirmLabel)
	setString(&t.RegenerateLabel, p.RegenerateLabel)
	setString(&t.Error, p.Error)
	setString(&t.LoadingLabel, p.LoadingLabel)
}

func (p *SettingsPatch) applyTo(s *Settings) {
	setBool(&s.HideHeader, p.HideHeader)
	setBool(&s.HideKeywordIndication, p.HideKeywordIndication)
	setBool(&s.HideErrorMessage, p.HideErrorMessage)
	setBool(&s.HideLoader, p.HideLoader)
	setBool(&s.DisableInputValidationColors, p.DisableInputValidationColors)
	setBool(&s.DisableFalseEmission, p.DisableFalseEmission)
	setInt(&s.RandomKeywordLength, p.RandomKeywordLength)
	setBool(&s.DisableRandomRegeneration, p.DisableRandomRegeneration)
	setBool(&s.ReplaceKeywordSpaces, p.ReplaceKeywordSpaces)
	setBool(&s.DisablePlaceholder, p.DisablePlaceholder)
	setBool(&s.DisableAnimations, p.DisableAnimations)
	setBool(&s.SecretKeyword, p.SecretKeyword)
	setBool(&s.AutoConfirm, p.AutoConfirm)
	setInt(&s.AsyncDebounceTime, p.AsyncDebounceTime)
	setInt(&s.SettleTime, p.SettleTime)
	setInt(&s.AsyncTimeout, p.AsyncTimeout)
	setInt(&s.AsyncMinLength, p.AsyncMinLength)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Bool, Int and String build patch values inline.
func Bool(v bool) *bool       { return &v }
func Int(v int) *int          { return &v }
func String(v string) *string { return &v }
