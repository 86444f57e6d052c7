package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/typedconfirm/ui/styles"
)

// Button is one footer button of the confirmation modal.
type Button struct {
	Label    string
	Key      string
	Color    string
	Disabled bool
}

// ModalView is everything the modal renderer needs. Empty strings are not
// rendered.
type ModalView struct {
	Header            string
	InstructionPrefix string
	Keyword           string
	InstructionSuffix string
	Loader            string
	Input             string
	InputBorder       lipgloss.TerminalColor
	Error             string
	Buttons           []Button
	Width             int
}

func RenderModal(v ModalView) string {
	var b strings.Builder

	if v.Header != "" {
		b.WriteString(styles.HeaderStyle().Render(v.Header))
		b.WriteString("\n")
	}

	if line := instruction(v); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	input := RenderInput(v.Input, v.InputBorder, v.Width-4)
	if v.Loader != "" {
		input = lipgloss.JoinHorizontal(lipgloss.Center, input, " ", styles.LoaderStyle().Render(v.Loader))
	}
	b.WriteString(input)
	b.WriteString("\n")

	if v.Error != "" {
		b.WriteString(styles.ErrorStyle().Render(v.Error))
		b.WriteString("\n")
	}

	if footer := RenderButtons(v.Buttons); footer != "" {
		b.WriteString("\n")
		b.WriteString(footer)
	}

	return styles.ModalStyle(v.Width).Render(strings.TrimRight(b.String(), "\n"))
}

func instruction(v ModalView) string {
	parts := make([]string, 0, 3)
	if v.InstructionPrefix != "" {
		parts = append(parts, styles.InstructionStyle().Render(v.InstructionPrefix))
	}
	if v.Keyword != "" {
		parts = append(parts, styles.KeywordStyle().Render(v.Keyword))
	}
	if v.InstructionSuffix != "" {
		parts = append(parts, styles.InstructionStyle().Render(v.InstructionSuffix))
	}
	return strings.Join(parts, " ")
}

func RenderButtons(buttons []Button) string {
	rendered := make([]string, 0, len(buttons))
	for _, btn := range buttons {
		if btn.Label == "" {
			continue
		}
		label := btn.Label
		if btn.Key != "" {
			label += " (" + btn.Key + ")"
		}
		rendered = append(rendered, styles.ButtonStyle(btn.Color, btn.Disabled).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
