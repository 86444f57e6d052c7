package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Rorical/typedconfirm/ui/styles"
)

// InputColor picks the border colour for the keyword input.
func InputColor(dirty, valid, rightProgress, pending, colorsDisabled bool) lipgloss.TerminalColor {
	switch {
	case colorsDisabled || !dirty || pending:
		return styles.ColorNeutral
	case valid:
		return styles.ColorValid
	case rightProgress:
		return styles.ColorNeutral
	default:
		return styles.ColorInvalid
	}
}

func RenderInput(input string, border lipgloss.TerminalColor, width int) string {
	inputStyle := styles.InputStyle(width, border)
	return inputStyle.Render(input)
}
