package styles

import "github.com/charmbracelet/lipgloss"

const (
	ColorNeutral = lipgloss.Color("62")
	ColorValid   = lipgloss.Color("42")
	ColorInvalid = lipgloss.Color("160")
	ColorMuted   = lipgloss.Color("241")
)

func InputStyle(width int, border lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width - 4)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func ModalStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("160")).
		Padding(1, 2).
		Width(width)
}

func HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		MarginBottom(1)
}

func InstructionStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))
}

func KeywordStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(ColorInvalid).
		Italic(true)
}

func LoaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("39"))
}

// ButtonStyle renders a footer button. Disabled buttons ignore the colour.
func ButtonStyle(color string, disabled bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1)
	if disabled {
		return s.Foreground(lipgloss.Color("238")).Background(lipgloss.Color("235"))
	}
	return s.Foreground(lipgloss.Color("230")).Background(lipgloss.Color(color)).Bold(true)
}

func ActionStyle(selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if selected {
		return s.Foreground(lipgloss.Color("39")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("39"))
	}
	return s.Foreground(lipgloss.Color("252")).MarginLeft(1)
}

func DangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("160")).
		Bold(true)
}

func SystemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Padding(0, 2)
}

func ProgramStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2).
		Align(lipgloss.Center)
}
