package components

import (
	"fmt"
	"strings"

	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/utils"
	"github.com/Rorical/typedconfirm/ui/styles"
)

// RenderActions lists the batch rows. Descriptions are markdown.
func RenderActions(actions []models.ActionView, cursor int, width int) string {
	var b strings.Builder

	systemStyle := styles.SystemStyle()
	dangerStyle := styles.DangerStyle()

	for i, action := range actions {
		line := fmt.Sprintf("%s  [%s]", action.Name, action.State)
		if action.TriggerTag != "" {
			line += " " + action.TriggerTag
		}
		if action.Dangerous {
			line += " " + dangerStyle.Render("dangerous")
		}
		b.WriteString(styles.ActionStyle(i == cursor).Render(line) + "\n")

		if action.Description != "" {
			b.WriteString(utils.RenderMarkdown(action.Description, width-4) + "\n")
		}
		b.WriteString(systemStyle.Render("$ "+action.Command) + "\n")
		if action.Output != "" {
			b.WriteString(systemStyle.Render(action.Output) + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

func RenderTitle(title string) string {
	return styles.ProgramStyle().Render(title) + "\n\n"
}
