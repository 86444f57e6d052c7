package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, RenderMarkdown("  \n", 40))

	out := RenderMarkdown("# Drop\n\nRemoves the production database", 40)
	assert.Contains(t, out, "production")
}

func TestRenderMarkdown_Wraps(t *testing.T) {
	out := RenderMarkdown("one two three four five six seven eight nine ten", 20)
	assert.Contains(t, out, "\n")
}
