package imagespec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposePrompt(t *testing.T) {
	p := ComposePrompt("a lighthouse at dusk", "flux")

	assert.Equal(t, SystemInstruction, p.System)
	assert.Contains(t, p.User, "a lighthouse at dusk")
	assert.Contains(t, p.User, "Preferred engine: flux")

	msgs := p.Messages()
	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: p.System},
		{Role: RoleUser, Content: p.User},
	}, msgs)
}

func TestSystemInstruction_ForbidsFences(t *testing.T) {
	assert.Contains(t, SystemInstruction, "ONLY one valid JSON object")
	assert.Contains(t, SystemInstruction, "markdown code fences")
	assert.Contains(t, SystemInstruction, "null")
}
