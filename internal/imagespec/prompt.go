package imagespec

import (
	"fmt"
)

// Role tags a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one role-tagged entry of a provider request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemInstruction is sent verbatim as the system message of every request.
const SystemInstruction = `You are a JSON generator that converts image descriptions into image-generation specs.
Respond with ONLY one valid JSON object. Do not use markdown code fences. Do not add commentary before or after the object.
The object must have exactly this shape:
{
  "prompt": string,
  "negative_prompt": string,
  "style": string,
  "lighting": string,
  "camera": string,
  "details": {
    "subject": string,
    "background": string,
    "mood": string,
    "colors": string
  },
  "params": {
    "engine": string,
    "resolution": string,
    "cfg_scale": number,
    "steps": number,
    "sampler": string,
    "seed": number | null
  }
}
"prompt" is a concise generation prompt. "details.subject" is required whenever "details" is present.
Use an empty string or null for any scalar field you cannot infer.`

// Prompt is the two-part instruction payload for the provider.
type Prompt struct {
	System string
	User   string
}

// ComposePrompt builds the provider payload for already sanitized text and
// an accepted engine. It has no side effects.
func ComposePrompt(text, engine string) Prompt {
	return Prompt{
		System: SystemInstruction,
		User: fmt.Sprintf("Image description:\n%s\n\nPreferred engine: %s\n\nReturn the JSON object now.",
			text, engine),
	}
}

// Messages returns the system and user messages in order.
func (p Prompt) Messages() []Message {
	return []Message{
		{Role: RoleSystem, Content: p.System},
		{Role: RoleUser, Content: p.User},
	}
}
