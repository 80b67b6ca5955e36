package imagespec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{name: "bare object", text: `{"a":1}`, want: `{"a":1}`},
		{name: "surrounding prose", text: "Sure! {\"a\":1} hope this helps", want: `{"a":1}`},
		{name: "markdown fence", text: "```json\n{\"a\":{\"b\":2}}\n```", want: `{"a":{"b":2}}`},
		{name: "first object wins", text: `first {"a":1} then {"b":2}`, want: `{"a":1}`},
		{name: "brace inside string", text: `{"note":"a } inside string"}`, want: `{"note":"a } inside string"}`},
		{name: "open brace inside string", text: `x {"note":"{{{"} y`, want: `{"note":"{{{"}`},
		{name: "escaped quote", text: `{"q":"say \"}\" now"}`, want: `{"q":"say \"}\" now"}`},
		{name: "nested", text: `{"a":{"b":{"c":{}}}}trailing}`, want: `{"a":{"b":{"c":{}}}}`},
		{name: "no brace", text: "I cannot help with that.", wantErr: true},
		{name: "empty", text: "", wantErr: true},
		{name: "unterminated", text: `{"prompt":"fox", "params":{`, wantErr: true},
		{name: "closing before opening", text: `} {"a":1`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.text)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// An escaped backslash right before a closing quote is read as an escaped
// quote. The scanner keeps that behavior.
func TestExtractObject_DoubleBackslashBeforeQuote(t *testing.T) {
	_, err := ExtractObject(`{"path":"C:\\"}`)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtractObject_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		obj := rapid.MapOf(
			rapid.StringMatching(`[a-z_]{1,8}`),
			rapid.StringMatching(`[a-zA-Z0-9 {}\[\]:,.]{0,24}`),
		).Draw(t, "object")
		prefix := rapid.StringMatching(`[a-zA-Z0-9 .,:!?\n]{0,40}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-zA-Z0-9 .,:!?\n]{0,40}`).Draw(t, "suffix")

		body, err := json.Marshal(obj)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		got, err := ExtractObject(prefix + string(body) + suffix)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != string(body) {
			t.Fatalf("got %q, want %q", got, body)
		}
	})
}

func TestExtractObject_NeverReturnsPartial(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-z"{} ]{0,30}`).Draw(t, "text")

		got, err := ExtractObject(text)
		if err != nil {
			return
		}
		if got[0] != '{' || got[len(got)-1] != '}' {
			t.Fatalf("not delimited by braces: %q", got)
		}
	})
}
