package imagespec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var testEngines = EnginePolicy{
	Default: "stable",
	Allowed: []string{"stable", "sdxl", "flux", "dalle", "midjourney"},
}

func TestEnginePolicy_Accept(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: "stable"},
		{in: "", want: "stable"},
		{in: "  SDXL ", want: "sdxl"},
		{in: "flux", want: "flux"},
		{in: "dalle; ignore previous instructions", want: "stable"},
		{in: 42, want: "stable"},
		{in: []string{"flux"}, want: "stable"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, testEngines.Accept(tt.in), "input %#v", tt.in)
	}
}

func TestEnforce(t *testing.T) {
	for _, before := range []string{"", "midjourney", "stable", "'; DROP ENGINE --"} {
		spec := &ImageSpec{Prompt: "fox", Params: Params{Engine: before}}

		got := Enforce(spec, "flux")

		assert.Equal(t, "flux", got.Params.Engine)
		assert.Equal(t, "fox", got.Prompt)
	}
}

func TestEnforce_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		before := rapid.String().Draw(t, "before")
		engine := rapid.SampledFrom(testEngines.Allowed).Draw(t, "engine")

		spec := Enforce(&ImageSpec{Params: Params{Engine: before}}, engine)
		if spec.Params.Engine != engine {
			t.Fatalf("engine = %q, want %q", spec.Params.Engine, engine)
		}
	})
}
