package imagespec

import (
	"strings"
)

// EnginePolicy decides which engine preference the server accepts.
type EnginePolicy struct {
	Default string
	Allowed []string
}

// Accept normalizes a caller-supplied engine. Non-string, empty or unknown
// values fall back to the default engine.
func (p EnginePolicy) Accept(v any) string {
	s, ok := v.(string)
	if !ok {
		return p.Default
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return p.Default
	}
	for _, allowed := range p.Allowed {
		if s == allowed {
			return s
		}
	}
	return p.Default
}

// Enforce overwrites server-controlled fields of spec. params.engine always
// ends up equal to engine, whatever the provider produced.
func Enforce(spec *ImageSpec, engine string) *ImageSpec {
	spec.Params.Engine = engine
	return spec
}
