package imagespec

// ImageSpec is the structured artifact handed to downstream image-generation engines.
type ImageSpec struct {
	Prompt         string   `json:"prompt"`
	NegativePrompt string   `json:"negative_prompt,omitempty"`
	Style          string   `json:"style,omitempty"`
	Lighting       string   `json:"lighting,omitempty"`
	Camera         string   `json:"camera,omitempty"`
	Details        *Details `json:"details,omitempty"`
	Params         Params   `json:"params"`
}

// Details describes the scene. Subject is required whenever Details is present.
type Details struct {
	Subject    string `json:"subject"`
	Background string `json:"background,omitempty"`
	Mood       string `json:"mood,omitempty"`
	Colors     string `json:"colors,omitempty"`
}

// Params holds the rendering parameters. Seed is always serialized, as null when unset.
type Params struct {
	Engine     string   `json:"engine"`
	Resolution string   `json:"resolution"`
	CFGScale   float64  `json:"cfg_scale"`
	Steps      float64  `json:"steps"`
	Sampler    string   `json:"sampler"`
	Seed       *float64 `json:"seed"`
}

// GenerationRequest is the per-call input of the pipeline. It is never persisted.
type GenerationRequest struct {
	RawPrompt        any
	EnginePreference any
}
