package imagespec

import (
	"fmt"
)

// Violation is one structural mismatch between a parsed object and the ImageSpec schema.
type Violation struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Violation codes.
const (
	CodeRequired    = "required"
	CodeInvalidType = "invalid_type"
)

type valueType int

const (
	typeString valueType = iota
	typeNumber
	typeNullableNumber
	typeObject
)

func (t valueType) String() string {
	switch t {
	case typeString:
		return "string"
	case typeNumber:
		return "number"
	case typeNullableNumber:
		return "number or null"
	case typeObject:
		return "object"
	}
	return "unknown"
}

type field struct {
	name     string
	typ      valueType
	required bool
	fields   []field
}

// imageSpecSchema mirrors ImageSpec. Optional fields accept null as "absent",
// since the provider is told to emit null for unknown scalars.
var imageSpecSchema = []field{
	{name: "prompt", typ: typeString, required: true},
	{name: "negative_prompt", typ: typeString},
	{name: "style", typ: typeString},
	{name: "lighting", typ: typeString},
	{name: "camera", typ: typeString},
	{name: "details", typ: typeObject, fields: []field{
		{name: "subject", typ: typeString, required: true},
		{name: "background", typ: typeString},
		{name: "mood", typ: typeString},
		{name: "colors", typ: typeString},
	}},
	{name: "params", typ: typeObject, required: true, fields: []field{
		{name: "engine", typ: typeString},
		{name: "resolution", typ: typeString, required: true},
		{name: "cfg_scale", typ: typeNumber, required: true},
		{name: "steps", typ: typeNumber, required: true},
		{name: "sampler", typ: typeString, required: true},
		{name: "seed", typ: typeNullableNumber},
	}},
}

// Validate checks obj against the ImageSpec schema. It only checks presence
// and JSON types; numeric ranges are not constrained. A nil result means obj conforms.
func Validate(obj map[string]any) []Violation {
	var out []Violation
	validateFields(obj, imageSpecSchema, "", &out)
	return out
}

func validateFields(obj map[string]any, fields []field, prefix string, out *[]Violation) {
	for _, f := range fields {
		path := f.name
		if prefix != "" {
			path = prefix + "." + f.name
		}

		v, present := obj[f.name]
		if !present || (v == nil && f.typ != typeNullableNumber) {
			if f.required {
				*out = append(*out, Violation{Path: path, Code: CodeRequired, Message: "required"})
			}
			continue
		}

		if !matches(v, f.typ) {
			*out = append(*out, Violation{
				Path:    path,
				Code:    CodeInvalidType,
				Message: fmt.Sprintf("expected %s, received %s", f.typ, jsonType(v)),
			})
			continue
		}

		if f.typ == typeObject {
			validateFields(v.(map[string]any), f.fields, path, out)
		}
	}
}

// project copies the keys of obj that the schema names, matched exactly,
// into a new map. Unknown keys are dropped at every level.
func project(obj map[string]any, fields []field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		v, ok := obj[f.name]
		if !ok {
			continue
		}
		if m, isObject := v.(map[string]any); isObject && f.typ == typeObject {
			v = project(m, f.fields)
		}
		out[f.name] = v
	}
	return out
}

func matches(v any, t valueType) bool {
	switch t {
	case typeString:
		_, ok := v.(string)
		return ok
	case typeNumber:
		_, ok := v.(float64)
		return ok
	case typeNullableNumber:
		if v == nil {
			return true
		}
		_, ok := v.(float64)
		return ok
	case typeObject:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
