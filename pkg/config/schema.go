package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "unused-files-seeker.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
		if err != nil {
			schemaErr = err
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Validate checks a decoded configuration document against the configuration schema.
// raw is the parser output: maps, slices, strings, numbers and booleans.
func Validate(raw map[string]any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile configuration schema: %w", err)
	}
	if err := sch.Validate(normalize(raw)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// normalize converts parser-specific numeric types to float64, the JSON number
// representation the validator expects.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}
