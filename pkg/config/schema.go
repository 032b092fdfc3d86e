package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/wplibs/nodata/pkg/yaml"
)

// SchemaFile is the name of the schema written next to the config file.
const SchemaFile = "config.v1.json"

var (
	schemaOnce = sync.OnceValues(generateSchema)

	defaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
		data, err := Schema()
		if err != nil {
			return nil, err
		}

		return yaml.NewValidator("/"+SchemaFile, data) //nolint:wrapcheck // Wrapped by callers.
	})
)

// Schema returns the JSON schema of [Config].
func Schema() ([]byte, error) {
	return schemaOnce()
}

// DefaultValidator returns a validator for the [Config] schema.
func DefaultValidator() (*yaml.Validator, error) {
	v, err := defaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return v, nil
}

func generateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
	}

	s := r.Reflect(&Config{})
	s.Title = "nodata configuration"

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}
