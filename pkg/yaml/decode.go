package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
)

type Decoder struct {
	d *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, yaml.UseJSONUnmarshaler()),
	}
}

// Decode decodes the next document into v. YAML syntax and type errors are
// returned as [*Error].
func (d *Decoder) Decode(v any) error {
	err := d.d.Decode(v)
	if err == nil {
		return nil
	}

	var yamlErr yaml.Error
	if errors.As(err, &yamlErr) {
		return &Error{
			Err:   errors.New(yamlErr.GetMessage()),
			Token: yamlErr.GetToken(),
		}
	}

	return err //nolint:wrapcheck // Return the original error if it's not a [yaml.Error].
}

// Unmarshal decodes a single document from data.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}

	return NewDecoder(bytes.NewReader(data)).Decode(v)
}
