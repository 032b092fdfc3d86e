package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

// NewPathBuilder returns a builder for [*yaml.Path] values, e.g.
// NewPathBuilder().Root().Child("api").Build().
func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error is a decode or validation error, located either by the offending
// token or by a path into the document.
type Error struct {
	Err   error
	Path  *yaml.Path
	Token *token.Token
}

func (e *Error) Error() string {
	switch {
	case e.Path != nil:
		return fmt.Sprintf("error at %s: %v", e.Path, e.Err)
	case e.Token != nil && e.Token.Position != nil:
		return fmt.Sprintf("[%d:%d] %v", e.Token.Position.Line, e.Token.Position.Column, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Annotate returns the lines of source around the error, or "" when the
// location is unknown.
func (e *Error) Annotate(source []byte) string {
	if e.Token != nil {
		var p printer.Printer

		return p.PrintErrorToken(e.Token, false)
	}

	if e.Path == nil || len(source) == 0 {
		return ""
	}

	b, err := e.Path.AnnotateSource(source, false)
	if err != nil {
		return ""
	}

	return string(b)
}
