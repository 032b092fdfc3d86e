// Package currency reads and edits the currency dataset through the plugin's
// REST endpoints.
package currency

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Scalar is a JSON value that may arrive as a string, a number or a bool,
// kept in its string form.
type Scalar string

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""

		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("decode scalar: %w", err)
		}

		*s = Scalar(str)

		return nil
	}

	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode scalar: %w", err)
	}

	switch v.(type) {
	case float64, bool:
		*s = Scalar(b)
	default:
		return fmt.Errorf("decode scalar: unexpected %s", b)
	}

	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// Float parses the value as a finite number.
func (s Scalar) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// Int parses the value as an integer. Decimal values are truncated; values
// outside the int range are rejected.
func (s Scalar) Int() (int, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(string(s))); err == nil {
		return n, true
	}

	f, ok := s.Float()
	if !ok || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}

	n := int64(f)
	if n < math.MinInt || n > math.MaxInt {
		return 0, false
	}

	return int(n), true
}

// Currency is one row of the dataset.
type Currency struct {
	ID            Scalar `json:"id" yaml:"id"`
	Code          string `json:"currency_code" yaml:"currency_code"`
	Name          string `json:"name" yaml:"name"`
	Price         Scalar `json:"price" yaml:"price"`
	Image         string `json:"image,omitempty" yaml:"image,omitempty"`
	StateAt       string `json:"state_at,omitempty" yaml:"state_at,omitempty"`
	FormatStateAt string `json:"format_state_at,omitempty" yaml:"format_state_at,omitempty"`
	DaysStateAt   Scalar `json:"days_state_at,omitempty" yaml:"days_state_at,omitempty"`
}

var stateAtLayouts = []string{
	time.DateTime,
	time.RFC3339,
	time.DateOnly,
}

// StateTime parses StateAt.
func (c Currency) StateTime() (time.Time, bool) {
	for _, layout := range stateAtLayouts {
		if t, err := time.ParseInLocation(layout, c.StateAt, time.UTC); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Row returns c as a map keyed by the JSON field names, with numeric fields
// as numbers where they parse.
func (c Currency) Row() map[string]any {
	row := map[string]any{
		"id":              c.ID.String(),
		"currency_code":   c.Code,
		"name":            c.Name,
		"price":           c.Price.String(),
		"image":           c.Image,
		"state_at":        c.StateAt,
		"format_state_at": c.FormatStateAt,
		"days_state_at":   c.DaysStateAt.String(),
	}

	if f, ok := c.Price.Float(); ok {
		row["price"] = f
	}

	if n, ok := c.DaysStateAt.Int(); ok {
		row["days_state_at"] = int64(n)
	}

	if n, ok := c.ID.Int(); ok {
		row["id"] = int64(n)
	}

	return row
}

// Analytics is the payload of the analytics endpoint.
type Analytics struct {
	Update any `json:"update" yaml:"update"`
}

// LogEntry is one record returned by the log endpoint.
type LogEntry map[string]any
