package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const (
	MessageServerError  = "Server error"
	MessageNetworkError = "Network error"
)

// ErrNoData is returned by [Envelope.DecodeData] when the body has no "data"
// field.
var ErrNoData = errors.New("envelope has no data")

// Envelope is the normalized result of every [Client.Call]. Successful calls
// keep the response body verbatim in Raw; failed calls are synthesized and
// have no Raw body.
type Envelope struct {
	// Body is the decoded 2xx response body.
	Body any
	// Data is the "data" field of an object body.
	Data any
	// Message is the "message" field of the body, or the failure message.
	Message string
	// Raw is the exact 2xx response body.
	Raw json.RawMessage
	// Results is always empty, and only set on HTTP failures.
	Results []any
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Success mirrors the body's "success" field using loose truthiness, so
	// an empty array or object counts as true.
	Success bool
}

// DecodeData unmarshals the body's "data" field into v.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Raw) == 0 {
		return ErrNoData
	}

	var body struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(e.Raw, &body); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	if len(body.Data) == 0 || bytes.Equal(body.Data, []byte("null")) {
		return ErrNoData
	}

	if err := json.Unmarshal(body.Data, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}

	return nil
}

// MarshalJSON returns the raw body for successful calls, and the synthesized
// failure shape otherwise.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	if len(e.Raw) > 0 {
		return e.Raw, nil
	}

	out := map[string]any{
		"success": e.Success,
		"message": e.Message,
	}
	if e.Results != nil {
		out["results"] = e.Results
	}

	if e.Status != 0 {
		out["status"] = e.Status
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}

	return b, nil
}

func networkError() *Envelope {
	return &Envelope{Message: MessageNetworkError}
}

func serverError(status int, message string) *Envelope {
	return &Envelope{
		Message: message,
		Results: []any{},
		Status:  status,
	}
}

// decodeEnvelope builds the envelope for a 2xx body.
func decodeEnvelope(status int, raw []byte) (*Envelope, error) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	e := &Envelope{
		Body:   body,
		Raw:    json.RawMessage(raw),
		Status: status,
	}

	if obj, ok := body.(map[string]any); ok {
		e.Success = truthy(obj["success"])
		e.Data = obj["data"]
		e.Message, _ = obj["message"].(string)
	}

	return e, nil
}

// truthy applies loose truthiness: only false, 0, NaN, "" and null are false.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}
