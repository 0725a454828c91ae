package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var (
	// ErrArrayNameRequired means the endpoint answered with an object but no
	// arrayName was configured to locate the candidates inside it.
	ErrArrayNameRequired = errors.New("response is an object: the arrayName option is required to find the candidates")

	// ErrUnsupportedPayload is returned for payloads that are neither an
	// array nor an object of candidate records.
	ErrUnsupportedPayload = errors.New("unsupported suggestion payload")
)

// Candidate is one record returned by the endpoint. Its shape is defined by
// the caller; the controller only reads the matchWith field and whatever
// fields the item template references.
type Candidate map[string]string

// Field returns the named value, or "" when the field is absent.
func (c Candidate) Field(name string) string {
	return c[name]
}

// Payload is the raw response body returned by a Fetcher.
type Payload []byte

// DecodeCandidates interprets payload either as a bare array of records or
// as an object holding the array under arrayName. A missing key, or a key
// whose value is not an array, yields no candidates.
func DecodeCandidates(payload Payload, arrayName string) ([]Candidate, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrUnsupportedPayload)
	}

	switch trimmed[0] {
	case '[':
		return decodeRecords(trimmed)

	case '{':
		if arrayName == "" {
			return nil, ErrArrayNameRequired
		}

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
		}

		raw, ok := envelope[arrayName]
		if !ok {
			return nil, nil
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			return nil, nil
		}
		return decodeRecords(raw)

	default:
		return nil, fmt.Errorf("%w: top-level value must be an array or an object", ErrUnsupportedPayload)
	}
}

func decodeRecords(raw []byte) ([]Candidate, error) {
	var records []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedPayload, err)
	}

	return lo.Map(records, func(record map[string]json.RawMessage, _ int) Candidate {
		return Candidate(lo.MapValues(record, func(value json.RawMessage, _ string) string {
			return fieldString(value)
		}))
	}), nil
}

// fieldString flattens a JSON value to the text a user would see: strings
// unquoted, null empty, everything else in compact JSON form.
func fieldString(value json.RawMessage) string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || bytes.Equal(value, []byte("null")) {
		return ""
	}

	if value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			return s
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, value); err != nil {
		return string(value)
	}
	return compact.String()
}
