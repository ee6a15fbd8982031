// internal/extract/document.go
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ErrInvalidDocument indicates a payload that is not a single JSON value.
var ErrInvalidDocument = errors.New("invalid JSON document")

// Document is a read-only view over a decoded JSON payload.
//
// Numbers are decoded as json.Number so 64-bit platform ids survive without
// float rounding. Nothing in this package mutates the decoded tree; values
// handed out of Extract are copies.
type Document struct {
	root any
}

// ParseDocument decodes raw payload bytes. The same bytes that were
// authenticated must be passed here.
func ParseDocument(raw []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	var trailing any
	if err := dec.Decode(&trailing); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrInvalidDocument)
	}
	return &Document{root: root}, nil
}

// NewDocument wraps an already decoded value.
func NewDocument(root any) *Document {
	return &Document{root: root}
}

// Lookup walks the document by object keys. Missing keys, nulls and
// non-object intermediates all yield (nil, false).
func (d *Document) Lookup(segments []string) (any, bool) {
	if d == nil {
		return nil, false
	}
	return lookup(d.root, segments)
}

// Has reports whether the path resolves to a non-null value.
func (d *Document) Has(segments []string) bool {
	_, ok := d.Lookup(segments)
	return ok
}

// Array returns the array at the path, or false if absent, null or not an
// array.
func (d *Document) Array(segments []string) ([]any, bool) {
	v, ok := d.Lookup(segments)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}

// Text renders a scalar at the path as a string. Objects and arrays are not
// scalars and yield false.
func (d *Document) Text(segments []string) (string, bool) {
	v, ok := d.Lookup(segments)
	if !ok {
		return "", false
	}
	return scalarText(v)
}

func lookup(current any, segments []string) (any, bool) {
	for _, seg := range segments {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

func scalarText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	case float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

// deepCopy snapshots objects and arrays so extracted content never aliases
// the document.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
