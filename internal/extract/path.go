// internal/extract/path.go
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/solatis/sdlc-connector/internal/types"
)

/*
 * Path expressions.
 *
 * Two shapes are supported, both rooted at "$.":
 *   - scalar paths:  $.issue.user.id
 *   - array paths:   $.deployment.reviewers[*].reviewer.login
 *
 * Segments are split on literal dots. There is no quoting or escaping, and an
 * array path carries exactly one [*] segment. Everything is parsed once, when
 * a rule catalog is compiled, so a malformed expression fails at startup and
 * never per request.
 */

const (
	// Root is the marker every expression starts with.
	Root = "$."

	// Wildcard is the array wildcard suffix of a segment.
	Wildcard = "[*]"
)

// arrayPathPattern decomposes the root-stripped expression into
// (prefix segments)(array field)[*](suffix). Prefix keeps its trailing dot,
// suffix keeps its leading dot.
var arrayPathPattern = regexp.MustCompile(`^((?:[^.\[\]]+\.)*)([^.\[\]]+)\[\*\]((?:\.[^.\[\]]+)*)$`)

// Path is a parsed scalar/object path. Immutable after parsing.
type Path struct {
	expr     string
	segments []string
}

// String returns the original expression.
func (p Path) String() string {
	return p.expr
}

// Segments returns a copy of the dot-separated segments without the root.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// ArrayPath is a parsed wildcard path.
//
// Prefix+Field address the array. Each entry of Suffixes is one sub-field
// retained per element; no suffixes means elements are kept as they are.
type ArrayPath struct {
	expr     string
	prefix   []string
	field    string
	suffixes [][]string
}

// String returns the original expression.
func (a ArrayPath) String() string {
	return a.expr
}

// Prefix returns the segments preceding the array field.
func (a ArrayPath) Prefix() []string {
	return append([]string(nil), a.prefix...)
}

// Field returns the array field segment without the wildcard marker.
func (a ArrayPath) Field() string {
	return a.field
}

// ArraySegments returns the full address of the array (prefix + field).
func (a ArrayPath) ArraySegments() []string {
	out := make([]string, 0, len(a.prefix)+1)
	out = append(out, a.prefix...)
	return append(out, a.field)
}

// Suffixes returns the per-element sub-field paths.
func (a ArrayPath) Suffixes() [][]string {
	out := make([][]string, len(a.suffixes))
	for i, s := range a.suffixes {
		out[i] = append([]string(nil), s...)
	}
	return out
}

// ParsePath parses a scalar/object path such as "$.pull_request.user.id".
func ParsePath(expr string) (Path, error) {
	rest, err := stripRoot(expr)
	if err != nil {
		return Path{}, err
	}
	if strings.Contains(rest, Wildcard) {
		return Path{}, fmt.Errorf("%w: %s", ErrUnexpectedWildcard, expr)
	}
	segments, err := splitSegments(rest, expr)
	if err != nil {
		return Path{}, err
	}
	return Path{expr: expr, segments: segments}, nil
}

// MustParsePath is ParsePath for static catalogs; panics on error.
func MustParsePath(expr string) Path {
	p, err := ParsePath(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// ParseArrayPath parses a wildcard path such as "$.a.b[*].c" or "$.a.b[*]".
func ParseArrayPath(expr string) (ArrayPath, error) {
	rest, err := stripRoot(expr)
	if err != nil {
		return ArrayPath{}, err
	}

	switch strings.Count(rest, Wildcard) {
	case 0:
		return ArrayPath{}, fmt.Errorf("%w: %s", ErrMissingWildcard, expr)
	case 1:
	default:
		return ArrayPath{}, fmt.Errorf("%w: %s", ErrTooManyWildcards, expr)
	}

	m := arrayPathPattern.FindStringSubmatch(rest)
	if m == nil {
		return ArrayPath{}, fmt.Errorf("%w: %s", ErrMalformedPath, expr)
	}

	ap := ArrayPath{expr: expr, field: m[2]}
	if m[1] != "" {
		ap.prefix = strings.Split(strings.TrimSuffix(m[1], "."), ".")
	}
	if m[3] != "" {
		ap.suffixes = [][]string{strings.Split(strings.TrimPrefix(m[3], "."), ".")}
	}

	depth := len(ap.prefix) + 1
	if len(ap.suffixes) > 0 {
		depth += len(ap.suffixes[0])
	}
	if depth > types.MaxPathDepth {
		return ArrayPath{}, fmt.Errorf("%w: %s", ErrPathTooDeep, expr)
	}
	return ap, nil
}

// MustParseArrayPath is ParseArrayPath for static catalogs; panics on error.
func MustParseArrayPath(expr string) ArrayPath {
	ap, err := ParseArrayPath(expr)
	if err != nil {
		panic(err)
	}
	return ap
}

// WithFields returns a copy of a suffix-less array path that retains the
// given relative sub-fields (e.g. "reviewer.login") per element.
func (a ArrayPath) WithFields(fields ...string) (ArrayPath, error) {
	if len(a.suffixes) > 0 {
		return ArrayPath{}, fmt.Errorf("%w: %s already selects a sub-field", ErrMalformedPath, a.expr)
	}
	out := ArrayPath{
		expr:     a.expr,
		prefix:   a.prefix,
		field:    a.field,
		suffixes: make([][]string, 0, len(fields)),
	}
	for _, f := range fields {
		if strings.Contains(f, Wildcard) {
			return ArrayPath{}, fmt.Errorf("%w: %s.%s", ErrTooManyWildcards, a.expr, f)
		}
		segments, err := splitSegments(f, a.expr+"."+f)
		if err != nil {
			return ArrayPath{}, err
		}
		if len(a.prefix)+1+len(segments) > types.MaxPathDepth {
			return ArrayPath{}, fmt.Errorf("%w: %s.%s", ErrPathTooDeep, a.expr, f)
		}
		out.suffixes = append(out.suffixes, segments)
	}
	return out, nil
}

func stripRoot(expr string) (string, error) {
	if !strings.HasPrefix(expr, Root) {
		return "", fmt.Errorf("%w: %q", ErrMissingRoot, expr)
	}
	return strings.TrimPrefix(expr, Root), nil
}

func splitSegments(rest, expr string) ([]string, error) {
	segments := strings.Split(rest, ".")
	if len(segments) > types.MaxPathDepth {
		return nil, fmt.Errorf("%w: %s", ErrPathTooDeep, expr)
	}
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptySegment, expr)
		}
	}
	return segments, nil
}
