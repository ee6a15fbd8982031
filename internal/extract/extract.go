// internal/extract/extract.go
package extract

import "github.com/solatis/sdlc-connector/internal/types"

/*
 * Extraction engine.
 *
 * Builds a normalized nested mapping from a set of declarative paths. Every
 * non-terminal segment becomes a nested map key and only the terminal
 * segment carries the value, so "$.a.b" and "$.a.c" converge on a single
 * {"a": {"b": ..., "c": ...}} node.
 *
 * Absence is silent: a missing or null value contributes nothing, and no
 * intermediate map is created solely on its behalf.
 *
 * Array paths are evaluated by ExtractArray, separately from scalar paths,
 * and merged into the same output mapping.
 */

// Extract evaluates scalar/object paths against doc and returns a fresh
// mapping.
func Extract(doc *Document, paths []Path) types.Content {
	out := make(types.Content)
	for _, p := range paths {
		v, ok := doc.Lookup(p.segments)
		if !ok {
			continue
		}
		put(out, p.segments, deepCopy(v))
	}
	return out
}

// ExtractArray evaluates an array path against doc and inserts the result
// into out at prefix+field. An absent or null array adds no key at all.
// Returns out for chaining; a nil out allocates a new mapping.
func ExtractArray(doc *Document, ap ArrayPath, out types.Content) types.Content {
	if out == nil {
		out = make(types.Content)
	}
	arr, ok := doc.Array(ap.ArraySegments())
	if !ok {
		return out
	}
	put(out, ap.ArraySegments(), Elements(arr, ap.suffixes))
	return out
}

// Elements rebuilds raw array elements. Without suffixes the elements are
// copied as-is; otherwise each element becomes a mapping holding only the
// resolved suffix paths, built with the same nesting rule as Extract.
func Elements(raw []any, suffixes [][]string) []any {
	out := make([]any, 0, len(raw))
	if len(suffixes) == 0 {
		for _, elem := range raw {
			out = append(out, deepCopy(elem))
		}
		return out
	}
	for _, elem := range raw {
		m := make(types.Content)
		for _, suffix := range suffixes {
			v, ok := lookup(elem, suffix)
			if !ok {
				continue
			}
			put(m, suffix, deepCopy(v))
		}
		out = append(out, m)
	}
	return out
}

// put creates (or reuses) nested maps for every non-terminal segment and
// sets the terminal one. A non-map value already sitting on the way is
// replaced; catalogs never declare a path and one of its own prefixes.
func put(out types.Content, segments []string, value any) {
	current := out
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}
