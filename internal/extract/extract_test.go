package extract

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustDoc(t *testing.T, raw string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(raw))
	if err != nil {
		t.Fatalf("ParseDocument(%s) error = %v", raw, err)
	}
	return doc
}

func paths(exprs ...string) []Path {
	out := make([]Path, len(exprs))
	for i, e := range exprs {
		out[i] = MustParsePath(e)
	}
	return out
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		paths    []string
		expected map[string]any
	}{
		{
			name:  "shared prefix converges",
			data:  `{"a": {"b": "x", "c": "y", "d": "z"}}`,
			paths: []string{"$.a.b", "$.a.c"},
			expected: map[string]any{
				"a": map[string]any{"b": "x", "c": "y"},
			},
		},
		{
			name:  "numbers keep exact representation",
			data:  `{"issue": {"id": 42, "big": 1234567890123456789}}`,
			paths: []string{"$.issue.id", "$.issue.big"},
			expected: map[string]any{
				"issue": map[string]any{"id": json.Number("42"), "big": json.Number("1234567890123456789")},
			},
		},
		{
			name:     "missing intermediate is silent",
			data:     `{"a": {"x": 1}}`,
			paths:    []string{"$.a.b.c", "$.z"},
			expected: map[string]any{},
		},
		{
			name:     "null leaf is absent",
			data:     `{"assignee": null}`,
			paths:    []string{"$.assignee", "$.assignee.id"},
			expected: map[string]any{},
		},
		{
			name:  "absent path does not create prefix when sibling resolves",
			data:  `{"a": {"b": true}}`,
			paths: []string{"$.a.b", "$.a.c.d"},
			expected: map[string]any{
				"a": map[string]any{"b": true},
			},
		},
		{
			name:  "object snapshot",
			data:  `{"label": {"id": 7, "name": "bug"}}`,
			paths: []string{"$.label"},
			expected: map[string]any{
				"label": map[string]any{"id": json.Number("7"), "name": "bug"},
			},
		},
		{
			name:  "array snapshot through scalar path",
			data:  `{"commits": [{"id": "a"}, {"id": "b"}]}`,
			paths: []string{"$.commits"},
			expected: map[string]any{
				"commits": []any{map[string]any{"id": "a"}, map[string]any{"id": "b"}},
			},
		},
		{
			name:     "scalar intermediate",
			data:     `{"ref": "refs/heads/main"}`,
			paths:    []string{"$.ref.name"},
			expected: map[string]any{},
		},
		{
			name:  "false and empty string are values",
			data:  `{"forced": false, "base_ref": ""}`,
			paths: []string{"$.forced", "$.base_ref"},
			expected: map[string]any{
				"forced": false, "base_ref": "",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(mustDoc(t, tt.data), paths(tt.paths...))
			if !reflect.DeepEqual(map[string]any(got), tt.expected) {
				t.Errorf("Extract() = %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestExtract_SnapshotDoesNotAlias(t *testing.T) {
	doc := mustDoc(t, `{"label": {"name": "bug"}}`)
	first := Extract(doc, paths("$.label"))
	first["label"].(map[string]any)["name"] = "changed"

	second := Extract(doc, paths("$.label"))
	if second["label"].(map[string]any)["name"] != "bug" {
		t.Errorf("document was mutated through extracted content: %v", second)
	}
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expr     string
		fields   []string
		expected map[string]any
	}{
		{
			name: "suffix keeps declared sub-field only",
			data: `{"a": {"b": [{"c": 1, "x": 9}, {"c": 2, "x": 8}]}}`,
			expr: "$.a.b[*].c",
			expected: map[string]any{
				"a": map[string]any{"b": []any{
					map[string]any{"c": json.Number("1")},
					map[string]any{"c": json.Number("2")},
				}},
			},
		},
		{
			name: "empty suffix keeps raw elements",
			data: `{"a": {"b": [1, 2, 3]}}`,
			expr: "$.a.b[*]",
			expected: map[string]any{
				"a": map[string]any{"b": []any{json.Number("1"), json.Number("2"), json.Number("3")}},
			},
		},
		{
			name:     "absent array adds no key",
			data:     `{"a": {}}`,
			expr:     "$.a.b[*].c",
			expected: map[string]any{},
		},
		{
			name:     "null array adds no key",
			data:     `{"a": {"b": null}}`,
			expr:     "$.a.b[*]",
			expected: map[string]any{},
		},
		{
			name:     "non-array adds no key",
			data:     `{"a": {"b": "text"}}`,
			expr:     "$.a.b[*]",
			expected: map[string]any{},
		},
		{
			name: "empty array is kept",
			data: `{"reviewers": []}`,
			expr: "$.reviewers[*].type",
			expected: map[string]any{
				"reviewers": []any{},
			},
		},
		{
			name:   "multiple retained fields",
			data:   `{"reviewers": [{"type": "User", "reviewer": {"id": 1, "login": "octo", "site_admin": false}}, {"type": "Team"}]}`,
			expr:   "$.reviewers[*]",
			fields: []string{"type", "reviewer.id", "reviewer.login"},
			expected: map[string]any{
				"reviewers": []any{
					map[string]any{"type": "User", "reviewer": map[string]any{"id": json.Number("1"), "login": "octo"}},
					map[string]any{"type": "Team"},
				},
			},
		},
		{
			name: "scalar elements with suffix become empty mappings",
			data: `{"a": [1, {"c": 2}]}`,
			expr: "$.a[*].c",
			expected: map[string]any{
				"a": []any{map[string]any{}, map[string]any{"c": json.Number("2")}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ap := MustParseArrayPath(tt.expr)
			if len(tt.fields) > 0 {
				var err error
				ap, err = ap.WithFields(tt.fields...)
				if err != nil {
					t.Fatalf("WithFields() error = %v", err)
				}
			}
			got := ExtractArray(mustDoc(t, tt.data), ap, nil)
			if !reflect.DeepEqual(map[string]any(got), tt.expected) {
				t.Errorf("ExtractArray() = %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestExtractArray_MergesWithScalarPaths(t *testing.T) {
	doc := mustDoc(t, `{"workflow_run": {"id": 5, "name": "ci"}, "workflow": {"jobs": [{"id": 1, "name": "a"}]}}`)

	out := Extract(doc, paths("$.workflow_run.id", "$.workflow.name"))
	ExtractArray(doc, MustParseArrayPath("$.workflow.jobs[*].id"), out)

	expected := map[string]any{
		"workflow_run": map[string]any{"id": json.Number("5")},
		"workflow": map[string]any{
			"jobs": []any{map[string]any{"id": json.Number("1")}},
		},
	}
	if !reflect.DeepEqual(map[string]any(out), expected) {
		t.Errorf("merged content = %#v, expected %#v", out, expected)
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "object", data: `{"a": 1}`},
		{name: "array", data: `[1, 2]`},
		{name: "whitespace around", data: " \n{\"a\": 1}\n "},
		{name: "invalid", data: `{invalid}`, wantErr: true},
		{name: "empty", data: ``, wantErr: true},
		{name: "trailing value", data: `{"a": 1} {"b": 2}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDocument() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDocument) {
				t.Errorf("error %v does not wrap ErrInvalidDocument", err)
			}
		})
	}
}

func TestDocument_Reads(t *testing.T) {
	doc := mustDoc(t, `{"action": "opened", "sender": {"id": 95364200}, "draft": true, "labels": [1], "none": null}`)

	if !doc.Has([]string{"sender", "id"}) {
		t.Error("Has(sender.id) = false")
	}
	if doc.Has([]string{"none"}) {
		t.Error("Has(none) = true for null value")
	}
	if s, ok := doc.Text([]string{"action"}); !ok || s != "opened" {
		t.Errorf("Text(action) = %q, %v", s, ok)
	}
	if s, ok := doc.Text([]string{"sender", "id"}); !ok || s != "95364200" {
		t.Errorf("Text(sender.id) = %q, %v", s, ok)
	}
	if s, ok := doc.Text([]string{"draft"}); !ok || s != "true" {
		t.Errorf("Text(draft) = %q, %v", s, ok)
	}
	if _, ok := doc.Text([]string{"sender"}); ok {
		t.Error("Text(sender) resolved an object")
	}
	if arr, ok := doc.Array([]string{"labels"}); !ok || len(arr) != 1 {
		t.Errorf("Array(labels) = %v, %v", arr, ok)
	}
	if _, ok := doc.Array([]string{"action"}); ok {
		t.Error("Array(action) resolved a string")
	}

	var nilDoc *Document
	if nilDoc.Has([]string{"a"}) {
		t.Error("nil document reported a value")
	}
}

// Property-based test: one leaf per resolved path, shared prefixes converge
func TestExtract_PropertyOneLeafPerResolvedPath(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("resolved paths produce exactly one leaf each under a shared root", prop.ForAll(
		func(present []bool) bool {
			// Document has keys k0..kn under "root"; the paths ask for the
			// same keys, but only those flagged present exist in the data.
			obj := map[string]any{}
			var exprs []string
			resolved := 0
			for i, p := range present {
				key := fmt.Sprintf("k%d", i)
				exprs = append(exprs, "$.root."+key)
				if p {
					obj[key] = i
					resolved++
				}
			}
			doc := NewDocument(map[string]any{"root": obj})
			out := Extract(doc, paths(exprs...))

			if resolved == 0 {
				return len(out) == 0
			}
			root, ok := out["root"].(map[string]any)
			if !ok || len(out) != 1 {
				return false
			}
			return len(root) == resolved
		},
		gen.SliceOfN(8, gen.Bool()),
	))

	properties.TestingRun(t)
}

// Property-based test: absent data never creates keys
func TestExtract_PropertyAbsentPathsCreateNothing(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("paths over absent data leave the mapping empty", prop.ForAll(
		func(depth int, nullLeaf bool) bool {
			expr := "$.a"
			for i := 1; i < depth; i++ {
				expr += fmt.Sprintf(".s%d", i)
			}
			var data any = map[string]any{"other": 1}
			if nullLeaf {
				data = map[string]any{"a": nil}
			}
			out := Extract(NewDocument(data), paths(expr))
			return len(out) == 0
		},
		gen.IntRange(1, 16),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Property-based test: extraction never panics on arbitrary documents
func TestExtractArray_PropertyNeverCrashes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	documents := []string{
		`{}`, `[]`, `null`, `"text"`, `{"a": null}`, `{"a": {"b": null}}`,
		`{"a": {"b": [null, 1, "x", {"c": null}, {"c": [1]}]}}`, `{"a": [[1], [2]]}`,
	}

	properties.Property("array extraction never panics", prop.ForAll(
		func(idx int, withSuffix bool) bool {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("ExtractArray() panicked: %v", r)
				}
			}()
			expr := "$.a.b[*]"
			if withSuffix {
				expr += ".c"
			}
			doc, err := ParseDocument([]byte(documents[idx]))
			if err != nil {
				return false
			}
			_ = ExtractArray(doc, MustParseArrayPath(expr), nil)
			_ = Extract(doc, paths("$.a.b.c"))
			return true
		},
		gen.IntRange(0, len(documents)-1),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
