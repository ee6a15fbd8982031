// internal/rules/compile.go
package rules

import (
	"fmt"

	"github.com/solatis/sdlc-connector/internal/extract"
)

/*
 * Event rule compilation.
 *
 * A Rule is a declarative record: the event type it binds to, the scalar
 * paths to extract, an optional path whose value suffixes the type label,
 * and at most one array spec. Compile parses every expression once so that
 * a malformed catalog fails at startup instead of per request.
 *
 * Compiled rules are read-only and shared by all requests.
 */

// DefaultSenderPath addresses the external sender id in GitHub payloads.
const DefaultSenderPath = "$.sender.id"

// ArraySpec declares the single array field a rule extracts.
//
// Path is a wildcard expression. Fields lists the literal sub-fields kept per
// element and requires a suffix-less Path; with neither a suffix nor Fields
// the elements are kept whole.
type ArraySpec struct {
	Path   string
	Fields []string
}

// Rule is the declarative extraction and labeling record for one event type.
type Rule struct {
	EventType  string
	Paths      []string
	LabelPath  string     // optional; value appended as "<event type> <value>"
	Array      *ArraySpec // optional
	SenderPath string     // defaults to DefaultSenderPath
}

// CompiledRule is a Rule with all expressions parsed.
type CompiledRule struct {
	eventType string
	paths     []extract.Path
	label     *extract.Path
	array     *extract.ArrayPath
	sender    extract.Path
	source    Rule
}

// Compile validates and parses every expression in rule.
func Compile(rule Rule) (*CompiledRule, error) {
	if rule.EventType == "" {
		return nil, ErrEmptyEventType
	}

	compiled := &CompiledRule{
		eventType: rule.EventType,
		paths:     make([]extract.Path, 0, len(rule.Paths)),
		source:    rule,
	}

	for _, expr := range rule.Paths {
		p, err := extract.ParsePath(expr)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.EventType, err)
		}
		compiled.paths = append(compiled.paths, p)
	}

	if rule.LabelPath != "" {
		p, err := extract.ParsePath(rule.LabelPath)
		if err != nil {
			return nil, fmt.Errorf("rule %s label: %w", rule.EventType, err)
		}
		compiled.label = &p
	}

	if rule.Array != nil {
		ap, err := compileArray(*rule.Array)
		if err != nil {
			return nil, fmt.Errorf("rule %s array: %w", rule.EventType, err)
		}
		compiled.array = &ap
	}

	senderExpr := rule.SenderPath
	if senderExpr == "" {
		senderExpr = DefaultSenderPath
	}
	sender, err := extract.ParsePath(senderExpr)
	if err != nil {
		return nil, fmt.Errorf("rule %s sender: %w", rule.EventType, err)
	}
	compiled.sender = sender

	return compiled, nil
}

func compileArray(spec ArraySpec) (extract.ArrayPath, error) {
	ap, err := extract.ParseArrayPath(spec.Path)
	if err != nil {
		return extract.ArrayPath{}, err
	}
	if len(spec.Fields) == 0 {
		return ap, nil
	}
	return ap.WithFields(spec.Fields...)
}

// EventType returns the event type the rule is registered under.
func (r *CompiledRule) EventType() string {
	return r.eventType
}

// Rule returns the declaration the rule was compiled from.
func (r *CompiledRule) Rule() Rule {
	return r.source
}
