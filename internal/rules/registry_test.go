package rules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
)

func TestNewRegistry(t *testing.T) {
	t.Run("lookup exact match", func(t *testing.T) {
		reg, err := NewRegistry(Rule{EventType: "issues"}, Rule{EventType: "push"})
		if err != nil {
			t.Fatalf("NewRegistry() error = %v", err)
		}
		if _, ok := reg.Lookup("issues"); !ok {
			t.Error("Lookup(issues) not found")
		}
		if _, ok := reg.Lookup("Issues"); ok {
			t.Error("Lookup is not case sensitive")
		}
		if _, ok := reg.Lookup("check_suite"); ok {
			t.Error("Lookup(check_suite) found an unregistered type")
		}
		if !reflect.DeepEqual(reg.EventTypes(), []string{"issues", "push"}) {
			t.Errorf("EventTypes() = %v", reg.EventTypes())
		}
	})

	t.Run("duplicate event type", func(t *testing.T) {
		_, err := NewRegistry(Rule{EventType: "push"}, Rule{EventType: "push"})
		if !errors.Is(err, ErrDuplicateEventType) {
			t.Errorf("NewRegistry() error = %v, want ErrDuplicateEventType", err)
		}
	})

	t.Run("malformed rule fails fast", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustNewRegistry did not panic")
			}
		}()
		MustNewRegistry(Rule{EventType: "x", Paths: []string{"$.a..b"}})
	})
}

func TestGitHubCatalog(t *testing.T) {
	reg := GitHub()

	if reg.Len() != len(GitHubRules()) {
		t.Fatalf("registry has %d rules, catalog declares %d", reg.Len(), len(GitHubRules()))
	}

	expected := []string{
		"commit_comment", "create", "delete", "deployment", "deployment_review",
		"deployment_status", "discussion", "discussion_comment", "issue_comment",
		"issues", "milestone", "package", "pull_request", "pull_request_review",
		"pull_request_review_comment", "pull_request_review_thread", "push",
		"registry_package", "release", "status", "sub_issues", "workflow_dispatch",
		"workflow_job", "workflow_run",
	}
	if !reflect.DeepEqual(reg.EventTypes(), expected) {
		t.Errorf("EventTypes() = %v, expected %v", reg.EventTypes(), expected)
	}

	if GitHub() != reg {
		t.Error("GitHub() built a second registry")
	}
}

func TestGitHubCatalog_Issues(t *testing.T) {
	rule, ok := GitHub().Lookup("issues")
	if !ok {
		t.Fatal("issues rule not registered")
	}

	got := rule.Apply(mustDoc(t, `{"action":"unassigned","issue":{"id":42},"sender":{"id":"95364200"}}`))

	if got.Type != "issues unassigned" {
		t.Errorf("Type = %q, expected %q", got.Type, "issues unassigned")
	}
	expected := map[string]any{
		"issue":  map[string]any{"id": json.Number("42")},
		"sender": map[string]any{"id": "95364200"},
	}
	if !reflect.DeepEqual(map[string]any(got.Content), expected) {
		t.Errorf("Content = %#v, expected %#v", got.Content, expected)
	}
	if got.SenderID != "95364200" {
		t.Errorf("SenderID = %q", got.SenderID)
	}
}

func TestGitHubCatalog_Labels(t *testing.T) {
	tests := []struct {
		eventType string
		data      string
		expected  string
	}{
		{eventType: "create", data: `{"ref_type": "tag", "action": "x"}`, expected: "create tag"},
		{eventType: "delete", data: `{"ref_type": "branch"}`, expected: "delete branch"},
		{eventType: "push", data: `{"ref": "refs/heads/main"}`, expected: "push"},
		{eventType: "status", data: `{"state": "success"}`, expected: "status"},
		{eventType: "workflow_dispatch", data: `{"ref": "main"}`, expected: "workflow_dispatch"},
		{eventType: "workflow_run", data: `{"action": "completed"}`, expected: "workflow_run completed"},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			rule, ok := GitHub().Lookup(tt.eventType)
			if !ok {
				t.Fatalf("%s not registered", tt.eventType)
			}
			if got := rule.Label(mustDoc(t, tt.data)); got != tt.expected {
				t.Errorf("Label() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestGitHubCatalog_DeploymentReviewers(t *testing.T) {
	rule, _ := GitHub().Lookup("deployment_review")

	got := rule.Apply(mustDoc(t, `{
		"action": "requested",
		"reviewers": [
			{"type": "User", "reviewer": {"id": 1, "login": "octo", "avatar_url": "x"}},
			{"type": "Team", "reviewer": {"id": 2, "name": "core"}}
		],
		"workflow_run": {"id": 10, "name": "deploy", "status": "waiting"}
	}`))

	expected := map[string]any{
		"reviewers": []any{
			map[string]any{"type": "User", "reviewer": map[string]any{"id": json.Number("1"), "login": "octo"}},
			map[string]any{"type": "Team", "reviewer": map[string]any{"id": json.Number("2")}},
		},
		"workflow_run": map[string]any{"id": json.Number("10"), "name": "deploy"},
	}
	if !reflect.DeepEqual(map[string]any(got.Content), expected) {
		t.Errorf("Content = %#v, expected %#v", got.Content, expected)
	}
	if got.Type != "deployment_review requested" {
		t.Errorf("Type = %q", got.Type)
	}
}

func TestGitHubCatalog_PushCommits(t *testing.T) {
	rule, _ := GitHub().Lookup("push")

	got := rule.Apply(mustDoc(t, `{
		"ref": "refs/heads/main",
		"forced": false,
		"base_ref": null,
		"commits": [{"id": "abc", "message": "init", "distinct": true, "author": {"name": "A", "email": "a@x", "date": "d"}}],
		"pusher": {"name": "A", "email": "a@x"}
	}`))

	expected := map[string]any{
		"ref":    "refs/heads/main",
		"forced": false,
		"commits": []any{
			map[string]any{"id": "abc", "message": "init", "author": map[string]any{"name": "A", "email": "a@x"}},
		},
		"pusher": map[string]any{"name": "A", "email": "a@x"},
	}
	if !reflect.DeepEqual(map[string]any(got.Content), expected) {
		t.Errorf("Content = %#v, expected %#v", got.Content, expected)
	}
}
