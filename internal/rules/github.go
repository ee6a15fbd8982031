// internal/rules/github.go
package rules

import "sync"

/*
 * GitHub webhook catalog.
 *
 * One declarative entry per consumed event type; see
 * https://docs.github.com/en/webhooks/webhook-events-and-payloads for the
 * payload shapes. Fields only present for some actions (assignee, label,
 * milestone, changes, ...) are declared unconditionally: extraction skips
 * whatever the delivery does not carry.
 *
 * Event types GitHub sends but this catalog does not list are acknowledged
 * and dropped by the pipeline.
 */

// Label paths used by GitHub events.
const (
	actionLabel  = "$.action"
	refTypeLabel = "$.ref_type"
)

// common fields extracted from every GitHub event.
var common = []string{
	"$.sender.id",
	"$.sender.login",
	"$.repository.id",
	"$.repository.full_name",
}

func withCommon(paths ...string) []string {
	out := make([]string, 0, len(common)+len(paths))
	out = append(out, common...)
	return append(out, paths...)
}

// GitHubRules returns the declarative catalog of GitHub event rules.
func GitHubRules() []Rule {
	return []Rule{
		{
			EventType: "commit_comment",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.comment.id",
				"$.comment.body",
				"$.comment.commit_id",
				"$.comment.path",
				"$.comment.html_url",
			),
		},
		{
			EventType: "create",
			LabelPath: refTypeLabel,
			Paths: withCommon(
				"$.ref",
				"$.master_branch",
				"$.description",
				"$.pusher_type",
			),
		},
		{
			EventType: "delete",
			LabelPath: refTypeLabel,
			Paths: withCommon(
				"$.ref",
				"$.pusher_type",
			),
		},
		{
			EventType: "deployment",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.deployment.id",
				"$.deployment.sha",
				"$.deployment.ref",
				"$.deployment.task",
				"$.deployment.environment",
				"$.deployment.description",
				"$.workflow.id",
				"$.workflow.name",
				"$.workflow_run.id",
			),
		},
		{
			EventType: "deployment_review",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.since",
				"$.comment",
				"$.environment",
				"$.approver.id",
				"$.approver.login",
				"$.requestor.id",
				"$.requestor.login",
				"$.workflow_run.id",
				"$.workflow_run.name",
				"$.workflow_job_run.id",
			),
			Array: &ArraySpec{
				Path:   "$.reviewers[*]",
				Fields: []string{"type", "reviewer.id", "reviewer.login"},
			},
		},
		{
			EventType: "deployment_status",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.deployment_status.id",
				"$.deployment_status.state",
				"$.deployment_status.environment",
				"$.deployment_status.description",
				"$.deployment_status.target_url",
				"$.deployment.id",
				"$.deployment.sha",
				"$.deployment.ref",
				"$.workflow.id",
				"$.workflow.name",
				"$.workflow_run.id",
				"$.workflow_run.name",
			),
		},
		{
			EventType: "discussion",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.discussion.id",
				"$.discussion.number",
				"$.discussion.title",
				"$.discussion.body",
				"$.discussion.state",
				"$.discussion.category.name",
				"$.answer.id",
				"$.answer.body",
				"$.old_answer.id",
				"$.label.id",
				"$.label.name",
				"$.changes",
			),
		},
		{
			EventType: "discussion_comment",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.comment.id",
				"$.comment.body",
				"$.comment.parent_id",
				"$.discussion.id",
				"$.discussion.title",
				"$.changes",
			),
		},
		{
			EventType: "issue_comment",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.comment.id",
				"$.comment.body",
				"$.comment.html_url",
				"$.issue.id",
				"$.issue.number",
				"$.issue.title",
				"$.changes",
			),
		},
		{
			EventType: "issues",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.issue.id",
				"$.issue.number",
				"$.issue.title",
				"$.issue.state",
				"$.assignee.id",
				"$.assignee.login",
				"$.milestone.id",
				"$.milestone.title",
				"$.label.id",
				"$.label.name",
				"$.type.id",
				"$.type.name",
				"$.changes",
			),
		},
		{
			EventType: "milestone",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.milestone.id",
				"$.milestone.number",
				"$.milestone.title",
				"$.milestone.description",
				"$.milestone.state",
				"$.milestone.due_on",
				"$.changes",
			),
		},
		{
			EventType: "package",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.package.id",
				"$.package.name",
				"$.package.package_type",
				"$.package.package_version.version",
			),
		},
		{
			EventType: "pull_request",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.number",
				"$.pull_request.id",
				"$.pull_request.title",
				"$.pull_request.state",
				"$.pull_request.draft",
				"$.pull_request.merged",
				"$.pull_request.html_url",
				"$.pull_request.head.ref",
				"$.pull_request.base.ref",
				"$.assignee.id",
				"$.assignee.login",
				"$.milestone.id",
				"$.milestone.title",
				"$.label.id",
				"$.label.name",
				"$.requested_reviewer.id",
				"$.requested_reviewer.login",
				"$.requested_team.id",
				"$.requested_team.name",
				"$.reason",
				"$.before",
				"$.after",
				"$.changes",
			),
			Array: &ArraySpec{
				Path:   "$.pull_request.requested_reviewers[*]",
				Fields: []string{"id", "login"},
			},
		},
		{
			EventType: "pull_request_review",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.review.id",
				"$.review.state",
				"$.review.body",
				"$.review.html_url",
				"$.review.submitted_at",
				"$.pull_request.id",
				"$.pull_request.number",
				"$.pull_request.title",
				"$.changes",
			),
		},
		{
			EventType: "pull_request_review_comment",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.comment.id",
				"$.comment.body",
				"$.comment.path",
				"$.comment.line",
				"$.comment.in_reply_to_id",
				"$.pull_request.id",
				"$.pull_request.title",
				"$.changes",
			),
		},
		{
			EventType: "pull_request_review_thread",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.thread.node_id",
				"$.pull_request.id",
				"$.pull_request.title",
			),
			Array: &ArraySpec{
				Path:   "$.thread.comments[*]",
				Fields: []string{"id", "body", "path"},
			},
		},
		{
			EventType: "push",
			Paths: withCommon(
				"$.ref",
				"$.before",
				"$.after",
				"$.base_ref",
				"$.compare",
				"$.created",
				"$.deleted",
				"$.forced",
				"$.pusher.name",
				"$.pusher.email",
				"$.head_commit.id",
				"$.head_commit.message",
				"$.head_commit.timestamp",
			),
			Array: &ArraySpec{
				Path:   "$.commits[*]",
				Fields: []string{"id", "message", "timestamp", "author.name", "author.email", "author.username"},
			},
		},
		{
			EventType: "registry_package",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.registry_package.id",
				"$.registry_package.name",
				"$.registry_package.package_type",
				"$.registry_package.package_version.version",
			),
		},
		{
			EventType: "release",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.release.id",
				"$.release.tag_name",
				"$.release.name",
				"$.release.draft",
				"$.release.prerelease",
				"$.release.html_url",
				"$.changes",
			),
		},
		{
			EventType: "status",
			Paths: withCommon(
				"$.id",
				"$.sha",
				"$.name",
				"$.context",
				"$.state",
				"$.description",
				"$.target_url",
				"$.created_at",
				"$.updated_at",
			),
			Array: &ArraySpec{
				Path:   "$.branches[*]",
				Fields: []string{"name", "commit.sha"},
			},
		},
		{
			EventType: "sub_issues",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.parent_issue_id",
				"$.parent_issue.title",
				"$.sub_issue_id",
				"$.sub_issue.title",
				"$.sub_issue.state",
			),
		},
		{
			EventType: "workflow_dispatch",
			Paths: withCommon(
				"$.ref",
				"$.workflow",
				"$.inputs",
			),
		},
		{
			EventType: "workflow_job",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.workflow_job.id",
				"$.workflow_job.run_id",
				"$.workflow_job.name",
				"$.workflow_job.status",
				"$.workflow_job.conclusion",
				"$.workflow_job.head_branch",
				"$.workflow_job.head_sha",
				"$.workflow_job.html_url",
				"$.deployment.id",
			),
			Array: &ArraySpec{
				Path:   "$.workflow_job.steps[*]",
				Fields: []string{"number", "name", "status", "conclusion"},
			},
		},
		{
			EventType: "workflow_run",
			LabelPath: actionLabel,
			Paths: withCommon(
				"$.workflow_run.id",
				"$.workflow_run.name",
				"$.workflow_run.event",
				"$.workflow_run.status",
				"$.workflow_run.conclusion",
				"$.workflow_run.head_branch",
				"$.workflow_run.head_sha",
				"$.workflow_run.run_number",
				"$.workflow_run.html_url",
				"$.workflow.id",
				"$.workflow.name",
				"$.workflow.path",
			),
		},
	}
}

var (
	githubOnce     sync.Once
	githubRegistry *Registry
)

// GitHub returns the registry built from GitHubRules.
// Panics if the catalog is malformed; that is a programming error caught by
// the first startup or test run.
func GitHub() *Registry {
	githubOnce.Do(func() {
		githubRegistry = MustNewRegistry(GitHubRules()...)
	})
	return githubRegistry
}
