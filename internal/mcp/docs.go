package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `okrd tracks company goals as Projects → Cycles → Objectives → Key Results.

Core concepts (keep this mental model small):
- Project: the whole workspace for one company. Members hold a role: owner, editor or viewer.
- Cycle: a time-boxed planning period (usually a quarter). Exactly one cycle is Active.
- Objective: a qualitative goal inside a cycle, owned by a team or the company.
- Key Result: a numeric metric (start → target). Its progress is derived, never set directly.
- History: every value/confidence change appends a dated entry. Reports reconstruct past state from it.

Rules of engagement (default workflow):
1) Orient: list_projects, then get_project for the one you need.
2) Plan: add_cycle / set_active_cycle, then add_objective and add_key_result under the active cycle.
3) Check in: update_key_result with the new current_value and confidence. The history log is
   maintained automatically; repeating unchanged values records nothing.
4) Report: get_overview for the dashboard; point_in_time_report, health_trend, velocity,
   burndown, risk_board and gantt for deeper views.
5) Share: invite_member / set_member_role; export_project for a full JSON backup that
   import_project can restore.

Notes:
- Dates are ISO YYYY-MM-DD strings.
- Progress values are percentages; objective progress is the mean of its key results.
- Confidence is one of "On Track", "At Risk", "Off Track".

Docs (progressive disclosure):
- okrd://docs/index (what to read when)
- okrd://docs/concepts (glossary + invariants)
- okrd://docs/workflows/check-in
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "okrd://docs/index",
		Name:        "docs_index",
		Title:       "okrd docs index",
		Description: "Entry point for agent-facing docs: what exists and what to read.",
		Content: `# okrd: Agent Docs Index

## Quick start (no deep docs)

1. ` + "`list_projects`" + ` to find your workspace, ` + "`get_project`" + ` to load it.
2. Build the plan: ` + "`add_cycle`" + `, ` + "`set_active_cycle`" + `, ` + "`add_objective`" + `, ` + "`add_key_result`" + `.
3. Weekly check-in: ` + "`update_key_result`" + ` with current_value + confidence.
4. Review: ` + "`get_overview`" + `, ` + "`risk_board`" + `, ` + "`burndown`" + `.

## Docs (read on demand)

- ` + "`okrd://docs/concepts`" + ` — glossary + invariants (derived progress, history, roles).
- ` + "`okrd://docs/workflows/check-in`" + ` — the weekly update loop.
`,
	},
	{
		URI:         "okrd://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Mental model + invariant rules: derived progress, history append policy, roles.",
		Content: `# Concepts and invariants

## Glossary

- **Project**: container for everything. Carries a members map of user → role.
- **Cycle**: planning period with start/end dates. Exactly one is Active per project.
- **Objective**: goal in a cycle, owned by a team or "company". May depend on other
  objectives in the same cycle.
- **Key Result**: metric with startValue, currentValue, targetValue, confidence.
- **History**: append-only log of {date, value, confidence} snapshots per key result.

## Derived progress

Progress is never stored by hand. A key result's progress is the clamped percentage of the
way from startValue to targetValue (100 when target equals start). An objective's progress
is the rounded mean of its key results. Every write path recomputes both.

## History append policy

` + "`update_key_result`" + ` appends exactly one history entry when the value or confidence
actually changed, capturing both fields. Unchanged updates append nothing, so the log stays
one entry per real change. Point-in-time reports replay this log: the latest entry on or
before the report date wins; before all history, the startValue stands in.

## Roles

- **viewer**: read and report.
- **editor**: all content mutations.
- **owner**: everything, plus membership, archive and delete. One owner per project.
`,
	},
	{
		URI:         "okrd://docs/workflows/check-in",
		Name:        "docs_workflow_check_in",
		Title:       "Weekly check-in workflow",
		Description: "The routine update loop: record values, review health, flag risks.",
		Content: `# Weekly check-in

1. ` + "`get_project`" + ` — load the current state.
2. For each key result with news: ` + "`update_key_result`" + ` with ` + "`current_value`" + `
   and ` + "`confidence`" + `. Only real changes are recorded.
3. ` + "`get_overview`" + ` — confirm the rolled-up picture.
4. ` + "`risk_board`" + ` — walk everything At Risk / Off Track and update objective notes
   with mitigation via ` + "`update_objective`" + `.
5. ` + "`velocity`" + ` — if the latest week-over-week delta is flat or negative while the
   cycle is past its midpoint, consider rescoping targets.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
