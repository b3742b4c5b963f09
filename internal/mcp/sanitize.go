package mcp

import (
	"github.com/okrmaster/okrd/internal/domain/report"
	"github.com/okrmaster/okrd/internal/okr"
)

// The tool output schemas generated from the Go types declare every
// non-omitempty slice field as a JSON array, but a nil Go slice marshals
// as null and fails the SDK's output validation. These helpers replace
// nil slices with empty ones just before a value is returned on the wire.

func sanitizeKeyResult(k *okr.KeyResult) *okr.KeyResult {
	if k == nil {
		return nil
	}
	if k.History == nil {
		k.History = []okr.HistoryEntry{}
	}
	return k
}

func sanitizeObjective(o *okr.Objective) *okr.Objective {
	if o == nil {
		return nil
	}
	if o.KeyResults == nil {
		o.KeyResults = []okr.KeyResult{}
	}
	for i := range o.KeyResults {
		sanitizeKeyResult(&o.KeyResults[i])
	}
	return o
}

func sanitizeProject(p *okr.Project) *okr.Project {
	if p == nil {
		return nil
	}
	if p.Cycles == nil {
		p.Cycles = []okr.Cycle{}
	}
	if p.Teams == nil {
		p.Teams = []okr.Team{}
	}
	if p.Objectives == nil {
		p.Objectives = []okr.Objective{}
	}
	for i := range p.Objectives {
		sanitizeObjective(&p.Objectives[i])
	}
	return p
}

func sanitizeOverview(ov *report.Overview) *report.Overview {
	if ov == nil {
		return nil
	}
	if ov.Owners == nil {
		ov.Owners = []report.OwnerProgress{}
	}
	return ov
}
