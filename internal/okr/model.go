package okr

// Confidence is the traffic-light status of a key result.
type Confidence string

const (
	ConfidenceOnTrack  Confidence = "On Track"
	ConfidenceAtRisk   Confidence = "At Risk"
	ConfidenceOffTrack Confidence = "Off Track"
)

// CycleStatus marks a cycle as the current planning period or a past one.
type CycleStatus string

const (
	CycleActive   CycleStatus = "Active"
	CycleArchived CycleStatus = "Archived"
)

// Role is a member's permission level on a project.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// CompanyOwnerID is the reserved owner identifier for objectives held at
// the top level rather than by a team.
const CompanyOwnerID = "company"

// HistoryEntry is one snapshot in a key result's append-only log. Dates
// are ISO YYYY-MM-DD with no sub-day component; when several entries share
// a date, slice order is the tiebreaker and the last appended entry wins.
type HistoryEntry struct {
	Date       string     `json:"date"`
	Value      float64    `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// KeyResult is a quantitative metric tracked against an objective.
type KeyResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	StartValue   float64        `json:"startValue"`
	CurrentValue float64        `json:"currentValue"`
	TargetValue  float64        `json:"targetValue"`
	Confidence   Confidence     `json:"confidence"`
	Notes        string         `json:"notes"`
	Progress     float64        `json:"progress"`
	History      []HistoryEntry `json:"history"`
}

// Objective is a qualitative goal for a cycle, owned by a team or the
// company. Progress is the rounded mean of its key results' progress.
type Objective struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	CycleID     string      `json:"cycleId"`
	OwnerID     string      `json:"ownerId"`
	Responsible string      `json:"responsible,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	StartDate   string      `json:"startDate,omitempty"`
	EndDate     string      `json:"endDate,omitempty"`
	DependsOn   []string    `json:"dependsOn,omitempty"`
	KeyResults  []KeyResult `json:"keyResults"`
	Progress    int         `json:"progress"`
}

// Cycle is a time-boxed planning period. Exactly one cycle per project has
// status Active; SetActiveCycle maintains the invariant.
type Cycle struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Status    CycleStatus `json:"status"`
}

// Team is an ownership label for objectives.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Foundation holds the project's mission and vision statements.
type Foundation struct {
	Mission string `json:"mission"`
	Vision  string `json:"vision"`
}

// Project is the top-level aggregate. It exclusively owns its cycles,
// teams and objectives; objectives own their key results; key results own
// their history. The JSON shape is the export/import format.
type Project struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	CompanyName string          `json:"companyName"`
	Archived    bool            `json:"isArchived"`
	Foundation  Foundation      `json:"foundation"`
	Cycles      []Cycle         `json:"cycles"`
	Teams       []Team          `json:"teams"`
	Objectives  []Objective     `json:"objectives"`
	Members     map[string]Role `json:"members,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// ActiveCycle returns the project's active cycle, or nil when none is set.
func (p *Project) ActiveCycle() *Cycle {
	for i := range p.Cycles {
		if p.Cycles[i].Status == CycleActive {
			return &p.Cycles[i]
		}
	}
	return nil
}

// CycleByID returns the cycle with the given id, or nil.
func (p *Project) CycleByID(id string) *Cycle {
	for i := range p.Cycles {
		if p.Cycles[i].ID == id {
			return &p.Cycles[i]
		}
	}
	return nil
}

// ObjectiveByID returns the objective with the given id, or nil.
func (p *Project) ObjectiveByID(id string) *Objective {
	for i := range p.Objectives {
		if p.Objectives[i].ID == id {
			return &p.Objectives[i]
		}
	}
	return nil
}

// ObjectivesInCycle returns the objectives attached to the given cycle, in
// stored order.
func (p *Project) ObjectivesInCycle(cycleID string) []Objective {
	var out []Objective
	for _, obj := range p.Objectives {
		if obj.CycleID == cycleID {
			out = append(out, obj)
		}
	}
	return out
}

// OwnerName resolves an objective owner id to a display name. The reserved
// "company" id maps to the project's company name; unknown team ids yield
// an empty string.
func (p *Project) OwnerName(ownerID string) string {
	if ownerID == CompanyOwnerID {
		return p.CompanyName
	}
	for _, team := range p.Teams {
		if team.ID == ownerID {
			return team.Name
		}
	}
	return ""
}

// RoleOf returns the member's role on the project, or "" for non-members.
func (p *Project) RoleOf(userID string) Role {
	return p.Members[userID]
}

// CanEdit reports whether the user may mutate project content.
func (p *Project) CanEdit(userID string) bool {
	r := p.RoleOf(userID)
	return r == RoleOwner || r == RoleEditor
}

// IsMember reports whether the user has any role on the project.
func (p *Project) IsMember(userID string) bool {
	return p.RoleOf(userID) != ""
}

// Copy returns a deep copy of the objective, including key results and
// their history. Reconstruction works on copies so the live aggregate is
// never touched.
func (o Objective) Copy() Objective {
	out := o
	out.DependsOn = append([]string(nil), o.DependsOn...)
	out.KeyResults = make([]KeyResult, len(o.KeyResults))
	for i, kr := range o.KeyResults {
		out.KeyResults[i] = kr.Copy()
	}
	return out
}

// Copy returns a deep copy of the key result and its history.
func (k KeyResult) Copy() KeyResult {
	out := k
	out.History = append([]HistoryEntry(nil), k.History...)
	return out
}
