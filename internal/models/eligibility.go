package models

// Rule decisions are data, not errors: a denied check flows back to the
// caller with the evidence needed to explain why.

// PassFailDecision is the outcome of the pass/fail cap check.
type PassFailDecision struct {
	Allowed       bool   `json:"allowed"`
	Reason        string `json:"reason,omitempty"`
	CareerCredits int    `json:"career_credits"`
	TermCredits   int    `json:"term_credits"`
}

// BranchCourseDecision is the outcome of the branch-restriction check.
type BranchCourseDecision struct {
	Valid           bool     `json:"valid"`
	Reason          string   `json:"reason,omitempty"`
	AllowedBranches []string `json:"allowed_branches,omitempty"`
}

// TerminalProjectKind selects which capstone gate to evaluate.
type TerminalProjectKind string

const (
	TerminalProjectMajor       TerminalProjectKind = "MAJOR"
	TerminalProjectIndependent TerminalProjectKind = "INDEPENDENT"
)

// TerminalProjectEligibility is the outcome of the capstone gate check, with
// the figures used to reach it.
type TerminalProjectEligibility struct {
	Eligible         bool   `json:"eligible"`
	Reason           string `json:"reason,omitempty"`
	CreditsCompleted int    `json:"credits_completed"`
	CreditsRequired  int    `json:"credits_required,omitempty"`
	CurrentTerm      int    `json:"current_term"`
	MinTermRequired  int    `json:"min_term_required,omitempty"`
}
