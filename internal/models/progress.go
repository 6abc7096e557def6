package models

// CreditBreakdown holds credits per requirement bucket. Total is always the
// sum of the six buckets, aggregated independently rather than derived.
type CreditBreakdown struct {
	InstituteCore      int `json:"institute_core"`
	DisciplineCore     int `json:"discipline_core"`
	DisciplineElective int `json:"discipline_elective"`
	FreeElective       int `json:"free_elective"`
	MajorProject       int `json:"major_project"`
	IndependentProject int `json:"independent_project"`
	Total              int `json:"total"`
}

// Add accumulates credits into the bucket for the category. Institute-core
// basket and humanities credits roll into the institute-core bucket.
func (b *CreditBreakdown) Add(category CourseCategory, credits int) {
	switch category {
	case CategoryInstituteCore, CategoryInstituteCoreBasket, CategoryHumanities:
		b.InstituteCore += credits
	case CategoryDisciplineCore:
		b.DisciplineCore += credits
	case CategoryDisciplineElective:
		b.DisciplineElective += credits
	case CategoryFreeElective:
		b.FreeElective += credits
	case CategoryMajorProject:
		b.MajorProject += credits
	case CategoryIndependentProject:
		b.IndependentProject += credits
	default:
		// NotApplicable and unknown categories are invisible to aggregates.
		return
	}
	b.Total += credits
}

// ProgramProgress is the full per-category progress picture for one student
// against one program's targets.
type ProgramProgress struct {
	ProgramID   string       `json:"program_id"`
	ProgramCode string       `json:"program_code"`
	ProgramName string       `json:"program_name"`
	Track       ProgramTrack `json:"track"`

	Required   CreditBreakdown `json:"required"`
	Completed  CreditBreakdown `json:"completed"`
	InProgress CreditBreakdown `json:"in_progress"`
	Remaining  CreditBreakdown `json:"remaining"`

	// Percentage is completed vs required total, one decimal, clamped to
	// [0, 100]. Credits beyond the requirement do not push it past 100.
	Percentage float64 `json:"percentage"`
}

// MinorProgress is progress against a secondary program plus the credits that
// also counted toward the major.
type MinorProgress struct {
	ProgramProgress
	OverlappingCredits int `json:"overlapping_credits"`
}

// ProgressReport bundles progress with terminal-project eligibility, matching
// what the student dashboard renders in one call.
type ProgressReport struct {
	Progress        ProgramProgress            `json:"progress"`
	MTPEligibility  TerminalProjectEligibility `json:"mtp_eligibility"`
	ISTPEligibility TerminalProjectEligibility `json:"istp_eligibility"`
}
