package models

import (
	"time"

	"github.com/lib/pq"
)

// Course is a catalog entry. Its credit value is fixed once created; which
// requirement bucket it fills is a property of the (course, branch) pair,
// not of the course itself.
type Course struct {
	ID         string `db:"id" json:"id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	Credits    int    `db:"credits" json:"credits"`
	Department string `db:"department" json:"department"`

	PassFailEligible bool           `db:"pass_fail_eligible" json:"pass_fail_eligible"`
	IsBranchSpecific bool           `db:"is_branch_specific" json:"is_branch_specific"`
	AllowedBranches  pq.StringArray `db:"allowed_branches" json:"allowed_branches,omitempty"`
	RequiredTerm     *int           `db:"required_term" json:"required_term,omitempty"`
	IsActive         bool           `db:"is_active" json:"is_active"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseBranchMapping assigns a category to a course for one branch. At most
// one mapping exists per (course, branch) pair; absence means the course is
// not applicable for that branch.
type CourseBranchMapping struct {
	ID            string         `db:"id" json:"id"`
	CourseID      string         `db:"course_id" json:"course_id"`
	Branch        string         `db:"branch" json:"branch"`
	Category      CourseCategory `db:"category" json:"category"`
	IsRequired    bool           `db:"is_required" json:"is_required"`
	SuggestedTerm *int           `db:"suggested_term" json:"suggested_term,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// CourseBranchMappingDetail enriches a mapping with course info.
type CourseBranchMappingDetail struct {
	CourseBranchMapping
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseName    string `db:"course_name" json:"course_name"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
}

// CourseFilter defines filters for listing courses.
type CourseFilter struct {
	Search     string
	Department string
	Active     *bool
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// MappingFilter defines filters for listing course-branch mappings.
type MappingFilter struct {
	Branch   string
	CourseID string
	Category CourseCategory
}
