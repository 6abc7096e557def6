package models

import "time"

// Student mirrors the identity record owned by the external auth layer, plus
// the preference toggles that shape how required credits are computed.
type Student struct {
	ID       string `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	FullName string `db:"full_name" json:"full_name"`
	Branch   string `db:"branch" json:"branch"`

	// DoISTP and DoMTP2 shift project credit allotments into electives when
	// switched off. They affect future aggregation calls only.
	DoISTP bool `db:"do_istp" json:"do_istp"`
	DoMTP2 bool `db:"do_mtp2" json:"do_mtp2"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StudentProgramStatus tracks the lifecycle of a program membership.
type StudentProgramStatus string

const (
	StudentProgramActive    StudentProgramStatus = "ACTIVE"
	StudentProgramCompleted StudentProgramStatus = "COMPLETED"
	StudentProgramDropped   StudentProgramStatus = "DROPPED"
)

// StudentProgram relates a student to a program. At most one active primary
// program is allowed per student.
type StudentProgram struct {
	ID        string               `db:"id" json:"id"`
	StudentID string               `db:"student_id" json:"student_id"`
	ProgramID string               `db:"program_id" json:"program_id"`
	IsPrimary bool                 `db:"is_primary" json:"is_primary"`
	StartTerm int                  `db:"start_term" json:"start_term"`
	Status    StudentProgramStatus `db:"status" json:"status"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}
