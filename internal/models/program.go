package models

import (
	"fmt"
	"time"
)

// ProgramTrack distinguishes the four-year engineering degrees from the
// four-year science degree, which carries different institute-core and
// project requirements.
type ProgramTrack string

const (
	TrackEngineering ProgramTrack = "BTECH"
	TrackScience     ProgramTrack = "BS"
)

// Program is a degree program with its per-category credit targets and
// terminal-project policy. Programs are seeded from the compiled-in catalog
// and treated as immutable at runtime.
type Program struct {
	ID         string       `db:"id" json:"id"`
	Code       string       `db:"code" json:"code"`
	Name       string       `db:"name" json:"name"`
	Department string       `db:"department" json:"department"`
	Track      ProgramTrack `db:"track" json:"track"`

	TotalCredits int `db:"total_credits" json:"total_credits"`
	ICCredits    int `db:"ic_credits" json:"ic_credits"`
	DCCredits    int `db:"dc_credits" json:"dc_credits"`
	DECredits    int `db:"de_credits" json:"de_credits"`
	FECredits    int `db:"fe_credits" json:"fe_credits"`
	MTPCredits   int `db:"mtp_credits" json:"mtp_credits"`
	ISTPCredits  int `db:"istp_credits" json:"istp_credits"`

	MTPRequired      bool `db:"mtp_required" json:"mtp_required"`
	ISTPAllowed      bool `db:"istp_allowed" json:"istp_allowed"`
	MinCreditsForMTP int  `db:"min_credits_for_mtp" json:"min_credits_for_mtp"`
	MinTermForMTP    int  `db:"min_term_for_mtp" json:"min_term_for_mtp"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ValidateSums checks the catalog invariant that per-category targets add up
// to the stated total exactly.
func (p Program) ValidateSums() error {
	sum := p.ICCredits + p.DCCredits + p.DECredits + p.FECredits + p.MTPCredits + p.ISTPCredits
	if sum != p.TotalCredits {
		return fmt.Errorf("program %s: category credits sum to %d, total is %d", p.Code, sum, p.TotalCredits)
	}
	return nil
}

// ProgramFilter defines filters for listing programs.
type ProgramFilter struct {
	Track    ProgramTrack
	Page     int
	PageSize int
}
