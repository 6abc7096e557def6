// Package catalog holds the authoritative degree-program table and the
// default curricula. The figures follow the official B.Tech & B.S. credit
// structure: B.Tech totals 160 (161 for EE) as IC(60) + DC/DE (per branch) +
// FE(22, 17 for EE) + MTP(8) + ISTP(4); the B.S. program totals 163 with
// IC(52) and a 14-credit research project instead of MTP/ISTP.
package catalog

import (
	"fmt"

	"github.com/acadbase/degree-progress-api/internal/models"
)

// Credit allotments moved by the student preference toggles: skipping the
// independent project frees its 4 credits into free electives; skipping the
// second half of the major project frees 5 credits into discipline electives.
const (
	ISTPCreditValue       = 4
	MTPSecondHalfCredits  = 5
	BTechMinCreditsForMTP = 90
	BTechMinTermForMTP    = 7
)

var programs = []models.Program{
	{
		Code: "CSE", Name: "B.Tech in Computer Science & Engineering",
		Department: "School of Computing & Electrical Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 38, DECredits: 28, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "DSE", Name: "B.Tech in Data Science & Engineering",
		Department: "School of Computing & Electrical Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 33, DECredits: 33, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "MEVLSI", Name: "B.Tech in Microelectronics & VLSI",
		Department: "School of Computing & Electrical Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 54, DECredits: 12, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		// EE totals 161 with a reduced free-elective pool.
		Code: "EE", Name: "B.Tech in Electrical Engineering",
		Department: "School of Computing & Electrical Engineering", Track: models.TrackEngineering,
		TotalCredits: 161, ICCredits: 60, DCCredits: 52, DECredits: 20, FECredits: 17,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "MNC", Name: "B.Tech in Mathematics & Computing",
		Department: "School of Mathematics & Statistical Science", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 51, DECredits: 15, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "CE", Name: "B.Tech in Civil Engineering",
		Department: "School of Environmental and Natural Sciences", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 49, DECredits: 17, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "BE", Name: "B.Tech in Bioengineering",
		Department: "School of Bioengineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 42, DECredits: 24, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "EP", Name: "B.Tech in Engineering Physics",
		Department: "School of Physical Sciences", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 37, DECredits: 29, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "GE", Name: "B.Tech in General Engineering",
		Department: "School of Mechanical and Materials Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 36, DECredits: 30, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "ME", Name: "B.Tech in Mechanical Engineering",
		Department: "School of Mechanical and Materials Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 50, DECredits: 16, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		Code: "MSE", Name: "B.Tech in Materials Science & Engineering",
		Department: "School of Mechanical and Materials Engineering", Track: models.TrackEngineering,
		TotalCredits: 160, ICCredits: 60, DCCredits: 45, DECredits: 21, FECredits: 22,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: BTechMinCreditsForMTP, MinTermForMTP: BTechMinTermForMTP,
	},
	{
		// The science track runs a 14-credit research project in place of
		// MTP/ISTP and has no project registration gate.
		Code: "BSCS", Name: "B.S. in Chemical Sciences",
		Department: "School of Chemical Sciences", Track: models.TrackScience,
		TotalCredits: 163, ICCredits: 52, DCCredits: 59, DECredits: 23, FECredits: 15,
		MTPCredits: 14, ISTPCredits: 0,
		MTPRequired: false, ISTPAllowed: false,
		MinCreditsForMTP: 0, MinTermForMTP: 0,
	},
}

// Load returns the program table after verifying that every program's
// per-category credits sum to its stated total. Callers must treat a non-nil
// error as fatal rather than run against an inconsistent catalog.
func Load() ([]models.Program, error) {
	out := make([]models.Program, len(programs))
	for i, p := range programs {
		if err := p.ValidateSums(); err != nil {
			return nil, fmt.Errorf("catalog validation failed: %w", err)
		}
		out[i] = p
	}
	return out, nil
}

// ProgramByCode returns the catalog entry for a code, if present.
func ProgramByCode(code string) (models.Program, bool) {
	for _, p := range programs {
		if p.Code == code {
			return p, true
		}
	}
	return models.Program{}, false
}
