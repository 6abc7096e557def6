package catalog

import "github.com/acadbase/degree-progress-api/internal/models"

// PlannedCourse is one entry of a branch's default plan for terms 1-6. The
// final two years are elective/project driven and carry no default plan.
type PlannedCourse struct {
	Code     string
	Name     string
	Credits  int
	Category models.CourseCategory
	Term     int
}

// Institute-core plan shared by every branch for the first four terms.
var commonTerm1 = []PlannedCourse{
	{Code: "IC112", Name: "Calculus", Credits: 2, Category: models.CategoryInstituteCore, Term: 1},
	{Code: "IC113", Name: "Complex Variables and Vector Calculus", Credits: 2, Category: models.CategoryInstituteCore, Term: 1},
	{Code: "IC140", Name: "Engineering Graphics for Design", Credits: 4, Category: models.CategoryInstituteCore, Term: 1},
	{Code: "IC102P", Name: "Foundations of Design Practicum", Credits: 4, Category: models.CategoryInstituteCore, Term: 1},
}

var commonTerm2 = []PlannedCourse{
	{Code: "IC114", Name: "Linear Algebra", Credits: 2, Category: models.CategoryInstituteCore, Term: 2},
	{Code: "IC115", Name: "ODE & Integral Transforms", Credits: 2, Category: models.CategoryInstituteCore, Term: 2},
	{Code: "IC152", Name: "Computing and Data Science", Credits: 4, Category: models.CategoryInstituteCore, Term: 2},
	{Code: "IC161", Name: "Applied Electronics", Credits: 3, Category: models.CategoryInstituteCore, Term: 2},
	{Code: "IC161P", Name: "Applied Electronics Lab", Credits: 2, Category: models.CategoryInstituteCore, Term: 2},
}

var commonTerm3 = []PlannedCourse{
	{Code: "IC202P", Name: "Design Practicum", Credits: 3, Category: models.CategoryInstituteCore, Term: 3},
	{Code: "IC222P", Name: "Physics Practicum", Credits: 2, Category: models.CategoryInstituteCore, Term: 3},
	{Code: "IC252", Name: "Probability and Statistics", Credits: 4, Category: models.CategoryInstituteCore, Term: 3},
}

var commonTerm4 = []PlannedCourse{
	{Code: "IC272", Name: "Machine Learning", Credits: 3, Category: models.CategoryInstituteCore, Term: 4},
}

func dc(code, name string, credits, term int) PlannedCourse {
	return PlannedCourse{Code: code, Name: name, Credits: credits, Category: models.CategoryDisciplineCore, Term: term}
}

func ic(code, name string, credits, term int) PlannedCourse {
	return PlannedCourse{Code: code, Name: name, Credits: credits, Category: models.CategoryInstituteCore, Term: term}
}

var branchPlans = map[string][]PlannedCourse{
	"CSE": {
		dc("CS208", "Mathematical Foundations of Computer Science", 4, 3),
		dc("CS214", "Computer Organization", 4, 3),
		dc("CS212", "Design of Algorithms", 4, 4),
		dc("CS302", "Paradigms of Programming", 4, 4),
		dc("CS304", "Formal Language and Automata Theory", 3, 5),
		dc("CS309", "Information Systems and Databases", 4, 5),
		dc("CS303", "Software Engineering", 3, 5),
		dc("CS305", "Artificial Intelligence", 3, 6),
		dc("CS313", "Computer Networks", 4, 6),
		dc("CS312", "Operating Systems", 4, 6),
	},
	"EE": {
		dc("EE261", "Electrical Systems Around Us", 5, 3),
		dc("EE260", "Signals and Systems", 3, 3),
		dc("EE210", "Digital System Design", 4, 4),
		dc("EE203", "Network Theory", 3, 4),
		dc("EE231", "Measurement and Instrumentation", 3, 4),
		dc("EE311", "Device Electronics", 3, 5),
		dc("EE202", "Electromagnetic Theory", 3, 5),
		dc("EE201", "Electro-Mechanics", 4, 5),
		dc("EE211", "Analog Circuit Design", 4, 6),
		dc("EE304", "Communication Systems", 4, 6),
		dc("EE301", "Control Systems", 4, 6),
	},
	"ME": {
		dc("EE261", "Electrical Systems Around Us", 3, 3),
		dc("ME212", "Product Manufacturing Technologies", 3, 3),
		dc("ME213", "Engineering Thermodynamics", 3, 3),
		dc("ME205", "Machine Drawing", 3, 4),
		dc("ME206", "Mechanics of Solids", 3, 4),
		ic("IC241", "Material Science for Engineers", 3, 4),
		dc("ME210", "Fluid Mechanics", 3, 5),
		dc("ME303", "Heat Transfer", 3, 5),
		dc("ME305", "Design of Machine Elements", 4, 5),
		dc("ME307", "Energy Conversion Devices", 3, 6),
		dc("ME308", "Manufacturing Engineering 1", 3, 6),
		dc("ME309", "Theory of Machines", 4, 6),
	},
	"DSE": {
		dc("DS201", "Data Handling and Visualisation", 3, 3),
		dc("DS301", "Mathematical Foundations of Data Science", 4, 4),
		dc("DS302", "Computing Systems for Data Processing", 3, 5),
		dc("DS313", "Statistical Foundations of Data Science", 4, 5),
		dc("DS404", "Information Security and Privacy", 3, 6),
		dc("DS411", "Optimization for Data Science", 4, 6),
	},
	"CE": {
		dc("CE201", "Surveying Traditional and Digital", 4, 3),
		dc("CE251", "Hydraulics Engineering", 3, 3),
		dc("CE252", "Geology and Geomorphology", 3, 4),
		dc("CE203", "Construction Materials", 3, 4),
		dc("CE301", "Strength of Materials and Structures", 3, 5),
		dc("CE302", "Geotechnical Engineering I", 3, 5),
		dc("CE352", "Transportation Engineering", 3, 6),
		dc("CE401", "Design of Steel Structures", 3, 6),
	},
	"BE": {
		dc("BE201", "Cell Biology", 4, 3),
		dc("BE202", "Biochemistry and Molecular Biology", 4, 3),
		dc("BE203", "Enzymology and Bioprocessing", 4, 4),
		dc("BE301", "Biomechanics", 4, 4),
		dc("BE308", "Introduction to Biomanufacturing", 4, 5),
		dc("BE303", "Applied Biostatistics", 4, 5),
		dc("BE304", "Bioinformatics", 4, 6),
		dc("BE306", "Fundamentals of Genetic Engineering", 4, 6),
	},
	"EP": {
		dc("EP321", "Foundations of Electrodynamics", 3, 3),
		dc("EP301", "Engineering Mathematics 2", 4, 3),
		dc("PH301", "Quantum Mechanics and Applications", 3, 4),
		dc("PH302", "Introduction to Statistical Mechanics", 3, 4),
		dc("EE311", "Device Electronics for Integrated Circuits", 3, 5),
		dc("EP302", "Computational Methods for Engineering", 3, 5),
		dc("EP402P", "Engineering Physics Practicum", 4, 6),
		dc("PH502", "Photonics", 3, 6),
	},
	"MNC": {
		dc("CS208", "Mathematical Foundations of Computer Science", 4, 3),
		dc("MA211", "Ordinary Differential Equations", 4, 3),
		dc("MA220", "Partial Differential Equations", 4, 4),
		dc("CS214", "Computer Organisation", 4, 4),
		dc("MA210", "Real and Complex Analysis", 3, 5),
		dc("MA221", "Numerical Analysis", 4, 5),
		dc("MA222", "Applied Linear Programming", 4, 6),
		dc("CS312", "Design of Algorithms", 4, 6),
	},
	"MSE": {
		dc("MT201", "Physics of Solids", 3, 3),
		dc("MT203", "Material Synthesis and Characterisation", 4, 3),
		dc("MT301", "Phase Transformations", 3, 4),
		dc("MT204", "Thermodynamics and Kinetics of Materials", 3, 4),
		dc("ME206", "Mechanics of Solids", 3, 5),
		dc("MT206", "Extraction and Materials Processing", 4, 5),
		dc("MT302", "Transport Phenomena", 3, 6),
		dc("MT303", "Computational Materials Science", 4, 6),
	},
	"GE": {
		dc("EE201", "Electromechanics", 3, 3),
		dc("EE261", "Electrical System Around Us", 3, 3),
		ic("IC241", "Material Science for Engineers", 3, 4),
		ic("IC253", "Programming and Data Structures", 3, 4),
		dc("DS201", "Data Handling and Visualization", 3, 5),
		dc("EE301", "Control Systems", 3, 5),
		dc("ME309", "Theory of Machines", 4, 6),
	},
	"MEVLSI": {
		dc("EE260", "Signals and Systems", 3, 3),
		dc("EE210", "Digital System Design and Practicum", 4, 3),
		dc("EE203", "Network Theory", 3, 4),
		dc("EE301", "Control Systems", 4, 5),
		dc("EE202", "Electromagnetic Theory and Transmission Lines", 3, 5),
		dc("EE326", "Computer Organization and Design", 4, 6),
		dc("EE211", "Analog Circuit Design", 4, 6),
	},
	"BSCS": {
		dc("CY301", "Principles and Theories of Physical Chemistry", 3, 3),
		dc("CY302", "Principles of Organic Chemistry", 3, 3),
		dc("CY303", "Fundamentals of Inorganic Chemistry", 3, 4),
		dc("CY304", "Fundamental Analytical Chemistry", 3, 4),
		dc("CY401", "Introduction to Quantum Chemistry and Molecular Spectroscopy", 3, 5),
		dc("CY531", "Organic Reactions and Mechanisms", 3, 5),
		dc("CY533", "Chemistry of Main Group Elements", 3, 6),
		dc("CY512", "Advanced Quantum Chemistry", 3, 6),
	},
}

// Branches returns every branch code carrying a default plan.
func Branches() []string {
	branches := make([]string, 0, len(branchPlans))
	for branch := range branchPlans {
		branches = append(branches, branch)
	}
	return branches
}

// DefaultPlan returns the default plan for a branch and term, common
// institute-core courses included.
func DefaultPlan(branch string, term int) []PlannedCourse {
	var plan []PlannedCourse
	switch term {
	case 1:
		plan = append(plan, commonTerm1...)
	case 2:
		plan = append(plan, commonTerm2...)
	case 3:
		plan = append(plan, commonTerm3...)
	case 4:
		plan = append(plan, commonTerm4...)
	}
	for _, c := range branchPlans[branch] {
		if c.Term == term {
			plan = append(plan, c)
		}
	}
	return plan
}

// FullPlan returns the default plan for terms 1 through upToTerm.
func FullPlan(branch string, upToTerm int) []PlannedCourse {
	if upToTerm <= 0 || upToTerm > 6 {
		upToTerm = 6
	}
	var plan []PlannedCourse
	for term := 1; term <= upToTerm; term++ {
		plan = append(plan, DefaultPlan(branch, term)...)
	}
	return plan
}
