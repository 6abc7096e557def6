package models

import (
	"fmt"
	"strings"
)

// CourseCategory classifies what requirement bucket a course fills for a
// given branch. The set is closed; legacy spellings from imported data are
// normalised through ParseCategory at the serialization edge.
type CourseCategory string

const (
	CategoryInstituteCore       CourseCategory = "IC"
	CategoryInstituteCoreBasket CourseCategory = "ICB"
	CategoryHumanities          CourseCategory = "HSS"
	CategoryDisciplineCore      CourseCategory = "DC"
	CategoryDisciplineElective  CourseCategory = "DE"
	CategoryFreeElective        CourseCategory = "FE"
	CategoryMajorProject        CourseCategory = "MTP"
	CategoryIndependentProject  CourseCategory = "ISTP"
	CategoryNotApplicable       CourseCategory = "NA"
)

var categoryAliases = map[string]CourseCategory{
	"IC":                   CategoryInstituteCore,
	"INSTITUTE_CORE":       CategoryInstituteCore,
	"INSTITUTE CORE":       CategoryInstituteCore,
	"CORE":                 CategoryInstituteCore,
	"ICB":                  CategoryInstituteCoreBasket,
	"IC_BASKET":            CategoryInstituteCoreBasket,
	"IC BASKET":            CategoryInstituteCoreBasket,
	"HSS":                  CategoryHumanities,
	"HUMANITIES":           CategoryHumanities,
	"DC":                   CategoryDisciplineCore,
	"DISCIPLINE_CORE":      CategoryDisciplineCore,
	"DISCIPLINE CORE":      CategoryDisciplineCore,
	"DE":                   CategoryDisciplineElective,
	"PE":                   CategoryDisciplineElective,
	"DISCIPLINE_ELECTIVE":  CategoryDisciplineElective,
	"DISCIPLINE ELECTIVE":  CategoryDisciplineElective,
	"FE":                   CategoryFreeElective,
	"FREE_ELECTIVE":        CategoryFreeElective,
	"FREE ELECTIVE":        CategoryFreeElective,
	"MTP":                  CategoryMajorProject,
	"MAJOR_PROJECT":        CategoryMajorProject,
	"ISTP":                 CategoryIndependentProject,
	"INDEPENDENT_PROJECT":  CategoryIndependentProject,
	"NA":                   CategoryNotApplicable,
	"NOT_APPLICABLE":       CategoryNotApplicable,
}

// ParseCategory normalises a raw category string into the closed set.
func ParseCategory(raw string) (CourseCategory, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if cat, ok := categoryAliases[key]; ok {
		return cat, nil
	}
	return "", fmt.Errorf("unknown course category %q", raw)
}

// Valid reports whether the category is a member of the closed set.
func (c CourseCategory) Valid() bool {
	switch c {
	case CategoryInstituteCore, CategoryInstituteCoreBasket, CategoryHumanities,
		CategoryDisciplineCore, CategoryDisciplineElective, CategoryFreeElective,
		CategoryMajorProject, CategoryIndependentProject, CategoryNotApplicable:
		return true
	}
	return false
}

// Countable reports whether credits under this category contribute to any
// requirement bucket.
func (c CourseCategory) Countable() bool {
	return c.Valid() && c != CategoryNotApplicable
}
