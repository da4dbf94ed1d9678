// Package companies maintains the hiring-company catalog and matches
// candidate skills against it.
package companies

import (
	"strings"
	"time"

	"careerlens-backend/internal/llm"
)

// Location is a company's primary site.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// RequiredSkill couples a skill with how much the company weights it.
type RequiredSkill struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"` // low, medium, high, critical
}

// Company is one catalog entry. Entries come either from seeding or from
// AI recommendations reconciled by name.
type Company struct {
	ID              string
	Name            string
	Industry        string
	Size            string // startup, small, medium, large, enterprise
	Location        Location
	Website         string
	Description     string
	RequiredSkills  []RequiredSkill
	PreferredSkills []string
	ExperienceLevel string // entry, mid, senior, executive
	JobTitles       []string
	Benefits        []string
	CompanyCulture  string
	Rating          float64
	ReviewCount     int
	IsActive        bool
	CreatedAt       time.Time
}

var (
	validSizes = map[string]bool{
		"startup": true, "small": true, "medium": true, "large": true, "enterprise": true,
	}
	validExperienceLevels = map[string]bool{
		"entry": true, "mid": true, "senior": true, "executive": true,
	}
	validImportance = map[string]bool{
		"low": true, "medium": true, "high": true, "critical": true,
	}
)

const (
	defaultSize            = "medium"
	defaultExperienceLevel = "mid"
	defaultImportance      = "medium"
)

// fromDraft builds a catalog entry from an AI recommendation. Enum fields
// the model got wrong are clamped to defaults rather than rejected; the
// model's own match estimate is discarded.
func fromDraft(d llm.CompanyDraft) Company {
	size := strings.ToLower(strings.TrimSpace(d.Size))
	if !validSizes[size] {
		size = defaultSize
	}
	level := strings.ToLower(strings.TrimSpace(d.ExperienceLevel))
	if !validExperienceLevels[level] {
		level = defaultExperienceLevel
	}

	skills := make([]RequiredSkill, 0, len(d.RequiredSkills))
	for _, s := range d.RequiredSkills {
		skill := strings.TrimSpace(s.Skill)
		if skill == "" {
			continue
		}
		importance := strings.ToLower(strings.TrimSpace(s.Importance))
		if !validImportance[importance] {
			importance = defaultImportance
		}
		skills = append(skills, RequiredSkill{Skill: skill, Importance: importance})
	}

	return Company{
		Name:     strings.TrimSpace(d.Name),
		Industry: strings.TrimSpace(d.Industry),
		Size:     size,
		Location: Location{
			City:    strings.TrimSpace(d.Location.City),
			State:   strings.TrimSpace(d.Location.State),
			Country: strings.TrimSpace(d.Location.Country),
		},
		Description:     strings.TrimSpace(d.Description),
		RequiredSkills:  skills,
		PreferredSkills: d.PreferredSkills,
		ExperienceLevel: level,
		JobTitles:       d.JobTitles,
		Benefits:        d.Benefits,
		CompanyCulture:  strings.TrimSpace(d.CompanyCulture),
		IsActive:        true,
	}
}
