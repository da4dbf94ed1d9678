// Package llm defines the boundary to the external AI service used for
// resume assessment, interview question generation and company
// recommendations.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the AI service fails or replies with
// content that cannot be parsed into the expected shape.
var ErrUnavailable = errors.New("analysis service unavailable")

// Analysis is the structured assessment of one resume.
type Analysis struct {
	ATSScore        int      `json:"atsScore"`
	ExtractedSkills []string `json:"extractedSkills"`
	Experience      string   `json:"experience"`
	Education       string   `json:"education"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Keywords        []string `json:"keywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

// InterviewQuestion is one generated question.
type InterviewQuestion struct {
	Question   string `json:"question"`
	Category   string `json:"category"`   // technical, behavioral, situational, company
	Difficulty string `json:"difficulty"` // easy, medium, hard
}

// DraftLocation mirrors the location shape the model returns.
type DraftLocation struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// DraftSkill is a required skill with its importance.
type DraftSkill struct {
	Skill      string `json:"skill"`
	Importance string `json:"importance"` // low, medium, high, critical
}

// CompanyDraft is one proposed catalog entry from the recommendation call.
// MatchPercentage is the model's own estimate; the catalog recomputes it.
type CompanyDraft struct {
	Name            string        `json:"name"`
	Industry        string        `json:"industry"`
	Size            string        `json:"size"`
	Location        DraftLocation `json:"location"`
	Description     string        `json:"description"`
	RequiredSkills  []DraftSkill  `json:"requiredSkills"`
	PreferredSkills []string      `json:"preferredSkills"`
	ExperienceLevel string        `json:"experienceLevel"`
	JobTitles       []string      `json:"jobTitles"`
	Benefits        []string      `json:"benefits"`
	CompanyCulture  string        `json:"companyCulture"`
	MatchPercentage int           `json:"matchPercentage"`
}

// Client abstracts the AI provider. All calls are synchronous request/response
// with no internal retry; a slow remote call holds the request open.
type Client interface {
	AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*Analysis, error)
	GenerateQuestions(ctx context.Context, resumeText, jobDescription string, count int) ([]InterviewQuestion, error)
	RecommendCompanies(ctx context.Context, skills []string, experienceLevel, industry string) ([]CompanyDraft, error)
}

// Unavailable is a client used when no provider is configured; every call
// fails with ErrUnavailable so the pipeline exercises its degraded paths.
type Unavailable struct{}

func (Unavailable) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*Analysis, error) {
	return nil, ErrUnavailable
}

func (Unavailable) GenerateQuestions(ctx context.Context, resumeText, jobDescription string, count int) ([]InterviewQuestion, error) {
	return nil, ErrUnavailable
}

func (Unavailable) RecommendCompanies(ctx context.Context, skills []string, experienceLevel, industry string) ([]CompanyDraft, error) {
	return nil, ErrUnavailable
}
