package companies

import "time"

// CompanyView is the catalog entry shape returned over HTTP.
type CompanyView struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Industry        string          `json:"industry"`
	Size            string          `json:"size"`
	Location        Location        `json:"location"`
	Website         string          `json:"website,omitempty"`
	Description     string          `json:"description,omitempty"`
	RequiredSkills  []RequiredSkill `json:"requiredSkills"`
	PreferredSkills []string        `json:"preferredSkills,omitempty"`
	ExperienceLevel string          `json:"experienceLevel"`
	JobTitles       []string        `json:"jobTitles,omitempty"`
	Benefits        []string        `json:"benefits,omitempty"`
	CompanyCulture  string          `json:"companyCulture,omitempty"`
	Rating          float64         `json:"rating"`
	ReviewCount     int             `json:"reviewCount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// MatchView pairs a catalog entry with its computed match score.
type MatchView struct {
	CompanyView
	MatchScore int `json:"matchScore"`
}

func toView(c Company) CompanyView {
	return CompanyView{
		ID:              c.ID,
		Name:            c.Name,
		Industry:        c.Industry,
		Size:            c.Size,
		Location:        c.Location,
		Website:         c.Website,
		Description:     c.Description,
		RequiredSkills:  c.RequiredSkills,
		PreferredSkills: c.PreferredSkills,
		ExperienceLevel: c.ExperienceLevel,
		JobTitles:       c.JobTitles,
		Benefits:        c.Benefits,
		CompanyCulture:  c.CompanyCulture,
		Rating:          c.Rating,
		ReviewCount:     c.ReviewCount,
		CreatedAt:       c.CreatedAt,
	}
}

func toViews(cs []Company) []CompanyView {
	out := make([]CompanyView, 0, len(cs))
	for _, c := range cs {
		out = append(out, toView(c))
	}
	return out
}

func toMatchViews(ms []Match) []MatchView {
	out := make([]MatchView, 0, len(ms))
	for _, m := range ms {
		out = append(out, MatchView{CompanyView: toView(m.Company), MatchScore: m.MatchScore})
	}
	return out
}
