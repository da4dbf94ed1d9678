package companies

import (
	"math"
	"strings"
)

// MatchScore grades how well a candidate's skills cover a company's
// required skills, as a whole percentage of the requirement list. Skills
// compare by case-insensitive substring containment in either direction,
// so "Go" matches "Golang" and "PostgreSQL administration" matches
// "postgresql". Empty inputs on either side score zero.
func MatchScore(candidateSkills []string, required []RequiredSkill) int {
	if len(candidateSkills) == 0 || len(required) == 0 {
		return 0
	}

	matched := 0
	for _, req := range required {
		for _, skill := range candidateSkills {
			if skillsOverlap(skill, req.Skill) {
				matched++
				break
			}
		}
	}
	return int(math.Round(100 * float64(matched) / float64(len(required))))
}

func skillsOverlap(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
