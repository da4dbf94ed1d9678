package companies

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/shared/query"
	"careerlens-backend/internal/shared/telemetry"
)

// Match is one catalog entry scored against a candidate's skills.
type Match struct {
	Company    Company
	MatchScore int
}

// Service coordinates catalog reconciliation, search and ratings.
type Service struct {
	repo Repo
	ai   llm.Client

	now   func() time.Time
	newID func() string
}

// NewService wires a company service from its dependencies.
func NewService(repo Repo, ai llm.Client) *Service {
	return &Service{
		repo:  repo,
		ai:    ai,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// MatchCompanies asks the AI service for companies fitting the candidate,
// reconciles each recommendation against the catalog by name and returns
// the entries scored and sorted by descending match.
//
// Reconciliation is first-write-wins: a name already in the catalog keeps
// its stored entry and the recommendation is discarded. Two concurrent
// requests for a brand-new name can both insert; the catalog tolerates
// the duplicate and name lookups keep returning one of them consistently.
func (s *Service) MatchCompanies(ctx context.Context, skills []string, experienceLevel, industry string) ([]Match, error) {
	cleaned := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			cleaned = append(cleaned, skill)
		}
	}
	if len(cleaned) == 0 {
		return nil, ErrInvalidInput
	}

	experienceLevel = strings.ToLower(strings.TrimSpace(experienceLevel))
	if !validExperienceLevels[experienceLevel] {
		experienceLevel = defaultExperienceLevel
	}

	drafts, err := s.ai.RecommendCompanies(ctx, cleaned, experienceLevel, industry)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(drafts))
	for _, draft := range drafts {
		company, err := s.reconcile(ctx, draft)
		if err != nil {
			// One bad recommendation must not sink the batch.
			telemetry.Error("recommendation reconcile failed", map[string]any{
				"name":  draft.Name,
				"error": err.Error(),
			})
			continue
		}
		matches = append(matches, Match{
			Company:    company,
			MatchScore: MatchScore(cleaned, company.RequiredSkills),
		})
	}

	// Stable sort keeps catalog insertion order between equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches, nil
}

// reconcile resolves a recommendation to a catalog entry, inserting it
// when the name is new.
func (s *Service) reconcile(ctx context.Context, draft llm.CompanyDraft) (Company, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return Company{}, ErrInvalidInput
	}

	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Company{}, err
	}

	company := fromDraft(draft)
	company.ID = s.newID()
	company.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, company); err != nil {
		return Company{}, err
	}
	telemetry.Info("company added to catalog", map[string]any{
		"companyId": company.ID,
		"name":      company.Name,
	})
	return company, nil
}

// Search filters the catalog, sorted and paginated.
func (s *Service) Search(ctx context.Context, f SearchFilter, sortField, sortOrder string) ([]Company, query.Pagination, error) {
	selected, err := query.ParseSort(sortField, sortOrder, "rating", true, SortFields)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	f.Sort = selected
	f.Page = query.NormalizePage(f.Page.Number, f.Page.Size)

	items, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.Paginate(f.Page, total), nil
}

// Get returns one active company.
func (s *Service) Get(ctx context.Context, id string) (Company, error) {
	return s.repo.GetByID(ctx, id)
}

// Industries lists the distinct industries in the catalog.
func (s *Service) Industries(ctx context.Context) ([]string, error) {
	return s.repo.Industries(ctx)
}

// Locations lists the distinct locations in the catalog.
func (s *Service) Locations(ctx context.Context) ([]Location, error) {
	return s.repo.Locations(ctx)
}

// Rate folds one rating between 1 and 5 into the company's running
// average, kept to one decimal place, and returns the updated entry.
// Votes are not deduplicated per caller.
func (s *Service) Rate(ctx context.Context, id string, value float64) (Company, error) {
	if value < 1 || value > 5 {
		return Company{}, ErrInvalidRating
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Company{}, err
	}

	count := company.ReviewCount
	rating := math.Round((company.Rating*float64(count)+value)/float64(count+1)*10) / 10

	if err := s.repo.UpdateRating(ctx, id, rating, count+1); err != nil {
		return Company{}, err
	}
	company.Rating = rating
	company.ReviewCount = count + 1
	return company, nil
}
