package companies

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
// Entries keep insertion order; search sorts by rating.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Company
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create appends a company.
func (r *MemoryRepo) Create(ctx context.Context, c Company) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, c)
	return nil
}

// GetByID returns an active company.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.data {
		if c.ID == id && c.IsActive {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

// GetByName resolves an active company by exact, case-sensitive name.
func (r *MemoryRepo) GetByName(ctx context.Context, name string) (Company, error) {
	if err := ctx.Err(); err != nil {
		return Company{}, err
	}
	name = strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.data {
		if c.IsActive && c.Name == name {
			return c, nil
		}
	}
	return Company{}, ErrNotFound
}

// Search filters and paginates the catalog, rating-first.
func (r *MemoryRepo) Search(ctx context.Context, f SearchFilter) ([]Company, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	var matched []Company
	for _, c := range r.data {
		if c.IsActive && matchesFilter(c, f) {
			matched = append(matched, c)
		}
	}
	r.mu.RUnlock()

	sortCompanies(matched, f.Sort.Field, f.Sort.Desc)

	total := len(matched)
	start := f.Page.Offset()
	if start > total {
		start = total
	}
	end := start + f.Page.Size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchesFilter(c Company, f SearchFilter) bool {
	if f.Name != "" && !containsFold(c.Name, f.Name) {
		return false
	}
	if f.Industry != "" && !containsFold(c.Industry, f.Industry) {
		return false
	}
	if f.Location != "" &&
		!containsFold(c.Location.City, f.Location) &&
		!containsFold(c.Location.State, f.Location) &&
		!containsFold(c.Location.Country, f.Location) {
		return false
	}
	if len(f.Skills) > 0 {
		found := false
		for _, term := range f.Skills {
			for _, s := range c.RequiredSkills {
				if containsFold(s.Skill, term) {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.ExperienceLevel != "" && !strings.EqualFold(c.ExperienceLevel, f.ExperienceLevel) {
		return false
	}
	if f.Size != "" && !strings.EqualFold(c.Size, f.Size) {
		return false
	}
	return true
}

func sortCompanies(items []Company, field string, desc bool) {
	compare := func(a, b Company) int {
		switch field {
		case "name":
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case "reviewCount":
			return a.ReviewCount - b.ReviewCount
		default: // rating
			switch {
			case a.Rating < b.Rating:
				return -1
			case a.Rating > b.Rating:
				return 1
			}
			return 0
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(items[i], items[j])
		if desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return items[i].Name < items[j].Name
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// UpdateRating stores a new aggregate rating and review count.
func (r *MemoryRepo) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		if r.data[i].ID == id && r.data[i].IsActive {
			r.data[i].Rating = rating
			r.data[i].ReviewCount = reviewCount
			return nil
		}
	}
	return ErrNotFound
}

// Industries lists the distinct industries of active companies, sorted.
func (r *MemoryRepo) Industries(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	seen := map[string]bool{}
	var out []string
	for _, c := range r.data {
		if c.IsActive && c.Industry != "" && !seen[c.Industry] {
			seen[c.Industry] = true
			out = append(out, c.Industry)
		}
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out, nil
}

// Locations lists the distinct locations of active companies.
func (r *MemoryRepo) Locations(ctx context.Context) ([]Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[Location]bool{}
	var out []Location
	for _, c := range r.data {
		if c.IsActive && !seen[c.Location] {
			seen[c.Location] = true
			out = append(out, c.Location)
		}
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
