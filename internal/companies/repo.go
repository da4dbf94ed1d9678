package companies

import (
	"context"

	"careerlens-backend/internal/shared/query"
)

// SearchFilter narrows a catalog search; filters combine with AND and
// empty fields match everything. Name, Industry and Location compare
// case-insensitively by substring, Location against city, state and
// country. Skills matches when any required skill contains any listed
// term. ExperienceLevel and Size are exact.
type SearchFilter struct {
	Name            string
	Industry        string
	Location        string
	Skills          []string
	ExperienceLevel string
	Size            string
	Sort            query.Sort
	Page            query.Page
}

// SortFields is the allow-list for search sorting.
var SortFields = []string{"rating", "name", "reviewCount"}

// Repo defines persistence operations for the company catalog. Reads
// exclude inactive entries.
type Repo interface {
	Create(ctx context.Context, c Company) error
	GetByID(ctx context.Context, id string) (Company, error)
	// GetByName resolves a company by exact, case-sensitive name. This is
	// the reconciliation point for AI recommendations.
	GetByName(ctx context.Context, name string) (Company, error)
	Search(ctx context.Context, f SearchFilter) ([]Company, int, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
	Industries(ctx context.Context) ([]string, error)
	Locations(ctx context.Context) ([]Location, error)
}
