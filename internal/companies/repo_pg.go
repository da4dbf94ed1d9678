package companies

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const companyColumns = `id, name, industry, size, city, state, country, website, description, required_skills, preferred_skills, experience_level, job_titles, benefits, company_culture, rating, review_count, is_active, created_at`

// Create inserts a catalog entry.
func (r *PGRepo) Create(ctx context.Context, c Company) error {
	const query = `
INSERT INTO companies (
    id, name, industry, size, city, state, country, website, description,
    required_skills, preferred_skills, experience_level, job_titles, benefits,
    company_culture, rating, review_count, is_active, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	requiredJSON, err := json.Marshal(c.RequiredSkills)
	if err != nil {
		return fmt.Errorf("marshal required skills: %w", err)
	}
	preferredJSON, err := json.Marshal(c.PreferredSkills)
	if err != nil {
		return fmt.Errorf("marshal preferred skills: %w", err)
	}
	titlesJSON, err := json.Marshal(c.JobTitles)
	if err != nil {
		return fmt.Errorf("marshal job titles: %w", err)
	}
	benefitsJSON, err := json.Marshal(c.Benefits)
	if err != nil {
		return fmt.Errorf("marshal benefits: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		c.ID, c.Name, c.Industry, c.Size,
		c.Location.City, c.Location.State, c.Location.Country,
		c.Website, c.Description,
		requiredJSON, preferredJSON,
		c.ExperienceLevel, titlesJSON, benefitsJSON,
		c.CompanyCulture, c.Rating, c.ReviewCount, c.IsActive, c.CreatedAt,
	)
	return err
}

// GetByID returns an active company.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1 AND is_active LIMIT 1`
	c, err := scanCompany(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

// GetByName resolves an active company by exact, case-sensitive name.
func (r *PGRepo) GetByName(ctx context.Context, name string) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1 AND is_active LIMIT 1`
	c, err := scanCompany(r.DB.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, ErrNotFound
		}
		return Company{}, err
	}
	return c, nil
}

var searchSortColumns = map[string]string{
	"rating":      "rating",
	"name":        "LOWER(name)",
	"reviewCount": "review_count",
}

// Search filters the catalog with the requested sort and page window.
func (r *PGRepo) Search(ctx context.Context, f SearchFilter) ([]Company, int, error) {
	where := []string{"is_active"}
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Name != "" {
		where = append(where, fmt.Sprintf("name ILIKE %s", arg("%"+f.Name+"%")))
	}
	if f.Industry != "" {
		where = append(where, fmt.Sprintf("industry ILIKE %s", arg("%"+f.Industry+"%")))
	}
	if f.Location != "" {
		p := arg("%" + f.Location + "%")
		where = append(where, fmt.Sprintf("(city ILIKE %s OR state ILIKE %s OR country ILIKE %s)", p, p, p))
	}
	if len(f.Skills) > 0 {
		terms := make([]string, 0, len(f.Skills))
		for _, term := range f.Skills {
			terms = append(terms, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM jsonb_array_elements(required_skills) AS rs WHERE rs->>'skill' ILIKE %s)",
				arg("%"+term+"%")))
		}
		where = append(where, "("+strings.Join(terms, " OR ")+")")
	}
	if f.ExperienceLevel != "" {
		where = append(where, fmt.Sprintf("experience_level = %s", arg(strings.ToLower(f.ExperienceLevel))))
	}
	if f.Size != "" {
		where = append(where, fmt.Sprintf("size = %s", arg(strings.ToLower(f.Size))))
	}

	clause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM companies WHERE " + clause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := searchSortColumns[f.Sort.Field]
	if !ok {
		column = "rating"
	}
	direction := "ASC"
	if f.Sort.Desc {
		direction = "DESC"
	}

	listQuery := fmt.Sprintf(
		"SELECT %s FROM companies WHERE %s ORDER BY %s %s, name ASC LIMIT %s OFFSET %s",
		companyColumns, clause, column, direction, arg(f.Page.Size), arg(f.Page.Offset()))

	rows, err := r.DB.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// UpdateRating stores a new aggregate rating and review count.
func (r *PGRepo) UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE companies SET rating = $1, review_count = $2 WHERE id = $3 AND is_active`,
		rating, reviewCount, id)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Industries lists the distinct industries of active companies.
func (r *PGRepo) Industries(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT industry FROM companies WHERE is_active AND industry <> '' ORDER BY industry`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var industry string
		if err := rows.Scan(&industry); err != nil {
			return nil, err
		}
		out = append(out, industry)
	}
	return out, rows.Err()
}

// Locations lists the distinct locations of active companies.
func (r *PGRepo) Locations(ctx context.Context) ([]Location, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT city, state, country FROM companies WHERE is_active ORDER BY country, state, city`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.City, &loc.State, &loc.Country); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (Company, error) {
	var (
		c             Company
		requiredJSON  []byte
		preferredJSON []byte
		titlesJSON    []byte
		benefitsJSON  []byte
	)
	if err := row.Scan(
		&c.ID, &c.Name, &c.Industry, &c.Size,
		&c.Location.City, &c.Location.State, &c.Location.Country,
		&c.Website, &c.Description,
		&requiredJSON, &preferredJSON,
		&c.ExperienceLevel, &titlesJSON, &benefitsJSON,
		&c.CompanyCulture, &c.Rating, &c.ReviewCount, &c.IsActive, &c.CreatedAt,
	); err != nil {
		return Company{}, err
	}
	for _, pair := range []struct {
		raw []byte
		dst any
	}{
		{requiredJSON, &c.RequiredSkills},
		{preferredJSON, &c.PreferredSkills},
		{titlesJSON, &c.JobTitles},
		{benefitsJSON, &c.Benefits},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
			return Company{}, fmt.Errorf("unmarshal company field: %w", err)
		}
	}
	return c, nil
}

var _ Repo = (*PGRepo)(nil)
