package companies

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"careerlens-backend/internal/shared/query"
)

var companyRowColumns = []string{
	"id", "name", "industry", "size", "city", "state", "country", "website", "description",
	"required_skills", "preferred_skills", "experience_level", "job_titles", "benefits",
	"company_culture", "rating", "review_count", "is_active", "created_at",
}

func addCompanyRow(t *testing.T, rows *sqlmock.Rows, c Company) {
	t.Helper()
	requiredJSON, err := json.Marshal(c.RequiredSkills)
	if err != nil {
		t.Fatalf("marshal required skills: %v", err)
	}
	preferredJSON, _ := json.Marshal(c.PreferredSkills)
	titlesJSON, _ := json.Marshal(c.JobTitles)
	benefitsJSON, _ := json.Marshal(c.Benefits)
	rows.AddRow(
		c.ID, c.Name, c.Industry, c.Size,
		c.Location.City, c.Location.State, c.Location.Country,
		c.Website, c.Description,
		requiredJSON, preferredJSON,
		c.ExperienceLevel, titlesJSON, benefitsJSON,
		c.CompanyCulture, c.Rating, c.ReviewCount, c.IsActive, c.CreatedAt,
	)
}

func TestPGRepoGetByName(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	rows := sqlmock.NewRows(companyRowColumns)
	addCompanyRow(t, rows, Company{
		ID:   "c-1",
		Name: "Acme Robotics",
		RequiredSkills: []RequiredSkill{
			{Skill: "Go", Importance: "critical"},
		},
		Rating:      4.2,
		ReviewCount: 7,
		IsActive:    true,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	mock.ExpectQuery(`FROM companies WHERE name = \$1 AND is_active`).
		WithArgs("Acme Robotics").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	c, err := repo.GetByName(context.Background(), "  Acme Robotics  ")
	if err != nil {
		t.Fatalf("get by name: %v", err)
	}
	if len(c.RequiredSkills) != 1 || c.RequiredSkills[0].Skill != "Go" {
		t.Fatalf("skills not decoded: %+v", c.RequiredSkills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByNameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM companies WHERE name = \$1 AND is_active`).
		WithArgs("Nowhere Inc").
		WillReturnRows(sqlmock.NewRows(companyRowColumns))

	repo := &PGRepo{DB: db}
	if _, err := repo.GetByName(context.Background(), "Nowhere Inc"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoSearchWithFilters(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM companies WHERE is_active AND industry ILIKE \$1 AND \(city ILIKE \$2 OR state ILIKE \$2 OR country ILIKE \$2\)`).
		WithArgs("%Robotics%", "%Austin%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(companyRowColumns)
	addCompanyRow(t, rows, Company{
		ID: "c-1", Name: "Acme Robotics", Industry: "Robotics",
		Location: Location{City: "Austin", State: "TX", Country: "USA"},
		IsActive: true, CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	mock.ExpectQuery(`ORDER BY rating DESC, name ASC LIMIT \$3 OFFSET \$4`).
		WithArgs("%Robotics%", "%Austin%", 10, 0).
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	items, total, err := repo.Search(context.Background(), SearchFilter{
		Industry: "Robotics",
		Location: "Austin",
		Sort:     query.Sort{Field: "rating", Desc: true},
		Page:     query.NormalizePage(1, 10),
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Name != "Acme Robotics" {
		t.Fatalf("search result wrong: total %d, items %+v", total, items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoUpdateRatingNotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE companies SET rating = \$1, review_count = \$2 WHERE id = \$3 AND is_active`).
		WithArgs(4.5, 3, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	if err := repo.UpdateRating(context.Background(), "missing", 4.5, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
