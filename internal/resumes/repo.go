package resumes

import (
	"context"
	"time"

	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/shared/query"
)

// SortFields is the allow-list for history sorting.
var SortFields = []string{"uploadDate", "atsScore", "fileName", "fileSize"}

// HistoryFilter scopes and orders a user's resume history.
type HistoryFilter struct {
	Sort query.Sort
	Page query.Page
}

// Repo defines persistence operations for resumes. All reads are scoped to
// the owning user and exclude soft-deleted records.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	GetByID(ctx context.Context, userID, resumeID string) (Resume, error)
	ListByUser(ctx context.Context, userID string, f HistoryFilter) ([]Resume, int, error)
	UpdateAnalysis(ctx context.Context, userID, resumeID string, analysis *llm.Analysis, questions []llm.InterviewQuestion, analyzedAt time.Time) error
	SetInactive(ctx context.Context, userID, resumeID string) error
}
