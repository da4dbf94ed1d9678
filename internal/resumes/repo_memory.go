package resumes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"careerlens-backend/internal/llm"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Resume // userID -> resumes in insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string][]Resume)}
}

// Create stores a resume for a user.
func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[res.UserID] = append(r.data[res.UserID], res)
	return nil
}

// GetByID returns an active resume owned by the user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.data[userID] {
		if res.ID == resumeID && res.IsActive {
			return res, nil
		}
	}
	return Resume{}, ErrNotFound
}

// ListByUser returns the user's active resumes sorted and paginated, plus the
// total match count before pagination.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, f HistoryFilter) ([]Resume, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.RLock()
	var matched []Resume
	for _, res := range r.data[userID] {
		if res.IsActive {
			matched = append(matched, res)
		}
	}
	r.mu.RUnlock()

	sortResumes(matched, f.Sort.Field, f.Sort.Desc)

	total := len(matched)
	start := f.Page.Offset()
	if start >= total {
		return []Resume{}, total, nil
	}
	end := start + f.Page.Size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func sortResumes(items []Resume, field string, desc bool) {
	less := func(a, b Resume) bool { return a.UploadedAt.Before(b.UploadedAt) }
	switch field {
	case "atsScore":
		less = func(a, b Resume) bool { return a.ATSScore() < b.ATSScore() }
	case "fileName":
		less = func(a, b Resume) bool {
			return strings.ToLower(a.OriginalFileName) < strings.ToLower(b.OriginalFileName)
		}
	case "fileSize":
		less = func(a, b Resume) bool { return a.SizeBytes < b.SizeBytes }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

// UpdateAnalysis overwrites the analysis fields wholesale.
func (r *MemoryRepo) UpdateAnalysis(ctx context.Context, userID, resumeID string, analysis *llm.Analysis, questions []llm.InterviewQuestion, analyzedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		if items[i].ID == resumeID {
			items[i].Analysis = analysis
			items[i].InterviewQuestions = questions
			items[i].IsAnalyzed = analysis != nil
			if analysis != nil {
				at := analyzedAt
				items[i].AnalyzedAt = &at
			}
			r.data[userID] = items
			return nil
		}
	}
	return ErrNotFound
}

// SetInactive soft-deletes a resume.
func (r *MemoryRepo) SetInactive(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.data[userID]
	for i := range items {
		if items[i].ID == resumeID {
			items[i].IsActive = false
			r.data[userID] = items
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
