package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careerlens-backend/internal/llm"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, original_file_name, storage_key, size_bytes, file_type, uploaded_at, analysis, interview_questions, is_analyzed, analyzed_at, is_active`

// Create inserts a new resume record.
func (r *PGRepo) Create(ctx context.Context, res Resume) error {
	const query = `
INSERT INTO resumes (
    id, user_id, original_file_name, storage_key, size_bytes, file_type,
    uploaded_at, analysis, interview_questions, is_analyzed, analyzed_at, is_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	analysisJSON, questionsJSON, err := marshalAnalysis(res.Analysis, res.InterviewQuestions)
	if err != nil {
		return err
	}

	var analyzedAt sql.NullTime
	if res.AnalyzedAt != nil {
		analyzedAt = sql.NullTime{Time: *res.AnalyzedAt, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		res.ID,
		res.UserID,
		res.OriginalFileName,
		res.StorageKey,
		res.SizeBytes,
		res.FileType,
		res.UploadedAt,
		analysisJSON,
		questionsJSON,
		res.IsAnalyzed,
		analyzedAt,
		res.IsActive,
	)
	return err
}

// GetByID returns an active resume owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	query := `
SELECT ` + resumeColumns + `
FROM resumes
WHERE user_id = $1 AND id = $2 AND is_active
LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, userID, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return res, nil
}

var historySortColumns = map[string]string{
	"uploadDate": "uploaded_at",
	"atsScore":   "COALESCE((analysis->>'atsScore')::int, 0)",
	"fileName":   "LOWER(original_file_name)",
	"fileSize":   "size_bytes",
}

// ListByUser lists active resumes with the requested sort and page window.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, f HistoryFilter) ([]Resume, int, error) {
	column, ok := historySortColumns[f.Sort.Field]
	if !ok {
		column = "uploaded_at"
	}
	direction := "ASC"
	if f.Sort.Desc {
		direction = "DESC"
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resumes WHERE user_id = $1 AND is_active`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
SELECT `+resumeColumns+`
FROM resumes
WHERE user_id = $1 AND is_active
ORDER BY %s %s, id ASC
LIMIT $2 OFFSET $3`, column, direction)

	rows, err := r.DB.QueryContext(ctx, query, userID, f.Page.Size, f.Page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, res)
	}
	return out, total, rows.Err()
}

// UpdateAnalysis overwrites the analysis fields wholesale.
func (r *PGRepo) UpdateAnalysis(ctx context.Context, userID, resumeID string, analysis *llm.Analysis, questions []llm.InterviewQuestion, analyzedAt time.Time) error {
	const query = `
UPDATE resumes
SET analysis = $1, interview_questions = $2, is_analyzed = $3, analyzed_at = $4
WHERE user_id = $5 AND id = $6`

	analysisJSON, questionsJSON, err := marshalAnalysis(analysis, questions)
	if err != nil {
		return err
	}

	var at sql.NullTime
	if analysis != nil {
		at = sql.NullTime{Time: analyzedAt, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, analysisJSON, questionsJSON, analysis != nil, at, userID, resumeID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetInactive soft-deletes a resume.
func (r *PGRepo) SetInactive(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE resumes SET is_active = FALSE WHERE user_id = $1 AND id = $2`, userID, resumeID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalAnalysis(analysis *llm.Analysis, questions []llm.InterviewQuestion) (any, any, error) {
	var analysisJSON any
	if analysis != nil {
		raw, err := json.Marshal(analysis)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal analysis: %w", err)
		}
		analysisJSON = raw
	}
	var questionsJSON any
	if len(questions) > 0 {
		raw, err := json.Marshal(questions)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal questions: %w", err)
		}
		questionsJSON = raw
	}
	return analysisJSON, questionsJSON, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		res          Resume
		analysisRaw  []byte
		questionsRaw []byte
		analyzedAt   sql.NullTime
	)
	if err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.OriginalFileName,
		&res.StorageKey,
		&res.SizeBytes,
		&res.FileType,
		&res.UploadedAt,
		&analysisRaw,
		&questionsRaw,
		&res.IsAnalyzed,
		&analyzedAt,
		&res.IsActive,
	); err != nil {
		return Resume{}, err
	}
	if len(analysisRaw) > 0 {
		var analysis llm.Analysis
		if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
			return Resume{}, fmt.Errorf("unmarshal analysis: %w", err)
		}
		res.Analysis = &analysis
	}
	if len(questionsRaw) > 0 {
		if err := json.Unmarshal(questionsRaw, &res.InterviewQuestions); err != nil {
			return Resume{}, fmt.Errorf("unmarshal questions: %w", err)
		}
	}
	if analyzedAt.Valid {
		res.AnalyzedAt = &analyzedAt.Time
	}
	return res, nil
}

var _ Repo = (*PGRepo)(nil)
