package resumes

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"careerlens-backend/internal/extract"
	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/shared/metrics"
	"careerlens-backend/internal/shared/query"
	"careerlens-backend/internal/shared/storage/object"
	"careerlens-backend/internal/shared/telemetry"
	"careerlens-backend/internal/uploads"
)

// Warnings surfaced to the caller when the upload succeeded but the
// analysis stage did not. The record is durable either way.
const (
	WarningAnalysisSkipped = "resume saved, but text could not be extracted from this file; analysis was skipped"
	WarningAnalysisFailed  = "resume saved, but the analysis service is currently unavailable; try analyzing again later"
)

const interviewQuestionCount = 10

// UploadResult is the outcome of an upload or re-analysis. AnalysisWarning
// is empty on full success.
type UploadResult struct {
	Resume          Resume
	AnalysisWarning string
}

// Service coordinates admission, storage, persistence and analysis.
type Service struct {
	repo      Repo
	store     object.ObjectStore
	extractor *extract.Extractor
	ai        llm.Client
	gate      uploads.Gate

	now   func() time.Time
	newID func() string
}

// NewService wires a resume service from its dependencies.
func NewService(repo Repo, store object.ObjectStore, extractor *extract.Extractor, ai llm.Client, gate uploads.Gate) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		extractor: extractor,
		ai:        ai,
		gate:      gate,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Upload admits one file, stores its bytes, persists the record and then
// runs analysis. Persistence happens before analysis so a failed or
// unavailable AI call never loses the upload.
func (s *Service) Upload(ctx context.Context, userID string, files []uploads.File, content io.Reader, jobDescription string) (UploadResult, error) {
	admitted, err := s.gate.Admit(files)
	if err != nil {
		metrics.IncUploadRejected()
		return UploadResult{}, err
	}

	key, size, _, err := s.store.Save(ctx, userID, admitted.Name, content)
	if err != nil {
		return UploadResult{}, err
	}

	res := Resume{
		ID:               s.newID(),
		UserID:           userID,
		OriginalFileName: admitted.Name,
		StorageKey:       key,
		SizeBytes:        size,
		FileType:         uploads.FileType(admitted.Name),
		UploadedAt:       s.now().UTC(),
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return UploadResult{}, err
	}

	warning, err := s.analyze(ctx, &res, jobDescription)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Resume: res, AnalysisWarning: warning}, nil
}

// Reanalyze runs a fresh analysis of an existing resume against a job
// description, replacing any previous analysis wholesale.
func (s *Service) Reanalyze(ctx context.Context, userID, resumeID, jobDescription string) (UploadResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return UploadResult{}, ErrInvalidInput
	}
	res, err := s.repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return UploadResult{}, err
	}
	warning, err := s.analyze(ctx, &res, jobDescription)
	if err != nil {
		return UploadResult{}, err
	}
	return UploadResult{Resume: res, AnalysisWarning: warning}, nil
}

// analyze extracts text, calls the AI service and persists the outcome.
// Extraction and AI failures degrade to a warning; only persistence
// failures propagate as errors.
func (s *Service) analyze(ctx context.Context, res *Resume, jobDescription string) (string, error) {
	start := s.now()

	text, err := s.extractor.Text(ctx, extract.FromLocator(res.StorageKey))
	if err != nil {
		metrics.IncAnalysisSkipped()
		telemetry.Error("text extraction failed", map[string]any{
			"resumeId": res.ID,
			"fileType": res.FileType,
			"error":    err.Error(),
		})
		return WarningAnalysisSkipped, nil
	}

	analysis, err := s.ai.AnalyzeResume(ctx, text, jobDescription)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("resume analysis failed", map[string]any{
			"resumeId": res.ID,
			"error":    err.Error(),
		})
		return WarningAnalysisFailed, nil
	}

	var questions []llm.InterviewQuestion
	if strings.TrimSpace(jobDescription) != "" {
		questions, err = s.ai.GenerateQuestions(ctx, text, jobDescription, interviewQuestionCount)
		if err != nil {
			// The assessment itself succeeded; keep it and go on without
			// questions rather than discarding the whole analysis.
			telemetry.Error("question generation failed", map[string]any{
				"resumeId": res.ID,
				"error":    err.Error(),
			})
			questions = nil
		}
	}

	analyzedAt := s.now().UTC()
	if err := s.repo.UpdateAnalysis(ctx, res.UserID, res.ID, analysis, questions, analyzedAt); err != nil {
		return "", err
	}

	res.Analysis = analysis
	res.InterviewQuestions = questions
	res.IsAnalyzed = true
	res.AnalyzedAt = &analyzedAt

	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(s.now().Sub(start)) / float64(time.Millisecond))
	telemetry.Info("resume analyzed", map[string]any{
		"resumeId": res.ID,
		"atsScore": analysis.ATSScore,
	})
	return "", nil
}

// Get returns one active resume owned by the caller.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.repo.GetByID(ctx, userID, resumeID)
}

// History lists the caller's active resumes, sorted and paginated.
func (s *Service) History(ctx context.Context, userID, sortField, sortOrder string, page query.Page) ([]Resume, query.Pagination, error) {
	sort, err := query.ParseSort(sortField, sortOrder, "uploadDate", true, SortFields)
	if err != nil {
		return nil, query.Pagination{}, err
	}
	page = query.NormalizePage(page.Number, page.Size)

	items, total, err := s.repo.ListByUser(ctx, userID, HistoryFilter{Sort: sort, Page: page})
	if err != nil {
		return nil, query.Pagination{}, err
	}
	return items, query.Paginate(page, total), nil
}

// Delete soft-deletes the record, then removes the stored object on a
// best-effort basis. A failed object removal never surfaces to the caller;
// the record is already gone from every query.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := s.repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if err := s.repo.SetInactive(ctx, userID, resumeID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, res.StorageKey); err != nil {
		telemetry.Error("stored object removal failed", map[string]any{
			"resumeId":   resumeID,
			"storageKey": res.StorageKey,
			"error":      err.Error(),
		})
	}
	return nil
}

// Download returns the resume record together with its stored bytes.
// The caller owns closing the reader.
func (s *Service) Download(ctx context.Context, userID, resumeID string) (Resume, io.ReadCloser, error) {
	res, err := s.repo.GetByID(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	body, err := s.store.Open(ctx, res.StorageKey)
	if err != nil {
		return Resume{}, nil, err
	}
	return res, body, nil
}
