package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"careerlens-backend/internal/extract"
	"careerlens-backend/internal/llm"
	"careerlens-backend/internal/shared/query"
	"careerlens-backend/internal/shared/storage/object/local"
	"careerlens-backend/internal/uploads"
)

type stubAI struct {
	analysis     *llm.Analysis
	analysisErr  error
	questions    []llm.InterviewQuestion
	questionsErr error

	analyzeCalls  int
	questionCalls int
	lastJD        string
}

func (s *stubAI) AnalyzeResume(ctx context.Context, resumeText, jobDescription string) (*llm.Analysis, error) {
	s.analyzeCalls++
	s.lastJD = jobDescription
	if s.analysisErr != nil {
		return nil, s.analysisErr
	}
	return s.analysis, nil
}

func (s *stubAI) GenerateQuestions(ctx context.Context, resumeText, jobDescription string, count int) ([]llm.InterviewQuestion, error) {
	s.questionCalls++
	if s.questionsErr != nil {
		return nil, s.questionsErr
	}
	return s.questions, nil
}

func (s *stubAI) RecommendCompanies(ctx context.Context, skills []string, experienceLevel, industry string) ([]llm.CompanyDraft, error) {
	return nil, llm.ErrUnavailable
}

func docxPayload(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T, ai llm.Client) (*Service, *MemoryRepo) {
	t.Helper()
	repo := NewMemoryRepo()
	store := local.New(t.TempDir())
	svc := NewService(repo, store, &extract.Extractor{Store: store}, ai, uploads.NewGate(0))
	return svc, repo
}

func docxUpload(name string, size int64) []uploads.File {
	return []uploads.File{{
		Name:      name,
		MimeType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		SizeBytes: size,
	}}
}

func TestUploadAnalyzesAndPersists(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 82, ExtractedSkills: []string{"Go", "SQL"}}}
	svc, repo := newTestService(t, ai)

	payload := docxPayload(t, "Go developer with SQL experience")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.AnalysisWarning != "" {
		t.Fatalf("unexpected warning: %q", result.AnalysisWarning)
	}
	if !result.Resume.IsAnalyzed || result.Resume.Analysis == nil {
		t.Fatal("expected analyzed resume")
	}
	if result.Resume.ATSScore() != 82 {
		t.Fatalf("atsScore = %d, want 82", result.Resume.ATSScore())
	}
	if ai.questionCalls != 0 {
		t.Fatalf("questions generated without a job description: %d calls", ai.questionCalls)
	}

	stored, err := repo.GetByID(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("get stored: %v", err)
	}
	if !stored.IsAnalyzed || stored.Analysis == nil || stored.Analysis.ATSScore != 82 {
		t.Fatalf("stored record not analyzed: %+v", stored)
	}
	if stored.FileType != "docx" {
		t.Fatalf("fileType = %q, want docx", stored.FileType)
	}
}

func TestUploadWithJobDescriptionGeneratesQuestions(t *testing.T) {
	ai := &stubAI{
		analysis:  &llm.Analysis{ATSScore: 70},
		questions: []llm.InterviewQuestion{{Question: "Describe a Go service you built", Category: "technical", Difficulty: "medium"}},
	}
	svc, _ := newTestService(t, ai)

	payload := docxPayload(t, "Backend engineer")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "Senior Go engineer")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if ai.lastJD != "Senior Go engineer" {
		t.Fatalf("job description not forwarded: %q", ai.lastJD)
	}
	if len(result.Resume.InterviewQuestions) != 1 {
		t.Fatalf("questions = %d, want 1", len(result.Resume.InterviewQuestions))
	}
}

func TestUploadSurvivesAnalysisFailure(t *testing.T) {
	ai := &stubAI{analysisErr: llm.ErrUnavailable}
	svc, repo := newTestService(t, ai)

	payload := docxPayload(t, "Frontend engineer")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload should not fail when analysis fails: %v", err)
	}
	if result.AnalysisWarning != WarningAnalysisFailed {
		t.Fatalf("warning = %q, want %q", result.AnalysisWarning, WarningAnalysisFailed)
	}
	if result.Resume.IsAnalyzed {
		t.Fatal("record should stay unanalyzed")
	}

	stored, err := repo.GetByID(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("record must be durable after analysis failure: %v", err)
	}
	if stored.IsAnalyzed || stored.Analysis != nil {
		t.Fatalf("stored record should be unanalyzed: %+v", stored)
	}
}

func TestUploadSurvivesExtractionFailure(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 50}}
	svc, repo := newTestService(t, ai)

	// Declared as .doc so admission passes, but the payload is a legacy
	// binary the extractor cannot decode.
	payload := []byte("\xd0\xcf\x11\xe0 legacy word binary")
	files := []uploads.File{{Name: "resume.doc", MimeType: "application/msword", SizeBytes: int64(len(payload))}}

	result, err := svc.Upload(context.Background(), "user-1", files, bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload should not fail when extraction fails: %v", err)
	}
	if result.AnalysisWarning != WarningAnalysisSkipped {
		t.Fatalf("warning = %q, want %q", result.AnalysisWarning, WarningAnalysisSkipped)
	}
	if ai.analyzeCalls != 0 {
		t.Fatalf("analysis should be skipped entirely, got %d calls", ai.analyzeCalls)
	}
	if _, err := repo.GetByID(context.Background(), "user-1", result.Resume.ID); err != nil {
		t.Fatalf("record must be durable after skipped analysis: %v", err)
	}
}

func TestUploadRejectsBeforeAnyWork(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 50}}
	svc, repo := newTestService(t, ai)

	files := []uploads.File{{Name: "resume.txt", MimeType: "text/plain", SizeBytes: 100}}
	_, err := svc.Upload(context.Background(), "user-1", files, strings.NewReader("plain"), "")

	var rejection *uploads.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected RejectionError, got %v", err)
	}
	if rejection.Kind != uploads.KindUnsupportedType {
		t.Fatalf("kind = %q, want %q", rejection.Kind, uploads.KindUnsupportedType)
	}

	items, total, err := repo.ListByUser(context.Background(), "user-1", HistoryFilter{
		Sort: query.Sort{Field: "uploadDate", Desc: true},
		Page: query.NormalizePage(1, 10),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("rejected upload must not persist anything, got %d items", total)
	}
}

func TestReanalyzeRequiresJobDescription(t *testing.T) {
	svc, _ := newTestService(t, &stubAI{analysis: &llm.Analysis{}})
	_, err := svc.Reanalyze(context.Background(), "user-1", "some-id", "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestReanalyzeReplacesAnalysisWholesale(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 60, Summary: "first pass"}}
	svc, repo := newTestService(t, ai)

	payload := docxPayload(t, "Platform engineer")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	ai.analysis = &llm.Analysis{ATSScore: 85, Summary: "second pass", MissingKeywords: []string{"kubernetes"}}
	ai.questions = []llm.InterviewQuestion{{Question: "How do you roll out config changes?", Category: "technical", Difficulty: "hard"}}

	reanalyzed, err := svc.Reanalyze(context.Background(), "user-1", result.Resume.ID, "Platform engineer role")
	if err != nil {
		t.Fatalf("reanalyze: %v", err)
	}
	if reanalyzed.Resume.Analysis.Summary != "second pass" {
		t.Fatalf("analysis not replaced: %+v", reanalyzed.Resume.Analysis)
	}

	stored, err := repo.GetByID(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Analysis.ATSScore != 85 || len(stored.InterviewQuestions) != 1 {
		t.Fatalf("stored analysis not replaced: %+v", stored)
	}
}

func TestGetForeignResumeIsNotFound(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 75}}
	svc, _ := newTestService(t, ai)

	payload := docxPayload(t, "Data engineer")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-2", result.Resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign lookup must be ErrNotFound, got %v", err)
	}
}

func TestDeleteHidesFromHistoryAndGet(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 75}}
	svc, _ := newTestService(t, ai)

	var ids []string
	for _, name := range []string{"a.docx", "b.docx"} {
		payload := docxPayload(t, "engineer "+name)
		result, err := svc.Upload(context.Background(), "user-1", docxUpload(name, int64(len(payload))), bytes.NewReader(payload), "")
		if err != nil {
			t.Fatalf("upload %s: %v", name, err)
		}
		ids = append(ids, result.Resume.ID)
	}

	if err := svc.Delete(context.Background(), "user-1", ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := svc.Get(context.Background(), "user-1", ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted resume must be ErrNotFound, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete must be ErrNotFound, got %v", err)
	}

	items, pagination, err := svc.History(context.Background(), "user-1", "", "", query.Page{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if pagination.TotalItems != 1 || len(items) != 1 {
		t.Fatalf("history after delete = %d items (total %d), want 1", len(items), pagination.TotalItems)
	}
	if items[0].ID != ids[1] {
		t.Fatalf("wrong survivor: %s", items[0].ID)
	}
}

func TestHistorySortAndPagination(t *testing.T) {
	svc, repo := newTestService(t, &stubAI{analysis: &llm.Analysis{}})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	scores := []int{40, 90, 10, 70, 55}
	for i, score := range scores {
		res := Resume{
			ID:               "r-" + string(rune('a'+i)),
			UserID:           "user-1",
			OriginalFileName: "resume.pdf",
			StorageKey:       "key",
			FileType:         "pdf",
			UploadedAt:       base.Add(time.Duration(i) * time.Hour),
			Analysis:         &llm.Analysis{ATSScore: score},
			IsAnalyzed:       true,
			IsActive:         true,
		}
		if err := repo.Create(context.Background(), res); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	items, pagination, err := svc.History(context.Background(), "user-1", "atsScore", "desc", query.Page{Number: 1, Size: 2})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if pagination.TotalItems != 5 || pagination.TotalPages != 3 {
		t.Fatalf("pagination = %+v", pagination)
	}
	if !pagination.HasNextPage || pagination.HasPrevPage {
		t.Fatalf("page flags wrong on first page: %+v", pagination)
	}
	if items[0].ATSScore() != 90 || items[1].ATSScore() != 70 {
		t.Fatalf("sort order wrong: %d, %d", items[0].ATSScore(), items[1].ATSScore())
	}

	items, pagination, err = svc.History(context.Background(), "user-1", "uploadDate", "asc", query.Page{Number: 3, Size: 2})
	if err != nil {
		t.Fatalf("history page 3: %v", err)
	}
	if len(items) != 1 || pagination.HasNextPage || !pagination.HasPrevPage {
		t.Fatalf("last page wrong: %d items, %+v", len(items), pagination)
	}
	if !items[0].UploadedAt.Equal(base.Add(4 * time.Hour)) {
		t.Fatalf("asc order wrong: %v", items[0].UploadedAt)
	}

	if _, _, err := svc.History(context.Background(), "user-1", "salary", "", query.Page{}); !errors.Is(err, query.ErrUnknownSortField) {
		t.Fatalf("unknown sort field must error, got %v", err)
	}
}

func TestDownloadReturnsStoredBytes(t *testing.T) {
	ai := &stubAI{analysis: &llm.Analysis{ATSScore: 75}}
	svc, _ := newTestService(t, ai)

	payload := docxPayload(t, "download me")
	result, err := svc.Upload(context.Background(), "user-1", docxUpload("resume.docx", int64(len(payload))), bytes.NewReader(payload), "")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	res, body, err := svc.Download(context.Background(), "user-1", result.Resume.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer body.Close()

	got, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("downloaded %d bytes, want %d", len(got), len(payload))
	}
	if res.OriginalFileName != "resume.docx" {
		t.Fatalf("fileName = %q", res.OriginalFileName)
	}
}
