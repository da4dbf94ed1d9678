package resumes

import (
	"time"

	"careerlens-backend/internal/llm"
)

// Resume is one uploaded candidate file plus its extracted analysis.
// Analysis and InterviewQuestions stay absent until the first successful
// analysis call; IsAnalyzed is true iff Analysis is present.
type Resume struct {
	ID                 string
	UserID             string
	OriginalFileName   string
	StorageKey         string
	SizeBytes          int64
	FileType           string // pdf, docx, doc
	UploadedAt         time.Time
	Analysis           *llm.Analysis
	InterviewQuestions []llm.InterviewQuestion
	IsAnalyzed         bool
	AnalyzedAt         *time.Time
	IsActive           bool
}

// ATSScore returns the analysis score, or 0 when unanalyzed.
func (r Resume) ATSScore() int {
	if r.Analysis == nil {
		return 0
	}
	return r.Analysis.ATSScore
}
