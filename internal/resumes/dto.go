package resumes

import (
	"fmt"
	"time"

	"careerlens-backend/internal/llm"
)

// Summary is the compact record shape used by history listings.
type Summary struct {
	ID               string    `json:"id"`
	OriginalFileName string    `json:"originalFileName"`
	UploadDate       time.Time `json:"uploadDate"`
	ATSScore         int       `json:"atsScore"`
	IsAnalyzed       bool      `json:"isAnalyzed"`
	FileSize         string    `json:"fileSize"`
	FileType         string    `json:"fileType"`
}

// Detail is the full record shape used by single-resume responses.
type Detail struct {
	ID                 string                  `json:"id"`
	OriginalFileName   string                  `json:"originalFileName"`
	UploadDate         time.Time               `json:"uploadDate"`
	FileSize           string                  `json:"fileSize"`
	FileType           string                  `json:"fileType"`
	IsAnalyzed         bool                    `json:"isAnalyzed"`
	AnalyzedAt         *time.Time              `json:"analyzedAt,omitempty"`
	Analysis           *llm.Analysis           `json:"analysis,omitempty"`
	InterviewQuestions []llm.InterviewQuestion `json:"interviewQuestions,omitempty"`
}

func toSummary(r Resume) Summary {
	return Summary{
		ID:               r.ID,
		OriginalFileName: r.OriginalFileName,
		UploadDate:       r.UploadedAt,
		ATSScore:         r.ATSScore(),
		IsAnalyzed:       r.IsAnalyzed,
		FileSize:         formatFileSize(r.SizeBytes),
		FileType:         r.FileType,
	}
}

func toSummaries(rs []Resume) []Summary {
	out := make([]Summary, 0, len(rs))
	for _, r := range rs {
		out = append(out, toSummary(r))
	}
	return out
}

func toDetail(r Resume) Detail {
	return Detail{
		ID:                 r.ID,
		OriginalFileName:   r.OriginalFileName,
		UploadDate:         r.UploadedAt,
		FileSize:           formatFileSize(r.SizeBytes),
		FileType:           r.FileType,
		IsAnalyzed:         r.IsAnalyzed,
		AnalyzedAt:         r.AnalyzedAt,
		Analysis:           r.Analysis,
		InterviewQuestions: r.InterviewQuestions,
	}
}

func formatFileSize(sizeBytes int64) string {
	return fmt.Sprintf("%.2f KB", float64(sizeBytes)/1024)
}
