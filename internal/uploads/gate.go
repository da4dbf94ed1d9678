// Package uploads implements admission control for incoming resume files.
package uploads

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind classifies why a file was rejected.
type Kind string

const (
	KindUnsupportedType Kind = "unsupported_type"
	KindTooLarge        Kind = "too_large"
	KindTooManyFiles    Kind = "too_many_files"
	KindMissingFile     Kind = "missing_file"
)

// RejectionError reports an admission failure. It carries no other state;
// discarding the rejected bytes is the caller's job.
type RejectionError struct {
	Kind    Kind
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("upload rejected (%s): %s", e.Kind, e.Message)
}

// File describes one candidate upload before any bytes are processed.
type File struct {
	Name      string
	MimeType  string
	SizeBytes int64
}

// Extensions map to the canonical MIME string the client must declare.
var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
}

const DefaultMaxSizeBytes = 2 << 20 // 2 MiB

// Gate decides whether an upload is admitted before any expensive work.
type Gate struct {
	MaxSizeBytes int64
}

// NewGate returns a Gate with the given ceiling, falling back to the default.
func NewGate(maxSizeBytes int64) Gate {
	if maxSizeBytes <= 0 {
		maxSizeBytes = DefaultMaxSizeBytes
	}
	return Gate{MaxSizeBytes: maxSizeBytes}
}

// Admit accepts exactly one file whose extension AND declared MIME type both
// belong to the allowed set and whose declared size fits the ceiling.
// Requiring both guards against mislabeled uploads.
func (g Gate) Admit(files []File) (File, error) {
	switch {
	case len(files) == 0:
		return File{}, &RejectionError{Kind: KindMissingFile, Message: "no file uploaded; select a resume file"}
	case len(files) > 1:
		return File{}, &RejectionError{Kind: KindTooManyFiles, Message: "only one file allowed per request"}
	}

	f := files[0]
	ext := strings.ToLower(filepath.Ext(f.Name))
	wantMime, ok := allowedTypes[ext]
	if !ok || !strings.EqualFold(strings.TrimSpace(f.MimeType), wantMime) {
		return File{}, &RejectionError{
			Kind:    KindUnsupportedType,
			Message: "invalid file type; only PDF, DOCX and DOC files are allowed",
		}
	}

	max := g.MaxSizeBytes
	if max <= 0 {
		max = DefaultMaxSizeBytes
	}
	if f.SizeBytes > max {
		return File{}, &RejectionError{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("file too large; maximum size is %d bytes", max),
		}
	}

	return f, nil
}

// FileType returns the stored document type ("pdf", "docx", "doc") for an
// admitted file name.
func FileType(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
