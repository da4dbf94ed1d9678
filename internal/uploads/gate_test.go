package uploads

import (
	"errors"
	"testing"
)

func TestGateAdmit(t *testing.T) {
	gate := NewGate(2 << 20)

	pdf := File{Name: "resume.pdf", MimeType: "application/pdf", SizeBytes: 1024}
	docx := File{
		Name:      "resume.docx",
		MimeType:  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		SizeBytes: 2048,
	}

	cases := []struct {
		name     string
		files    []File
		wantKind Kind
	}{
		{"pdf admitted", []File{pdf}, ""},
		{"docx admitted", []File{docx}, ""},
		{"doc admitted", []File{{Name: "old.doc", MimeType: "application/msword", SizeBytes: 10}}, ""},
		{"no file", nil, KindMissingFile},
		{"two files", []File{pdf, docx}, KindTooManyFiles},
		{"bad extension", []File{{Name: "resume.txt", MimeType: "application/pdf", SizeBytes: 10}}, KindUnsupportedType},
		{"mismatched mime", []File{{Name: "resume.pdf", MimeType: "text/plain", SizeBytes: 10}}, KindUnsupportedType},
		{"pdf mime with docx ext", []File{{Name: "resume.docx", MimeType: "application/pdf", SizeBytes: 10}}, KindUnsupportedType},
		{"over ceiling", []File{{Name: "big.pdf", MimeType: "application/pdf", SizeBytes: 3 << 20}}, KindTooLarge},
		{"at ceiling", []File{{Name: "edge.pdf", MimeType: "application/pdf", SizeBytes: 2 << 20}}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gate.Admit(tc.files)
			if tc.wantKind == "" {
				if err != nil {
					t.Fatalf("expected admission, got %v", err)
				}
				return
			}
			var rej *RejectionError
			if !errors.As(err, &rej) {
				t.Fatalf("expected RejectionError, got %v", err)
			}
			if rej.Kind != tc.wantKind {
				t.Fatalf("expected kind %s, got %s", tc.wantKind, rej.Kind)
			}
		})
	}
}

func TestGateDefaultCeiling(t *testing.T) {
	gate := NewGate(0)
	if gate.MaxSizeBytes != DefaultMaxSizeBytes {
		t.Fatalf("expected default ceiling %d, got %d", DefaultMaxSizeBytes, gate.MaxSizeBytes)
	}
}

func TestFileType(t *testing.T) {
	if got := FileType("Resume.PDF"); got != "pdf" {
		t.Fatalf("expected pdf, got %q", got)
	}
	if got := FileType("letter.docx"); got != "docx" {
		t.Fatalf("expected docx, got %q", got)
	}
}
