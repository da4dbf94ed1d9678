// Package extract turns stored resume documents into plain text.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ledongthuc/pdf"

	"careerlens-backend/internal/shared/storage/object"
)

// ErrUnsupportedFormat is returned when the payload is neither a PDF nor a DOCX.
// Legacy .doc binaries land here; admission accepts them but extraction cannot.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// FetchError reports a non-success response while fetching a remote document.
type FetchError struct {
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch document: %s", e.Status)
}

// Extractor resolves a Source to bytes and decodes them to plain text.
// Extraction is all-or-nothing: any failure yields no text at all.
type Extractor struct {
	Store      object.ObjectStore
	HTTPClient *http.Client
}

// Text extracts plain text from the source document.
func (e *Extractor) Text(ctx context.Context, src Source) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		data []byte
		err  error
	)
	switch src.kind {
	case sourcePath:
		data, err = e.readStored(ctx, src.path)
	case sourceURL:
		data, err = e.fetch(ctx, src.url)
	case sourceBytes:
		data = src.data
	default:
		err = fmt.Errorf("unknown source variant %d", src.kind)
	}
	if err != nil {
		return "", err
	}

	return decode(data)
}

func (e *Extractor) readStored(ctx context.Context, path string) ([]byte, error) {
	if e.Store == nil {
		return nil, errors.New("object store not configured")
	}
	body, err := e.Store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open stored document %s: %w", path, err)
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (e *Extractor) fetch(ctx context.Context, url string) ([]byte, error) {
	client := e.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

// decode is the single convergence point for all source variants.
func decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		text, err := extractPDF(data)
		if err != nil {
			return "", fmt.Errorf("extract pdf: %w", err)
		}
		return text, nil
	case isZip(data):
		text, err := extractDOCX(data)
		if err != nil {
			return "", fmt.Errorf("extract docx: %w", err)
		}
		return text, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func isZip(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		// A zip without document.xml is not a word document.
		return "", ErrUnsupportedFormat
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
