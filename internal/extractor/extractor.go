// Package extractor turns an uploaded file into plain text for embedding.
// Dispatch is by filename suffix; anything unrecognized fails with
// ErrUnsupported.
package extractor

import (
	"io"
	"path/filepath"
	"strings"

	appErr "github.com/docdexio/docdex/internal/pkg/errors"
)

var ErrUnsupported = appErr.ErrUnsupported

func Extract(filename string, r io.ReaderAt, size int64) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return extractPlain(r, size)
	case ".md", ".markdown":
		return extractMarkdown(r, size)
	case ".pdf":
		return extractPDF(r, size)
	case ".docx":
		return extractDocx(r, size)
	default:
		return "", ErrUnsupported
	}
}

func extractPlain(r io.ReaderAt, size int64) (string, error) {
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
