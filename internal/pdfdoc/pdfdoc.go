// Package pdfdoc gives page-level access to PDF payloads: counting pages,
// extracting text with per-page progress, and splitting into page-range parts.
package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/brunomdrs/processo-extractor/pkg/logger"
)

// ProgressFunc reports extraction progress as (current page, total pages).
type ProgressFunc func(current, total int)

type Reader struct {
	logger logger.Logger
}

func NewReader(log logger.Logger) *Reader {
	return &Reader{logger: log}
}

func pdfcpuConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// PageCount returns the total number of pages in the document.
func (r *Reader) PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), pdfcpuConfig())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// ExtractText returns the concatenated plain text of every page, invoking
// progress after each page. Pages are walked in order so the callback sees a
// monotonic (current, total). A nil progress is allowed.
func (r *Reader) ExtractText(ctx context.Context, data []byte, progress ProgressFunc) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, reader.Size())
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	total := pdfReader.NumPage()
	var sb strings.Builder
	for pageNum := 1; pageNum <= total; pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := pdfReader.Page(pageNum)
		if !page.V.IsNull() {
			text, err := page.GetPlainText(nil)
			if err != nil {
				r.logger.Warn("Failed to extract page text",
					logger.Int("page", pageNum),
					logger.Error(err),
				)
			} else {
				sb.WriteString(text)
				sb.WriteString("\n")
			}
		}
		if progress != nil {
			progress(pageNum, total)
		}
	}

	return sb.String(), nil
}
