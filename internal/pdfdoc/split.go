package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageRange is one contiguous span of a document, 1-based and inclusive.
type PageRange struct {
	First int
	Last  int
}

func (pr PageRange) Pages() int {
	return pr.Last - pr.First + 1
}

// Part is one split piece of a source document.
type Part struct {
	Name  string
	Range PageRange
	Data  []byte
}

// ComputeRanges cuts pageCount pages into spans of at most pagesPerPart,
// in original page order. The final span absorbs the remainder.
func ComputeRanges(pageCount, pagesPerPart int) ([]PageRange, error) {
	if pageCount < 1 {
		return nil, fmt.Errorf("invalid page count: %d", pageCount)
	}
	if pagesPerPart < 1 {
		return nil, fmt.Errorf("invalid pages per part: %d", pagesPerPart)
	}
	var ranges []PageRange
	for first := 1; first <= pageCount; first += pagesPerPart {
		last := first + pagesPerPart - 1
		if last > pageCount {
			last = pageCount
		}
		ranges = append(ranges, PageRange{First: first, Last: last})
	}
	return ranges, nil
}

// PartName renders the human-readable label for part n covering pr,
// e.g. "Part 2 (Pages 11-20)".
func PartName(n int, pr PageRange) string {
	return fmt.Sprintf("Part %d (Pages %d-%d)", n, pr.First, pr.Last)
}

// Split cuts the document into parts of at most pagesPerPart pages each.
// Every part is a standalone PDF covering one contiguous range.
func (r *Reader) Split(data []byte, pagesPerPart int) ([]Part, error) {
	pageCount, err := r.PageCount(data)
	if err != nil {
		return nil, err
	}
	ranges, err := ComputeRanges(pageCount, pagesPerPart)
	if err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(ranges))
	for i, pr := range ranges {
		var buf bytes.Buffer
		selection := []string{fmt.Sprintf("%d-%d", pr.First, pr.Last)}
		if err := api.Trim(bytes.NewReader(data), &buf, selection, pdfcpuConfig()); err != nil {
			return nil, fmt.Errorf("failed to split pages %d-%d: %w", pr.First, pr.Last, err)
		}
		parts = append(parts, Part{
			Name:  PartName(i+1, pr),
			Range: pr,
			Data:  buf.Bytes(),
		})
	}
	return parts, nil
}
