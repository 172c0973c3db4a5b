// Package sheet reads spreadsheet exports into raw records. One CSV file is
// one sheet; the sheet name is the file's base name without extension, which
// the ingestion side stamps into each record's flexible document.
//
// The reader is deliberately lenient about real-world exports: UTF-8 BOMs,
// ragged rows, and stray whitespace in headers are all tolerated. Cleaning
// of cell values is not done here; that is the normalizer's job.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dotunbey/feedback-os/internal/ingest"
	"github.com/Dotunbey/feedback-os/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Options configures parsing. Zero value applies the defaults.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune
}

// ReadFile loads one CSV export as a named sheet.
func ReadFile(path string, opt Options) (ingest.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Sheet{}, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()
	return Read(f, SheetName(path), opt)
}

// ReadFiles loads several exports in argument order, preserving the source
// order the dedup pass depends on.
func ReadFiles(paths []string, opt Options) ([]ingest.Sheet, error) {
	out := make([]ingest.Sheet, 0, len(paths))
	for _, p := range paths {
		s, err := ReadFile(p, opt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// SheetName derives the sheet name from a file path: base name, extension
// dropped.
func SheetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Read parses CSV data into a sheet. The first row is the header; headers
// are trimmed and a leading BOM removed. Rows shorter than the header are
// padded with missing cells, longer rows have their extras dropped. Rows
// that fail CSV parsing entirely are skipped, not fatal.
func Read(r io.Reader, name string, opt Options) (ingest.Sheet, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return ingest.Sheet{Name: name}, nil
	}
	if err != nil {
		return ingest.Sheet{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	sh := ingest.Sheet{Name: name}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Tolerate malformed lines; the run report accounts for rows
			// that reached normalization, not parser casualties.
			continue
		}
		rec := make(records.Record, len(header))
		for i, h := range header {
			if h == "" {
				continue
			}
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		sh.Rows = append(sh.Rows, rec)
	}
	return sh, nil
}
