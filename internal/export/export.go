// Package export persists spreadsheet downloads and reads them back.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
	"github.com/aryan0dhankhar/allocdesk/internal/gateway"
)

// Exporter is the gateway's streaming download.
type Exporter interface {
	Export(ctx context.Context, kind domain.Kind, filter gateway.ExportFilter, w io.Writer) (gateway.Download, error)
}

// Result is a saved export.
type Result struct {
	Path     string
	Download gateway.Download
}

// Save downloads the export of kind into dir as "<name>.xlsx". An empty name
// keeps the server's suggested filename. The file only appears once the
// download completed.
func Save(ctx context.Context, exp Exporter, kind domain.Kind, filter gateway.ExportFilter, dir, name string) (Result, error) {
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".allocdesk-export-*")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	dl, err := exp.Export(ctx, kind, filter, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close temp file: %w", cerr)
	}
	if err != nil {
		return Result{}, err
	}

	filename := dl.Filename
	if name = strings.TrimSpace(name); name != "" {
		filename = strings.TrimSuffix(filepath.Base(name), ".xlsx") + ".xlsx"
	}
	path := filepath.Join(dir, filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Result{}, fmt.Errorf("save export: %w", err)
	}
	return Result{Path: path, Download: dl}, nil
}

// SheetSummary is the row count of one worksheet, header included.
type SheetSummary struct {
	Name string
	Rows int
}

// Summarize opens a saved workbook and counts the rows of every sheet.
func Summarize(path string) ([]SheetSummary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var out []SheetSummary
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		out = append(out, SheetSummary{Name: sheet, Rows: len(rows)})
	}
	return out, nil
}
