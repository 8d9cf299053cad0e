// Package export writes recognition history to portable formats.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hay-kot/textsnap/internal/core/history"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet written by XLSX exports.
const SheetName = "History"

var columns = []string{"ID", "Date", "Image", "Text"}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want %s or %s)", s, FormatJSON, FormatXLSX)
	}
}

// FormatFromPath infers the format from a file extension, falling back to def.
func FormatFromPath(path string, def Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".xlsx":
		return FormatXLSX
	default:
		return def
	}
}

// Write encodes items to w in the given format.
func Write(w io.Writer, format Format, items []history.Item) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, items)
	case FormatXLSX:
		return writeXLSX(w, items)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeJSON(w io.Writer, items []history.Item) error {
	if items == nil {
		items = []history.Item{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, items []history.Item) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{item.ID, item.Date.UTC().Format(time.RFC3339), item.ImageURI, item.Text}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "B", "B", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "C", "D", 48); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
