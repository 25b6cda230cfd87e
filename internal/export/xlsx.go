package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the sheet every new workbook starts with.
const defaultSheet = "Sheet1"

// WriteXLSX renders the tables as a workbook with one sheet per fiscal year,
// in the order given.
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	yen, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(yenPattern)})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9EAD3"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	for i, t := range tables {
		name := t.SheetName()
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("renaming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}

		for r, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("writing %s row %d: %w", name, r+1, err)
			}
		}

		if len(t.Months) == 0 || len(t.Rows) == 0 {
			continue
		}
		lastCol, _ := excelize.ColumnNumberToName(len(t.Months) + 2)
		if err := f.SetCellStyle(name, "A1", lastCol+"1", bold); err != nil {
			return fmt.Errorf("styling %s header: %w", name, err)
		}
		if len(t.Rows) > 1 {
			if err := f.SetCellStyle(name, "C2", fmt.Sprintf("%s%d", lastCol, len(t.Rows)), yen); err != nil {
				return fmt.Errorf("styling %s amounts: %w", name, err)
			}
		}
		if err := f.SetPanes(name, &excelize.Panes{
			Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight",
		}); err != nil {
			return fmt.Errorf("freezing %s panes: %w", name, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// XLSXWriter implements TableWriter by replacing a workbook on disk.
type XLSXWriter struct {
	Path string
}

// Write renders the tables to a temporary file next to Path and renames it
// into place.
func (x XLSXWriter) Write(_ context.Context, tables []Table) error {
	dir := filepath.Dir(x.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".assetdash-*.xlsx")
	if err != nil {
		return fmt.Errorf("creating temp workbook: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteXLSX(tmp, tables); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), x.Path); err != nil {
		return fmt.Errorf("replacing %s: %w", x.Path, err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
