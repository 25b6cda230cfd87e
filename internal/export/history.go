package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/mtlprog/assetdash/internal/domain"
	"github.com/mtlprog/assetdash/internal/portfolio"
	"github.com/mtlprog/assetdash/internal/taxonomy"
)

// HistorySheet is the tab that receives one row per sync.
const HistorySheet = "HISTORY"

var historyHeaders = append([]any{"Date", "Month", "Total"},
	lo.Map(taxonomy.ClassOrder, func(c domain.AssetClass, _ int) any { return string(c) })...)

// buildHistoryRow builds the header and the data row for one sync: the month
// of the latest record, its after-tax total and the asset-class amounts.
func buildHistoryRow(records []domain.Asset, def domain.TaxonomyVersion, at time.Time) (headers, data []any) {
	ag := portfolio.New(def)

	data = make([]any, len(historyHeaders))
	data[0] = at.UTC().Format(domain.DateLayout)
	data[1] = ""
	data[2] = int64(0)
	for i := range taxonomy.ClassOrder {
		data[3+i] = int64(0)
	}

	months := portfolio.AvailableMonths(records)
	if len(months) == 0 {
		return historyHeaders, data
	}
	data[1] = months[0]

	byClass := lo.SliceToMap(ag.Allocation(records, portfolio.Latest), func(e domain.AllocationEntry) (domain.AssetClass, int64) {
		return e.AssetClass, e.Amount
	})
	var total int64
	for i, cls := range taxonomy.ClassOrder {
		data[3+i] = byClass[cls]
		total += byClass[cls]
	}
	data[2] = total

	return historyHeaders, data
}

// AppendHistory ensures the HISTORY sheet exists, writes the header row if the
// sheet is new or empty, then appends one data row for this run.
func (w *SheetsWriter) AppendHistory(ctx context.Context, records []domain.Asset, def domain.TaxonomyVersion) error {
	meta, err := w.ensureSheets(ctx, HistorySheet)
	if err != nil {
		return fmt.Errorf("ensuring %s sheet: %w", HistorySheet, err)
	}

	headers, data := buildHistoryRow(records, def, w.now())

	existing, err := w.svc.Spreadsheets.Values.Get(
		w.spreadsheetID, HistorySheet+"!A1",
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading %s header: %w", HistorySheet, err)
	}

	if len(existing.Values) == 0 {
		_, err = w.svc.Spreadsheets.Values.Update(
			w.spreadsheetID,
			HistorySheet+"!A1",
			&sheets.ValueRange{Values: [][]any{headers}},
		).ValueInputOption("USER_ENTERED").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("writing %s header: %w", HistorySheet, err)
		}
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		HistorySheet+"!A:H",
		&sheets.ValueRange{Values: [][]any{data}},
	).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %s row: %w", HistorySheet, err)
	}

	if err := w.formatHistory(ctx, meta[HistorySheet]); err != nil {
		return fmt.Errorf("formatting %s sheet: %w", HistorySheet, err)
	}
	return nil
}

// formatHistory freezes the header row and applies the yen number format to
// the amount columns.
func (w *SheetsWriter) formatHistory(ctx context.Context, sheet sheetMeta) error {
	cols := int64(len(historyHeaders))
	reqs := []*sheets.Request{
		cellFormatReq(sheet.id, 0, 1, 0, cols,
			&sheets.CellFormat{
				BackgroundColor:     headerColor,
				TextFormat:          &sheets.TextFormat{Bold: true},
				HorizontalAlignment: "CENTER",
			},
			"userEnteredFormat(backgroundColor,textFormat,horizontalAlignment)"),
		cellFormatReq(sheet.id, 1, 10000, 2, cols,
			&sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: yenPattern}},
			"userEnteredFormat.numberFormat"),
		frozenReq(sheet.id, 1, 1),
	}

	_, err := w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: reqs},
	).Context(ctx).Do()
	return err
}
