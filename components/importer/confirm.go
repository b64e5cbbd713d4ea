package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-insights/pkg/api"
)

// ErrNoSheetsEnabled blocks confirmation when every sheet is toggled off.
var ErrNoSheetsEnabled = errors.New("importer: no sheets enabled for import")

// SheetResult is the per-sheet outcome of a confirmed import.
type SheetResult struct {
	Sheet         string
	TableID       string
	TableName     string
	ProcessedRows int
	ErrorRows     int
	ErrorSamples  []string
}

// ImportSummary accumulates results across the confirmed sheets.
type ImportSummary struct {
	ImportID      string
	Sheets        []SheetResult
	ProcessedRows int
	ErrorRows     int
}

func (s *ImportSummary) add(result api.ConfirmResult) {
	s.Sheets = append(s.Sheets, SheetResult{
		Sheet:         result.Sheet,
		TableID:       result.TableID,
		TableName:     result.TableName,
		ProcessedRows: result.ProcessedRows,
		ErrorRows:     result.ErrorRows,
		ErrorSamples:  result.ErrorSamples,
	})
	s.ProcessedRows += result.ProcessedRows
	s.ErrorRows += result.ErrorRows
}

// Confirm commits every enabled sheet, one at a time and in discovery order.
// Each sheet is transformed with its current settings, its schema pushed when
// the user touched any column, and then confirmed. An API failure aborts the
// remaining sheets; the returned summary still covers the sheets committed so
// far. Row-level conversion failures do not abort, they arrive as error
// counts and samples on the per-sheet result.
func (w *Wizard) Confirm(ctx context.Context) (*ImportSummary, error) {
	if w.step == StepConfigure {
		if err := w.BeginConfirm(); err != nil {
			return nil, err
		}
	}
	if w.step != StepConfirm {
		return nil, fmt.Errorf("importer: wizard is not on the confirm step")
	}

	summary := &ImportSummary{ImportID: w.remote.ID}
	for _, sheet := range w.sheets {
		if !sheet.Enabled {
			continue
		}
		if err := w.confirmSheet(ctx, sheet, summary); err != nil {
			return summary, err
		}
	}
	w.step = StepDone
	w.log.Info().
		Str("import_id", w.remote.ID).
		Int("sheets", len(summary.Sheets)).
		Int("processed_rows", summary.ProcessedRows).
		Int("error_rows", summary.ErrorRows).
		Msg("import confirmed")
	return summary, nil
}

func (w *Wizard) confirmSheet(ctx context.Context, sheet *SheetDraft, summary *ImportSummary) error {
	result, err := w.svc.UpdateTransform(ctx, w.remote.ID, api.TransformRequest{
		Sheet:     sheet.Name,
		HeaderRow: sheet.HeaderRow,
		Delimiter: sheet.Delimiter,
	})
	if err != nil {
		return fmt.Errorf("importer: transform sheet %s: %w", sheet.Name, err)
	}
	sheet.Columns = mergeColumns(sheet.Columns, result.Columns)
	sheet.Loaded = true

	// Untouched sheets keep the server-inferred schema as-is; pushing it
	// back would just echo the inference.
	if sheetTouched(sheet) {
		if err := w.svc.UpdateSchema(ctx, w.remote.ID, api.SchemaRequest{
			Sheet:   sheet.Name,
			Columns: schemaColumns(sheet.Columns),
		}); err != nil {
			return fmt.Errorf("importer: update schema for sheet %s: %w", sheet.Name, err)
		}
	}

	confirmed, err := w.svc.ConfirmSheet(ctx, w.remote.ID, api.ConfirmRequest{Sheet: sheet.Name})
	if err != nil {
		return fmt.Errorf("importer: confirm sheet %s: %w", sheet.Name, err)
	}
	summary.add(confirmed)
	return nil
}

func sheetTouched(sheet *SheetDraft) bool {
	for _, col := range sheet.Columns {
		if col.Touched {
			return true
		}
	}
	return false
}

func schemaColumns(drafts []ColumnDraft) []api.SchemaColumn {
	out := make([]api.SchemaColumn, 0, len(drafts))
	for _, col := range drafts {
		out = append(out, api.SchemaColumn{
			SourceName:   col.SourceName,
			OriginalName: col.OriginalName,
			TargetName:   col.TargetName,
			Type:         string(col.Type),
			Enabled:      col.Enabled,
		})
	}
	return out
}
