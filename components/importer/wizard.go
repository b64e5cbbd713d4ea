// Package importer holds the state machine behind the spreadsheet import
// wizard: a 3-step linear workflow (Upload, Configure, Confirm) tracking
// per-sheet column/type/header/delimiter settings and driving sequential
// server-side transform and confirm calls.
package importer

import (
	"context"
	"fmt"
	"io"
	"unicode"

	"github.com/ettle/strcase"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/goliatone/go-insights/pkg/api"
)

// Step is the wizard's position in the workflow.
type Step int

const (
	StepUpload Step = iota
	StepConfigure
	StepConfirm
	StepDone
)

// ColumnType is the set of target column types a user can pick.
type ColumnType string

const (
	ColumnString ColumnType = "string"
	ColumnNumber ColumnType = "number"
	ColumnDate   ColumnType = "date"
	ColumnBool   ColumnType = "bool"
)

// ColumnDraft is the editable mapping of one detected column. SourceName is
// immutable and identifies the column across re-inference.
type ColumnDraft struct {
	SourceName   string
	OriginalName string
	TargetName   string
	Type         ColumnType
	Enabled      bool
	// Touched marks user edits so they survive a reload and so confirmation
	// knows whether to push the mapping or let the server re-infer.
	Touched bool
}

// SheetDraft is the working state of one spreadsheet sheet.
type SheetDraft struct {
	Name      string
	Enabled   bool
	HeaderRow int
	Delimiter string
	Columns   []ColumnDraft
	Preview   []map[string]any
	RowCount  int
	// Loaded is cleared whenever the header row or delimiter changes,
	// forcing re-inference on the next view.
	Loaded  bool
	Loading bool
}

// Wizard drives the import workflow against the import API.
type Wizard struct {
	svc    api.ImportService
	log    zerolog.Logger
	step   Step
	id     string
	remote api.ImportSession
	sheets []*SheetDraft
}

// Option customizes a Wizard.
type Option func(*Wizard)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Wizard) {
		w.log = log
	}
}

// NewWizard builds a wizard at the Upload step.
func NewWizard(svc api.ImportService, opts ...Option) *Wizard {
	w := &Wizard{
		svc:  svc,
		step: StepUpload,
		id:   uuid.NewString(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Step returns the current workflow position.
func (w *Wizard) Step() Step { return w.step }

// ImportID returns the server-side import session id once uploaded.
func (w *Wizard) ImportID() string { return w.remote.ID }

// Sheets returns the drafts in discovery order.
func (w *Wizard) Sheets() []*SheetDraft { return w.sheets }

// Sheet finds a draft by sheet name.
func (w *Wizard) Sheet(name string) (*SheetDraft, bool) {
	for _, sheet := range w.sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return nil, false
}

// Upload creates the import session, attaches the file, and seeds one empty
// draft per discovered sheet. Advances the wizard to Configure.
func (w *Wizard) Upload(ctx context.Context, name, description, fileName string, content io.Reader) error {
	if w.step != StepUpload {
		return fmt.Errorf("importer: upload is only valid on the upload step")
	}
	session, err := w.svc.CreateImport(ctx, api.CreateImportRequest{
		Name:        name,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("importer: create import: %w", err)
	}
	session, err = w.svc.UploadFile(ctx, session.ID, fileName, content)
	if err != nil {
		return fmt.Errorf("importer: upload file: %w", err)
	}
	w.remote = session
	w.sheets = make([]*SheetDraft, 0, len(session.SheetNames))
	for _, sheetName := range session.SheetNames {
		w.sheets = append(w.sheets, &SheetDraft{
			Name:      sheetName,
			Enabled:   true,
			HeaderRow: 1,
		})
	}
	w.step = StepConfigure
	w.log.Info().Str("import_id", session.ID).Int("sheets", len(w.sheets)).Msg("import file uploaded")
	return nil
}

// SetHeaderRow updates a sheet's header row and invalidates its inference.
func (w *Wizard) SetHeaderRow(sheetName string, row int) error {
	sheet, ok := w.Sheet(sheetName)
	if !ok {
		return unknownSheet(sheetName)
	}
	if row < 1 {
		row = 1
	}
	if sheet.HeaderRow != row {
		sheet.HeaderRow = row
		sheet.Loaded = false
	}
	return nil
}

// SetDelimiter updates a sheet's delimiter and invalidates its inference.
func (w *Wizard) SetDelimiter(sheetName, delimiter string) error {
	sheet, ok := w.Sheet(sheetName)
	if !ok {
		return unknownSheet(sheetName)
	}
	if sheet.Delimiter != delimiter {
		sheet.Delimiter = delimiter
		sheet.Loaded = false
	}
	return nil
}

// SetSheetEnabled toggles whether a sheet participates in confirmation.
func (w *Wizard) SetSheetEnabled(sheetName string, enabled bool) error {
	sheet, ok := w.Sheet(sheetName)
	if !ok {
		return unknownSheet(sheetName)
	}
	sheet.Enabled = enabled
	return nil
}

// RenameColumn sets the editable target name of a column.
func (w *Wizard) RenameColumn(sheetName, sourceName, targetName string) error {
	return w.editColumn(sheetName, sourceName, func(col *ColumnDraft) {
		col.TargetName = targetColumnName(targetName)
		col.Touched = true
	})
}

// SetColumnType changes a column's target type.
func (w *Wizard) SetColumnType(sheetName, sourceName string, columnType ColumnType) error {
	switch columnType {
	case ColumnString, ColumnNumber, ColumnDate, ColumnBool:
	default:
		return fmt.Errorf("importer: invalid column type %q", columnType)
	}
	return w.editColumn(sheetName, sourceName, func(col *ColumnDraft) {
		col.Type = columnType
		col.Touched = true
	})
}

// SetColumnEnabled toggles whether a column is imported.
func (w *Wizard) SetColumnEnabled(sheetName, sourceName string, enabled bool) error {
	return w.editColumn(sheetName, sourceName, func(col *ColumnDraft) {
		col.Enabled = enabled
		col.Touched = true
	})
}

func (w *Wizard) editColumn(sheetName, sourceName string, edit func(*ColumnDraft)) error {
	sheet, ok := w.Sheet(sheetName)
	if !ok {
		return unknownSheet(sheetName)
	}
	for i := range sheet.Columns {
		if sheet.Columns[i].SourceName == sourceName {
			edit(&sheet.Columns[i])
			return nil
		}
	}
	return fmt.Errorf("importer: sheet %s has no column %s", sheetName, sourceName)
}

// EnsureLoaded performs exactly one transform fetch for a stale sheet,
// merging any prior column edits by immutable source name. Already-loaded
// sheets return immediately without a fetch.
func (w *Wizard) EnsureLoaded(ctx context.Context, sheetName string) error {
	sheet, ok := w.Sheet(sheetName)
	if !ok {
		return unknownSheet(sheetName)
	}
	if sheet.Loaded || sheet.Loading {
		return nil
	}
	sheet.Loading = true
	defer func() { sheet.Loading = false }()

	result, err := w.svc.UpdateTransform(ctx, w.remote.ID, api.TransformRequest{
		Sheet:     sheet.Name,
		HeaderRow: sheet.HeaderRow,
		Delimiter: sheet.Delimiter,
	})
	if err != nil {
		return fmt.Errorf("importer: transform sheet %s: %w", sheet.Name, err)
	}
	sheet.Columns = mergeColumns(sheet.Columns, result.Columns)
	sheet.Preview = result.Preview
	sheet.RowCount = result.RowCount
	sheet.Loaded = true
	return nil
}

// mergeColumns reconciles freshly inferred columns with prior drafts:
// edits made before a reload are preserved by matching on the immutable
// source name; unmatched new columns get fresh defaults.
func mergeColumns(prior []ColumnDraft, inferred []api.SchemaColumn) []ColumnDraft {
	previous := make(map[string]ColumnDraft, len(prior))
	for _, col := range prior {
		previous[col.SourceName] = col
	}
	out := make([]ColumnDraft, 0, len(inferred))
	for _, col := range inferred {
		if kept, ok := previous[col.SourceName]; ok && kept.Touched {
			kept.OriginalName = col.OriginalName
			out = append(out, kept)
			continue
		}
		out = append(out, newColumnDraft(col))
	}
	return out
}

// targetColumnName turns a header like "Data Emissão" into a database-safe
// snake_case identifier. Combining marks are stripped so accented headers
// produce plain ASCII column names.
func targetColumnName(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	return strcase.ToSnake(folded)
}

func newColumnDraft(col api.SchemaColumn) ColumnDraft {
	columnType := ColumnType(col.Type)
	switch columnType {
	case ColumnString, ColumnNumber, ColumnDate, ColumnBool:
	default:
		columnType = ColumnString
	}
	target := col.TargetName
	if target == "" {
		target = targetColumnName(col.OriginalName)
	}
	return ColumnDraft{
		SourceName:   col.SourceName,
		OriginalName: col.OriginalName,
		TargetName:   target,
		Type:         columnType,
		Enabled:      true,
	}
}

// BeginConfirm advances from Configure to Confirm. At least one sheet must
// be enabled.
func (w *Wizard) BeginConfirm() error {
	if w.step != StepConfigure {
		return fmt.Errorf("importer: confirm is only reachable from the configure step")
	}
	if w.enabledCount() == 0 {
		return ErrNoSheetsEnabled
	}
	w.step = StepConfirm
	return nil
}

func (w *Wizard) enabledCount() int {
	count := 0
	for _, sheet := range w.sheets {
		if sheet.Enabled {
			count++
		}
	}
	return count
}

func unknownSheet(name string) error {
	return fmt.Errorf("importer: unknown sheet %q", name)
}
