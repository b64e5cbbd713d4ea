package importer

import (
	"context"
	"errors"
	"io"

	gocommand "github.com/goliatone/go-command"
)

// Telemetry receives import lifecycle events.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// UploadInput starts an import session from a spreadsheet file.
type UploadInput struct {
	Name        string
	Description string
	FileName    string
	Content     io.Reader
}

// UploadCommand wraps Wizard.Upload so transports can start imports without
// linking against the wizard directly.
type UploadCommand struct {
	wizard    *Wizard
	telemetry Telemetry
}

// NewUploadCommand creates the command.
func NewUploadCommand(wizard *Wizard, telemetry Telemetry) *UploadCommand {
	return &UploadCommand{wizard: wizard, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UploadInput] = (*UploadCommand)(nil)

// Execute uploads the file and seeds the sheet drafts.
func (c *UploadCommand) Execute(ctx context.Context, msg UploadInput) error {
	if c.wizard == nil {
		return errors.New("upload command requires wizard")
	}
	if err := c.wizard.Upload(ctx, msg.Name, msg.Description, msg.FileName, msg.Content); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "import.upload", map[string]any{
		"import_id": c.wizard.ImportID(),
		"sheets":    len(c.wizard.Sheets()),
	})
	return nil
}

// ConfirmInput carries the wizard whose enabled sheets should be committed.
type ConfirmInput struct {
	// OnSummary receives the accumulated results, including partial results
	// when a mid-sequence failure aborts the run.
	OnSummary func(*ImportSummary)
}

// ConfirmCommand wraps Wizard.Confirm.
type ConfirmCommand struct {
	wizard    *Wizard
	telemetry Telemetry
}

// NewConfirmCommand creates the command.
func NewConfirmCommand(wizard *Wizard, telemetry Telemetry) *ConfirmCommand {
	return &ConfirmCommand{wizard: wizard, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfirmInput] = (*ConfirmCommand)(nil)

// Execute commits the enabled sheets sequentially.
func (c *ConfirmCommand) Execute(ctx context.Context, msg ConfirmInput) error {
	if c.wizard == nil {
		return errors.New("confirm command requires wizard")
	}
	summary, err := c.wizard.Confirm(ctx)
	if summary != nil && msg.OnSummary != nil {
		msg.OnSummary(summary)
	}
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "import.confirm", map[string]any{
		"import_id":      summary.ImportID,
		"sheets":         len(summary.Sheets),
		"processed_rows": summary.ProcessedRows,
		"error_rows":     summary.ErrorRows,
	})
	return nil
}
