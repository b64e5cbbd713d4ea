package export

import (
	"context"
	"errors"
	"io"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-insights/components/dashboard"
)

// ExportPDFInput asks for a dashboard PDF at the given path. An empty path
// derives the file name from the dashboard title and current date.
type ExportPDFInput struct {
	Dashboard *dashboard.Dashboard
	Path      string
	// OnWritten receives the resolved output path.
	OnWritten func(path string)
}

// ExportPDFCommand wraps PDFExporter.ExportFile for transports.
type ExportPDFCommand struct {
	exporter *PDFExporter
}

// NewExportPDFCommand creates the command.
func NewExportPDFCommand(exporter *PDFExporter) *ExportPDFCommand {
	return &ExportPDFCommand{exporter: exporter}
}

var _ gocommand.Commander[ExportPDFInput] = (*ExportPDFCommand)(nil)

// Execute writes the PDF artifact.
func (c *ExportPDFCommand) Execute(ctx context.Context, msg ExportPDFInput) error {
	if c.exporter == nil {
		return errors.New("export command requires exporter")
	}
	path, err := c.exporter.ExportFile(ctx, msg.Dashboard, msg.Path)
	if err != nil {
		return err
	}
	if msg.OnWritten != nil {
		msg.OnWritten(path)
	}
	return nil
}

// ExportCSVInput asks for a table widget's CSV content.
type ExportCSVInput struct {
	Table  *dashboard.TableData
	State  dashboard.TableState
	Writer io.Writer
}

// ExportCSVCommand wraps WriteCSV for transports.
type ExportCSVCommand struct{}

// NewExportCSVCommand creates the command.
func NewExportCSVCommand() *ExportCSVCommand {
	return &ExportCSVCommand{}
}

var _ gocommand.Commander[ExportCSVInput] = (*ExportCSVCommand)(nil)

// Execute streams the CSV.
func (c *ExportCSVCommand) Execute(_ context.Context, msg ExportCSVInput) error {
	if msg.Writer == nil {
		return errors.New("csv export requires a writer")
	}
	return WriteCSV(msg.Writer, msg.Table, msg.State)
}
