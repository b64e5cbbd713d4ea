package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ettle/strcase"

	"github.com/goliatone/go-insights/components/dashboard"
)

// CSVFileName derives the artifact name from the widget title.
func CSVFileName(title string) string {
	slug := strcase.ToKebab(title)
	if slug == "" {
		slug = "table"
	}
	return slug + ".csv"
}

// WriteCSV streams a table widget's full content, in the given sort order and
// ignoring pagination, as CSV. Fields containing quotes, commas, or newlines
// are quoted with internal quotes doubled.
func WriteCSV(w io.Writer, data *dashboard.TableData, state dashboard.TableState) error {
	if data == nil {
		return fmt.Errorf("export: table data is required")
	}
	headers, rows := data.AllRows(state)
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}
