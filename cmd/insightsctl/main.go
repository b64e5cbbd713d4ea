package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-insights/components/dashboard"
	"github.com/goliatone/go-insights/components/export"
	"github.com/goliatone/go-insights/components/importer"
	"github.com/goliatone/go-insights/pkg/api"
)

type cli struct {
	APIURL  string `env:"INSIGHTS_API_URL" default:"http://localhost:8080" help:"Base URL of the insights API."`
	APIKey  string `env:"INSIGHTS_API_KEY" help:"API key used as a bearer token."`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Render    renderCmd    `cmd:"" help:"Query and render a dashboard manifest to chart HTML fragments."`
	ExportPDF exportPDFCmd `cmd:"" name:"export-pdf" help:"Build an A4 landscape PDF from pre-captured widget images."`
	ExportCSV exportCSVCmd `cmd:"" name:"export-csv" help:"Export one table widget's data as CSV."`
	Import    importCmd    `cmd:"" help:"Upload a spreadsheet and commit every sheet with inferred settings."`
	Validate  validateCmd  `cmd:"" help:"Check every widget configuration in a manifest against its schema."`
}

type appContext struct {
	client *api.Client
	log    zerolog.Logger
}

func main() {
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Dashboard query, render, import, and export utility."),
		kong.UsageOnError(),
	)

	level := zerolog.InfoLevel
	if root.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	client, err := api.NewClient(api.Config{
		BaseURL: root.APIURL,
		APIKey:  root.APIKey,
		Logger:  log,
	})
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&appContext{client: client, log: log})
	ctx.FatalIfErrorf(err)
}

type renderCmd struct {
	Manifest string `arg:"" type:"path" help:"Dashboard manifest YAML."`
	OutDir   string `default:"out" type:"path" help:"Directory receiving one HTML fragment per chart widget."`
}

func (cmd *renderCmd) Run(app *appContext) error {
	doc, err := dashboard.ReadManifest(cmd.Manifest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cmd.OutDir, 0o755); err != nil {
		return fmt.Errorf("insightsctl: mkdir %s: %w", cmd.OutDir, err)
	}

	renderer := dashboard.NewChartRenderer()
	ctx := context.Background()
	rendered := 0
	for _, widget := range doc.Dashboard.Widgets {
		cfg := dashboard.NormalizeWidgetConfig(widget.RawConfig)
		if cfg == nil {
			app.log.Warn().Str("widget_id", widget.ID).Msg("skipping widget with unknown configuration")
			continue
		}
		switch cfg.Type {
		case dashboard.WidgetBar, dashboard.WidgetColumn, dashboard.WidgetDonut, dashboard.WidgetLine:
		default:
			continue
		}
		rows, err := app.client.QueryForConfig(ctx, cfg.DatasetID, cfg)
		if err != nil {
			app.log.Warn().Str("widget_id", widget.ID).Err(err).Msg("widget query failed")
			continue
		}
		data, err := dashboard.ShapeWidgetData(cfg, rows)
		if err != nil {
			app.log.Warn().Str("widget_id", widget.ID).Err(err).Msg("widget shaping failed")
			continue
		}
		html, err := renderer.Render(widget, data)
		if err != nil {
			app.log.Warn().Str("widget_id", widget.ID).Err(err).Msg("widget render failed")
			continue
		}
		path := filepath.Join(cmd.OutDir, widget.ID+".html")
		if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
			return fmt.Errorf("insightsctl: write %s: %w", path, err)
		}
		rendered++
	}
	app.log.Info().Int("widgets", rendered).Str("dir", cmd.OutDir).Msg("render complete")
	return nil
}

type exportPDFCmd struct {
	Manifest  string `arg:"" type:"path" help:"Dashboard manifest YAML."`
	ImagesDir string `required:"" type:"path" help:"Directory of pre-captured widget PNGs named <widget-id>.png."`
	Out       string `type:"path" help:"Output PDF path (default derives from the dashboard title and date)."`
}

func (cmd *exportPDFCmd) Run(app *appContext) error {
	doc, err := dashboard.ReadManifest(cmd.Manifest)
	if err != nil {
		return err
	}
	exporter, err := export.NewPDFExporter(
		&fileRasterizer{dir: cmd.ImagesDir},
		export.WithExportLogger(app.log),
	)
	if err != nil {
		return err
	}
	return export.NewExportPDFCommand(exporter).Execute(context.Background(), export.ExportPDFInput{
		Dashboard: &doc.Dashboard,
		Path:      cmd.Out,
		OnWritten: func(path string) {
			fmt.Fprintf(os.Stdout, "wrote %s\n", path)
		},
	})
}

// fileRasterizer resolves widget images from disk instead of driving a
// browser, which keeps the CLI export usable in CI pipelines that capture
// screenshots separately.
type fileRasterizer struct {
	dir string
}

func (r *fileRasterizer) CaptureWidget(_ context.Context, widget dashboard.DashboardWidget) (export.WidgetImage, error) {
	path := filepath.Join(r.dir, widget.ID+".png")
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return export.WidgetImage{}, fmt.Errorf("insightsctl: read capture %s: %w", path, err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return export.WidgetImage{}, fmt.Errorf("insightsctl: decode capture %s: %w", path, err)
	}
	return export.WidgetImage{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

type exportCSVCmd struct {
	Manifest string `arg:"" type:"path" help:"Dashboard manifest YAML."`
	WidgetID string `arg:"" help:"ID of the table widget to export."`
	Out      string `type:"path" help:"Output CSV path (default derives from the widget title)."`
}

func (cmd *exportCSVCmd) Run(app *appContext) error {
	doc, err := dashboard.ReadManifest(cmd.Manifest)
	if err != nil {
		return err
	}
	var widget *dashboard.DashboardWidget
	for i := range doc.Dashboard.Widgets {
		if doc.Dashboard.Widgets[i].ID == cmd.WidgetID {
			widget = &doc.Dashboard.Widgets[i]
			break
		}
	}
	if widget == nil {
		return fmt.Errorf("insightsctl: manifest has no widget %s", cmd.WidgetID)
	}
	cfg := dashboard.NormalizeWidgetConfig(widget.RawConfig)
	if cfg == nil || cfg.Type != dashboard.WidgetTable {
		return fmt.Errorf("insightsctl: widget %s is not a table", cmd.WidgetID)
	}

	rows, err := app.client.QueryForConfig(context.Background(), cfg.DatasetID, cfg)
	if err != nil {
		return err
	}
	data, err := dashboard.ShapeWidgetData(cfg, rows)
	if err != nil {
		return err
	}

	path := cmd.Out
	if path == "" {
		path = export.CSVFileName(widget.Title)
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("insightsctl: create %s: %w", path, err)
	}
	defer f.Close()
	err = export.NewExportCSVCommand().Execute(context.Background(), export.ExportCSVInput{
		Table:  data.Table,
		State:  dashboard.TableState{},
		Writer: f,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s\n", path)
	return nil
}

type validateCmd struct {
	Manifest string `arg:"" type:"path" help:"Dashboard manifest YAML."`
}

func (cmd *validateCmd) Run(app *appContext) error {
	doc, err := dashboard.ReadManifest(cmd.Manifest)
	if err != nil {
		return err
	}
	if err := doc.ValidateConfigs(dashboard.NewJSONSchemaValidator()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s: %d widgets ok\n", cmd.Manifest, len(doc.Dashboard.Widgets))
	return nil
}

type importCmd struct {
	File        string `arg:"" type:"path" help:"Spreadsheet file to import."`
	Name        string `required:"" help:"Name of the new import."`
	Description string `help:"Optional description."`
}

func (cmd *importCmd) Run(app *appContext) error {
	f, err := os.Open(cmd.File) //nolint:gosec
	if err != nil {
		return fmt.Errorf("insightsctl: open %s: %w", cmd.File, err)
	}
	defer f.Close()

	wizard := importer.NewWizard(app.client, importer.WithLogger(app.log))
	ctx := context.Background()
	err = importer.NewUploadCommand(wizard, nil).Execute(ctx, importer.UploadInput{
		Name:        cmd.Name,
		Description: cmd.Description,
		FileName:    filepath.Base(cmd.File),
		Content:     f,
	})
	if err != nil {
		return err
	}
	start := time.Now()
	var summary *importer.ImportSummary
	err = importer.NewConfirmCommand(wizard, nil).Execute(ctx, importer.ConfirmInput{
		OnSummary: func(s *importer.ImportSummary) { summary = s },
	})
	if summary != nil {
		for _, sheet := range summary.Sheets {
			fmt.Fprintf(os.Stdout, "%s -> %s (%d rows, %d errors)\n", sheet.Sheet, sheet.TableName, sheet.ProcessedRows, sheet.ErrorRows)
			for _, sample := range sheet.ErrorSamples {
				fmt.Fprintf(os.Stdout, "  %s\n", sample)
			}
		}
	}
	if err != nil {
		return err
	}
	app.log.Info().
		Str("import_id", summary.ImportID).
		Int("processed_rows", summary.ProcessedRows).
		Dur("elapsed", time.Since(start)).
		Msg("import complete")
	return nil
}
