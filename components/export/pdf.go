package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ettle/strcase"
	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-insights/components/dashboard"
)

// A4 landscape, millimeters.
const (
	pageWidthMM   = 297.0
	pageHeightMM  = 210.0
	pageMarginMM  = 10.0
	rowGapMM      = 4.0
	sectionGapMM  = 8.0
	titleHeightMM = 10.0
)

// PDFExporter lays a dashboard out as an A4 landscape PDF, one image per
// widget, packed into section rows.
type PDFExporter struct {
	rasterizer Rasterizer
	log        zerolog.Logger
}

// PDFExporterOption customizes the exporter.
type PDFExporterOption func(*PDFExporter)

// WithExportLogger attaches a logger.
func WithExportLogger(log zerolog.Logger) PDFExporterOption {
	return func(e *PDFExporter) {
		e.log = log
	}
}

// NewPDFExporter builds an exporter around a widget rasterizer.
func NewPDFExporter(rasterizer Rasterizer, opts ...PDFExporterOption) (*PDFExporter, error) {
	if rasterizer == nil {
		return nil, fmt.Errorf("export: rasterizer is required")
	}
	e := &PDFExporter{rasterizer: rasterizer}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// PDFFileName derives the artifact name from the dashboard title and a date.
func PDFFileName(title string, now time.Time) string {
	slug := strcase.ToKebab(title)
	if slug == "" {
		slug = "dashboard"
	}
	return fmt.Sprintf("%s-%s.pdf", slug, now.Format("2006-01-02"))
}

// ExportFile writes the PDF to path, deriving the file name from the
// dashboard title and current date when path is empty.
func (e *PDFExporter) ExportFile(ctx context.Context, dash *dashboard.Dashboard, path string) (string, error) {
	if path == "" {
		path = PDFFileName(dash.Title, time.Now())
	}
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()
	if err := e.Export(ctx, dash, f); err != nil {
		return "", err
	}
	return path, nil
}

// Export captures every widget and writes the paginated PDF. Widgets whose
// capture fails are skipped rather than aborting the export.
func (e *PDFExporter) Export(ctx context.Context, dash *dashboard.Dashboard, w io.Writer) error {
	if dash == nil {
		return fmt.Errorf("export: dashboard is required")
	}
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	cursor := pageMarginMM
	doc.SetFont("Helvetica", "B", 14)
	doc.Text(pageMarginMM, cursor+6, dash.Title)
	cursor += titleHeightMM

	for _, section := range dash.Sections {
		widgets := dash.SectionWidgets(section)
		if len(widgets) == 0 {
			continue
		}
		var err error
		cursor, err = e.exportSection(ctx, doc, section, widgets, cursor)
		if err != nil {
			return err
		}
		cursor += sectionGapMM
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

type placedImage struct {
	widget  dashboard.DashboardWidget
	image   WidgetImage
	width   int
	isTable bool
	ok      bool
}

func (e *PDFExporter) exportSection(ctx context.Context, doc *fpdf.Fpdf, section dashboard.DashboardSection, widgets []dashboard.DashboardWidget, cursor float64) (float64, error) {
	columns := section.Columns
	if columns < 1 {
		columns = 1
	}
	widths := make([]int, len(widgets))
	kinds := make([]bool, len(widgets))
	for i, widget := range widgets {
		widths[i] = 1
		if cfg := dashboard.NormalizeWidgetConfig(widget.RawConfig); cfg != nil {
			widths[i] = cfg.Size.Width
			kinds[i] = cfg.Type == dashboard.WidgetTable
		}
	}

	for _, row := range PackRows(columns, widths) {
		images := e.captureRow(ctx, widgets, widths, kinds, row)
		var err error
		cursor, err = e.placeRow(doc, columns, images, cursor)
		if err != nil {
			return cursor, err
		}
	}
	return cursor, nil
}

// captureRow rasterizes every widget in the row, fanning the captures out and
// joining before layout. Failed captures are logged and dropped.
func (e *PDFExporter) captureRow(ctx context.Context, widgets []dashboard.DashboardWidget, widths []int, kinds []bool, row []int) []placedImage {
	images := make([]placedImage, len(row))
	var wg sync.WaitGroup
	for slot, idx := range row {
		wg.Add(1)
		go func(slot, idx int) {
			defer wg.Done()
			widget := widgets[idx]
			img, err := e.rasterizer.CaptureWidget(ctx, widget)
			if err != nil || len(img.PNG) == 0 || img.Width <= 0 || img.Height <= 0 {
				e.log.Warn().Str("widget_id", widget.ID).Err(err).Msg("widget capture skipped")
				images[slot] = placedImage{widget: widget}
				return
			}
			images[slot] = placedImage{
				widget:  widget,
				image:   img,
				width:   widths[idx],
				isTable: kinds[idx],
				ok:      true,
			}
		}(slot, idx)
	}
	wg.Wait()
	return images
}

// placeRow lays one packed row onto the page. Non-table images share a
// uniform row height equal to the tallest of them; table images are sliced
// vertically across page breaks with their own page cursor.
func (e *PDFExporter) placeRow(doc *fpdf.Fpdf, columns int, images []placedImage, cursor float64) (float64, error) {
	printableW := pageWidthMM - 2*pageMarginMM
	columnW := printableW / float64(columns)

	rowHeight := 0.0
	for i := range images {
		img := &images[i]
		if !img.ok {
			continue
		}
		w := columnW * float64(img.width)
		h := w * float64(img.image.Height) / float64(img.image.Width)
		if !img.isTable && h > rowHeight {
			rowHeight = h
		}
	}
	if rowHeight == 0 && !hasTable(images) {
		return cursor, nil
	}

	bottom := pageHeightMM - pageMarginMM
	if rowHeight > 0 && cursor+rowHeight > bottom {
		doc.AddPage()
		cursor = pageMarginMM
	}

	x := pageMarginMM
	rowEnd := cursor + rowHeight
	pageBefore := doc.PageNo()
	tableEnd := cursor

	for i := range images {
		img := &images[i]
		if !img.ok {
			x += columnW * float64(img.width)
			continue
		}
		w := columnW * float64(img.width)
		h := w * float64(img.image.Height) / float64(img.image.Width)
		name := registerImage(doc, img)

		if img.isTable {
			end, err := e.placeTableSlices(doc, name, x, cursor, w, h)
			if err != nil {
				return cursor, err
			}
			if end > tableEnd {
				tableEnd = end
			}
		} else {
			doc.ImageOptions(name, x, cursor, w, h, false, pngOptions(), 0, "")
		}
		x += w
	}

	if doc.PageNo() != pageBefore {
		// Table slicing moved to a later page; continue below its last slice.
		return tableEnd + rowGapMM, doc.Error()
	}
	if tableEnd > rowEnd {
		rowEnd = tableEnd
	}
	return rowEnd + rowGapMM, doc.Error()
}

// placeTableSlices draws a tall table image as successive page-sized vertical
// slices, inserting page breaks and advancing independently of the row's
// other images.
func (e *PDFExporter) placeTableSlices(doc *fpdf.Fpdf, name string, x, y, w, h float64) (float64, error) {
	bottom := pageHeightMM - pageMarginMM
	drawn := 0.0
	for drawn < h {
		avail := bottom - y
		if avail <= 0 {
			doc.AddPage()
			y = pageMarginMM
			avail = bottom - y
		}
		slice := h - drawn
		if slice > avail {
			slice = avail
		}
		doc.ClipRect(x, y, w, slice, false)
		doc.ImageOptions(name, x, y-drawn, w, h, false, pngOptions(), 0, "")
		doc.ClipEnd()
		drawn += slice
		y += slice
		if drawn < h {
			doc.AddPage()
			y = pageMarginMM
		}
	}
	return y, doc.Error()
}

func hasTable(images []placedImage) bool {
	for _, img := range images {
		if img.ok && img.isTable {
			return true
		}
	}
	return false
}

func registerImage(doc *fpdf.Fpdf, img *placedImage) string {
	name := "widget-" + img.widget.ID
	doc.RegisterImageOptionsReader(name, pngOptions(), bytes.NewReader(img.image.PNG))
	return name
}

func pngOptions() fpdf.ImageOptions {
	return fpdf.ImageOptions{ImageType: "PNG"}
}
