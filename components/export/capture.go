package export

import (
	"context"

	"github.com/goliatone/go-insights/components/dashboard"
)

// WidgetImage is a rasterized widget: encoded PNG bytes plus the pixel
// dimensions used to preserve aspect ratio during layout.
type WidgetImage struct {
	PNG    []byte
	Width  int
	Height int
}

// Rasterizer captures a rendered widget as a PNG. Implementations typically
// drive a headless browser against the dashboard's HTML; tests use a stub.
type Rasterizer interface {
	CaptureWidget(ctx context.Context, widget dashboard.DashboardWidget) (WidgetImage, error)
}
