// Package export turns rendered dashboards into shareable artifacts: an A4
// landscape PDF built from rasterized widget images, and CSV blobs for table
// widgets.
package export

// PackRows packs widget widths into rows without exceeding the section's
// column count. Widgets flow left to right; a widget that would overflow the
// current row flushes it, and a widget that exactly fills the row flushes as
// well. Widths are clamped to [1, columns]. The result groups widget indices
// by row.
func PackRows(columns int, widths []int) [][]int {
	if columns < 1 {
		columns = 1
	}
	var (
		rows    [][]int
		current []int
		used    int
	)
	flush := func() {
		if len(current) > 0 {
			rows = append(rows, current)
			current = nil
			used = 0
		}
	}
	for i, width := range widths {
		if width < 1 {
			width = 1
		}
		if width > columns {
			width = columns
		}
		if used+width > columns {
			flush()
		}
		current = append(current, i)
		used += width
		if used == columns {
			flush()
		}
	}
	flush()
	return rows
}
