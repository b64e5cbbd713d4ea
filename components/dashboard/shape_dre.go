package dashboard

import "math"

// DRERow is one rendered row of a DRE financial statement.
type DRERow struct {
	Key     string
	Label   string
	RowType DRERowType
	// Value is the effective value: the raw value, negated for deductions.
	Value         float64
	Display       string
	PercentOfBase float64
	PercentLabel  string
	// Parenthesized marks deduction rows, rendered as "(R$ 30,00)" in a
	// distinguishing color.
	Parenthesized bool
}

// DREData is the shaped financial statement table.
type DREData struct {
	Rows []DRERow
	// Base is the divisor of the percent-of-base column.
	Base float64
}

// shapeDRE renders configured DRE rows against the row set. Row values are
// matched by the configured key against the row's "key" column (falling back
// to positional order). The percent-of-base divisor is the configured base
// row's absolute effective value; when no valid base is configured it falls
// back to the sum of absolute effective values of all result rows, and to 1
// when that sum is zero.
func shapeDRE(cfg *WidgetConfig, rows RowSet) *DREData {
	values := dreValuesByKey(cfg, rows)

	shaped := make([]DRERow, 0, len(cfg.DRERows))
	resultSum := 0.0
	for _, rowCfg := range cfg.DRERows {
		value := values[rowCfg.Key]
		if rowCfg.RowType == DRERowDeduction {
			value = -value
		}
		if rowCfg.RowType == DRERowResult {
			resultSum += math.Abs(value)
		}
		shaped = append(shaped, DRERow{
			Key:           rowCfg.Key,
			Label:         rowCfg.Label,
			RowType:       rowCfg.RowType,
			Value:         value,
			Parenthesized: rowCfg.RowType == DRERowDeduction,
		})
	}

	base := 0.0
	if cfg.DREBaseRow != "" {
		for _, row := range shaped {
			if row.Key == cfg.DREBaseRow {
				base = math.Abs(row.Value)
				break
			}
		}
	}
	if base == 0 {
		base = resultSum
	}
	if base == 0 {
		base = 1
	}

	for i := range shaped {
		row := &shaped[i]
		row.PercentOfBase = math.Abs(row.Value) / base * 100
		row.PercentLabel = FormatPercent(row.PercentOfBase)
		display := FormatBRL(math.Abs(row.Value))
		if row.Parenthesized {
			display = "(" + display + ")"
		}
		row.Display = display
	}
	return &DREData{Rows: shaped, Base: base}
}

// dreValuesByKey indexes m0 values by the row's key column; rows without a
// key column are matched positionally against the configured rows.
func dreValuesByKey(cfg *WidgetConfig, rows RowSet) map[string]float64 {
	values := make(map[string]float64, len(rows.Rows))
	for i, row := range rows.Rows {
		key := stringify(row["key"])
		if key == "" && i < len(cfg.DRERows) {
			key = cfg.DRERows[i].Key
		}
		if key == "" {
			continue
		}
		values[key] = ToFiniteNumber(row[metricKey0])
	}
	return values
}
