package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-insights/components/dashboard"
)

func TestWriteCSVQuotesSpecialFields(t *testing.T) {
	data := &dashboard.TableData{
		Columns: []dashboard.TableColumnConfig{
			{Name: "nome", Label: "Nome", Format: dashboard.FormatText},
			{Name: "obs", Label: "Observação", Format: dashboard.FormatText},
		},
		Rows: []map[string]any{
			{"nome": "ACME, Ltda", "obs": `disse "ok"`},
			{"nome": "linha\nquebrada", "obs": "simples"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, data, dashboard.TableState{}))
	out := buf.String()

	assert.Contains(t, out, `"ACME, Ltda"`)
	assert.Contains(t, out, `"disse ""ok"""`)
	assert.Contains(t, out, "\"linha\nquebrada\"")
	assert.Contains(t, out, "Nome,Observação\n")
}

func TestWriteCSVIgnoresPagination(t *testing.T) {
	rows := make([]map[string]any, 25)
	for i := range rows {
		rows[i] = map[string]any{"n": i}
	}
	data := &dashboard.TableData{
		Columns:  []dashboard.TableColumnConfig{{Name: "n", Label: "N", Format: dashboard.FormatInteger}},
		Rows:     rows,
		PageSize: 10,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, data, dashboard.TableState{}))
	assert.Equal(t, 26, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCSVFileName(t *testing.T) {
	assert.Equal(t, "vendas-por-regiao.csv", CSVFileName("Vendas por Regiao"))
	assert.Equal(t, "table.csv", CSVFileName(""))
}
