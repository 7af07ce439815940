package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/gemline/backoffice/internal/domain/report"
)

// utf8BOM makes spreadsheet applications detect the encoding of the CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVRenderer writes the header, the rows and the totals line
type CSVRenderer struct {
	// WithBOM prefixes the output with a UTF-8 byte order mark
	WithBOM bool
}

// NewCSVRenderer creates a CSV renderer
func NewCSVRenderer() *CSVRenderer {
	return &CSVRenderer{WithBOM: true}
}

func (r *CSVRenderer) Format() report.Format { return report.FormatCSV }

// Render encodes the table
func (r *CSVRenderer) Render(_ context.Context, t *report.Table) ([]byte, error) {
	if t == nil {
		return nil, errNilTable
	}
	var buf bytes.Buffer
	if r.WithBOM {
		buf.Write(utf8BOM)
	}

	w := csv.NewWriter(&buf)
	header := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Header
	}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	if len(t.Totals) > 0 && len(t.Rows) > 0 {
		if err := w.Write(t.Totals); err != nil {
			return nil, fmt.Errorf("write csv totals: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
