package export

import (
	"context"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheetName = "Sheet1"
	minColumnWidth   = 8
	maxColumnWidth   = 48
	// rows before the header: title, subtitle, blank
	headerRow = 4
)

// XLSXRenderer streams the table into a single worksheet with a bold title,
// a frozen header row and numeric cells for right-aligned columns
type XLSXRenderer struct{}

// NewXLSXRenderer creates an XLSX renderer
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Format() report.Format { return report.FormatXLSX }

// Render encodes the table
func (r *XLSXRenderer) Render(_ context.Context, t *report.Table) ([]byte, error) {
	if t == nil {
		return nil, errNilTable
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName(defaultSheetName, sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("open stream writer: %w", err)
	}

	// widths and panes must be set before the first row is streamed
	for i, w := range columnWidths(t) {
		if err := sw.SetColWidth(i+1, i+1, w); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: cellName(1, headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	if err := sw.SetRow(cellName(1, 1), []interface{}{excelize.Cell{StyleID: styles.title, Value: t.Title}}); err != nil {
		return nil, fmt.Errorf("write title: %w", err)
	}
	subtitle := t.Subtitle
	if !t.GeneratedAt.IsZero() {
		subtitle += " (generated " + t.GeneratedAt.Format("2006-01-02 15:04") + ")"
	}
	if err := sw.SetRow(cellName(1, 2), []interface{}{subtitle}); err != nil {
		return nil, fmt.Errorf("write subtitle: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = excelize.Cell{StyleID: styles.header, Value: c.Header}
	}
	if err := sw.SetRow(cellName(1, headerRow), header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := headerRow + 1
	for _, values := range t.Rows {
		if err := sw.SetRow(cellName(1, row), cells(t.Columns, values, 0)); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}
	if len(t.Totals) > 0 && len(t.Rows) > 0 {
		if err := sw.SetRow(cellName(1, row), cells(t.Columns, t.Totals, styles.total)); err != nil {
			return nil, fmt.Errorf("write totals: %w", err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("flush sheet: %w", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	title  int
	header int
	total  int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, fmt.Errorf("title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"44546A"}},
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return s, fmt.Errorf("total style: %w", err)
	}
	return s, nil
}

// cells converts right-aligned values to numbers so spreadsheets can sum them
func cells(cols []report.Column, values []string, styleID int) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		var value interface{} = v
		if i < len(cols) && cols[i].Align == report.AlignRight {
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				value = n
			}
		}
		if styleID != 0 {
			out[i] = excelize.Cell{StyleID: styleID, Value: value}
		} else {
			out[i] = value
		}
	}
	return out
}

func columnWidths(t *report.Table) []float64 {
	widths := make([]float64, len(t.Columns))
	measure := func(i int, s string) {
		if i >= len(widths) {
			return
		}
		if w := float64(utf8.RuneCountInString(s) + 2); w > widths[i] {
			widths[i] = w
		}
	}
	for i, c := range t.Columns {
		measure(i, c.Header)
	}
	for _, r := range t.Rows {
		for i, v := range r {
			measure(i, v)
		}
	}
	for i, w := range widths {
		widths[i] = min(max(w, minColumnWidth), maxColumnWidth)
	}
	return widths
}

// sheetName trims the title to the 31 characters Excel allows
func sheetName(title string) string {
	if title == "" {
		return defaultSheetName
	}
	r := []rune(title)
	if len(r) > excelize.MaxSheetNameLength {
		r = r[:excelize.MaxSheetNameLength]
	}
	return string(r)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
