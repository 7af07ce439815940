package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/gemline/backoffice/internal/domain/report"
)

// wideTable switches to landscape paper
const wideTable = 7

// PDFRenderer lays the table out as HTML and prints it with an HTMLConverter
type PDFRenderer struct {
	converter HTMLConverter
	layout    *template.Template
}

// NewPDFRenderer creates a PDF renderer on top of a converter
func NewPDFRenderer(converter HTMLConverter) *PDFRenderer {
	return &PDFRenderer{converter: converter, layout: parseLayout()}
}

func (r *PDFRenderer) Format() report.Format { return report.FormatPDF }

// Render prints the table
func (r *PDFRenderer) Render(ctx context.Context, t *report.Table) ([]byte, error) {
	if t == nil {
		return nil, errNilTable
	}
	html, err := r.HTML(t)
	if err != nil {
		return nil, err
	}

	opts := A4()
	opts.Landscape = len(t.Columns) >= wideTable
	opts.FooterHTML = footerTemplate
	return r.converter.ConvertHTML(ctx, html, opts)
}

// HTML renders the intermediate document
func (r *PDFRenderer) HTML(t *report.Table) (string, error) {
	var buf bytes.Buffer
	if err := r.layout.Execute(&buf, t); err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}
