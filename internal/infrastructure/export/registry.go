package export

import (
	"errors"

	"github.com/gemline/backoffice/internal/domain/report"
	"github.com/gemline/backoffice/internal/domain/shared"
)

var errNilTable = errors.New("report table is nil")

// ErrFormatUnavailable is returned for a format without a configured renderer
var ErrFormatUnavailable = shared.NewDomainError("FORMAT_UNAVAILABLE", "This export format is not available")

// Registry looks renderers up by format
type Registry struct {
	renderers map[report.Format]report.Renderer
}

// NewRegistry registers the given renderers, later ones replacing earlier ones
func NewRegistry(renderers ...report.Renderer) *Registry {
	r := &Registry{renderers: make(map[report.Format]report.Renderer, len(renderers))}
	for _, rd := range renderers {
		if rd != nil {
			r.renderers[rd.Format()] = rd
		}
	}
	return r
}

// Default wires CSV, XLSX and, when a converter is given, PDF
func Default(converter HTMLConverter) *Registry {
	renderers := []report.Renderer{NewCSVRenderer(), NewXLSXRenderer()}
	if converter != nil {
		renderers = append(renderers, NewPDFRenderer(converter))
	}
	return NewRegistry(renderers...)
}

// Renderer returns the renderer for a format
func (r *Registry) Renderer(f report.Format) (report.Renderer, error) {
	rd, ok := r.renderers[f]
	if !ok {
		return nil, ErrFormatUnavailable
	}
	return rd, nil
}
