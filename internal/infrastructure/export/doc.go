// Package export encodes report tables as CSV, XLSX and PDF files.
//
// CSV uses encoding/csv, XLSX is streamed through excelize and PDF is an
// html/template page printed by a headless Chrome over the DevTools protocol.
package export
