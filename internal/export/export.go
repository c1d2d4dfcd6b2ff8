// Package export serializes a filtered expense list to CSV, JSON or PDF.
// Pure formatting: filtering happens upstream in the report package.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"spendlog/internal/core"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = fmt.Errorf("unknown export format")

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Extension() string {
	return string(f)
}

// Write serializes the expenses in the given format.
func Write(w io.Writer, format Format, expenses []core.Expense) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, expenses)
	case FormatJSON:
		return writeJSON(w, expenses)
	case FormatPDF:
		return writePDF(w, expenses)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

var columns = []string{"Date", "Category", "Amount", "Description"}

func writeCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{e.Date, string(e.Category), e.Amount.String(), e.Description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(expenses); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writePDF(w io.Writer, expenses []core.Expense) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expenses", false)
	pdf.AddPage()

	widths := []float64{55, 35, 25, 75}
	lineHeight := 7.0

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range columns {
		pdf.CellFormat(widths[i], lineHeight, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	fill := false
	for _, e := range expenses {
		pdf.SetFillColor(245, 245, 245)
		row := []string{e.Date, string(e.Category), e.Amount.String(), e.Description}
		for i, cell := range row {
			pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
