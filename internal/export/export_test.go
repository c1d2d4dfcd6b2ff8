package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"spendlog/internal/core"
)

func sample() []core.Expense {
	return []core.Expense{
		{ID: "a", Date: "2025-01-10T00:00:00.000Z", Amount: core.Money{Cents: 5000}, Category: core.Food, Description: "Groceries"},
		{ID: "b", Date: "2025-02-05T00:00:00.000Z", Amount: core.Money{Cents: 1234}, Category: core.Bills, Description: `Water, "cold"`},
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"csv", "CSV", " json ", "pdf"} {
		if _, err := ParseFormat(s); err != nil {
			t.Fatalf("%q should parse: %v", s, err)
		}
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Date,Category,Amount,Description" {
		t.Fatalf("header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "50.00") || !strings.Contains(lines[1], "Food") {
		t.Fatalf("row 1: %s", lines[1])
	}
	// Commas and quotes in descriptions must be quoted, not broken.
	if !strings.Contains(lines[2], `"Water, ""cold"""`) {
		t.Fatalf("row 2 not quoted: %s", lines[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Date,Category,Amount,Description" {
		t.Fatalf("empty export should be header only: %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Indented, decodable, wire shape intact.
	if !strings.Contains(buf.String(), "\n  {") {
		t.Fatalf("expected two-space indentation:\n%s", buf.String())
	}
	var back []core.Expense
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(back) != 2 || back[1].Amount.Cents != 1234 {
		t.Fatalf("round trip: %+v", back)
	}

	buf.Reset()
	if err := Write(&buf, FormatJSON, nil); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("empty export should be []: %q", buf.String())
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatPDF, sample()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func TestContentTypes(t *testing.T) {
	cases := map[Format]string{
		FormatCSV:  "text/csv; charset=utf-8",
		FormatJSON: "application/json; charset=utf-8",
		FormatPDF:  "application/pdf",
	}
	for f, want := range cases {
		if got := f.ContentType(); got != want {
			t.Fatalf("%s: want %s, got %s", f, want, got)
		}
	}
}
