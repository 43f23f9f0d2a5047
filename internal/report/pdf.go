// Package report renders a case and its analysis results as a PDF.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"evidenceapi/internal/model"
)

const font = "Helvetica"

// WriteCasePDF writes an A4 report for c to w.
func WriteCasePDF(w io.Writer, c *model.Case, generatedAt time.Time) error {
	if c == nil {
		return fmt.Errorf("case is nil")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("Evidence Report - "+c.Name, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(flatten(s)) }

	pdf.AddPage()
	pdf.SetFont(font, "B", 16)
	pdf.CellFormat(0, 9, text("Evidence Report: "+c.Name), "", 1, "L", false, 0, "")
	pdf.SetFont(font, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, "Generated at: "+generatedAt.Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	sectionTitle(pdf, "1. Case")
	kv(pdf, text, "Case ID", c.ID)
	kv(pdf, text, "Name", c.Name)
	kv(pdf, text, "Storage", c.StorageLabel)
	kv(pdf, text, "Created At", c.CreatedAt.Format("2006-01-02 15:04:05"))
	kv(pdf, text, "Evidence", fmt.Sprintf("%d file(s)", len(c.Evidence)))
	pdf.Ln(2)

	sectionTitle(pdf, "2. Evidence")
	if len(c.Evidence) == 0 {
		empty(pdf)
	} else {
		widths := []float64{70, 45, 25, 42}
		header := []string{"Name", "Type", "Size (MB)", "Status"}
		pdf.SetFont(font, "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for i, h := range header {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(font, "", 9)
		for _, ev := range c.Evidence {
			row := []string{
				truncate(ev.Name, 40),
				truncate(ev.Type, 26),
				fmt.Sprintf("%.2f", ev.SizeMB()),
				string(ev.Status),
			}
			for i, v := range row {
				pdf.CellFormat(widths[i], 6, text(v), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
	pdf.Ln(3)

	sectionTitle(pdf, "3. Analysis Results")
	n := 0
	for _, ev := range c.Evidence {
		if ev.Status != model.StatusCompleted || ev.AnalysisResult == nil {
			continue
		}
		n++
		r := ev.AnalysisResult
		pdf.SetFont(font, "B", 11)
		pdf.SetTextColor(20, 20, 20)
		pdf.MultiCell(0, 6, text(ev.Name), "", "L", false)
		pdf.SetFont(font, "", 9)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 4.5, text("Summary: "+r.Summary), "", "L", false)
		for _, o := range r.Objects {
			line := fmt.Sprintf("- object: %s (%.0f%%)", o.Name, o.Confidence*100)
			if o.Timestamp != "" {
				line += " at " + o.Timestamp
			}
			pdf.MultiCell(0, 4.5, text(line), "", "L", false)
		}
		for _, e := range r.Entities {
			line := fmt.Sprintf("- %s: %s (%.0f%%)", strings.ToLower(e.Type), e.Value, e.Confidence*100)
			if e.Location != "" {
				line += ", " + e.Location
			}
			pdf.MultiCell(0, 4.5, text(line), "", "L", false)
		}
		pdf.Ln(2)
	}
	if n == 0 {
		empty(pdf)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont(font, "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, text func(string) string, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont(font, "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(32, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(font, "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, text(value), "", "L", false)
}

func empty(pdf *gofpdf.Fpdf) {
	pdf.SetFont(font, "", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 5, "(none)", "", "L", false)
}

func flatten(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
