package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // margin in mm
	pdfLineHeight = 6   // line height in mm
	pdfFontSize   = 10
)

// writePDF renders the frequency table and scan summary as a PDF document.
func writePDF(rows []FreqRow, result *ScanResult, totalTokens int64, withTokens bool, outputPath string) error {
	fmt.Printf("Generating PDF output at: %s\n", outputPath)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfFontSize+4)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "Character frequencies", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Courier", "B", pdfFontSize)
	pdf.CellFormat(30, pdfLineHeight, "Char", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, pdfLineHeight, "Count", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, pdfLineHeight, "Percentage", "B", 1, "R", false, 0, "")

	// Core fonts only cover cp1252, so anything past Latin-1 gets its
	// \uXXXX escape and the rest goes through the codepage translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Courier", "", pdfFontSize)
	for _, row := range rows {
		pdf.CellFormat(30, pdfLineHeight, tr(pdfCharLabel(row.Display)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, pdfLineHeight, strconv.Itoa(row.Count), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, pdfLineHeight, fmt.Sprintf("%.2f%%", row.Percentage), "", 1, "R", false, 0, "")
	}

	pdf.Ln(pdfLineHeight)
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "--- Summary ---", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Helvetica", "", pdfFontSize)
	summaryString := fmt.Sprintf("Files processed: %d\nTotal characters: %d", result.FileCount(), result.Tally.Total())
	if withTokens {
		summaryString += fmt.Sprintf("\nTotal tokens: %d", totalTokens)
	}
	if len(result.Errors) > 0 {
		summaryString += fmt.Sprintf("\nFiles with errors: %d", len(result.Errors))
	}
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, summaryString, "", "L", false)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	fmt.Printf("Successfully saved PDF to %s\n", outputPath)
	return nil
}

// pdfCharLabel rewrites characters outside Latin-1 as their \uXXXX escape,
// since the PDF core fonts cannot encode them.
func pdfCharLabel(display string) string {
	var b strings.Builder
	for _, r := range display {
		if r > 0xFF {
			fmt.Fprintf(&b, `\u%04X`, r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
