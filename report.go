package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// csvFileName is the snapshot written into the current working directory by
// --save-csv, overwritten on each run.
const csvFileName = "char_freqs.csv"

// ReportOptions control which tally entries end up in the report.
type ReportOptions struct {
	TopN           int
	ShowSpaces     bool
	ExcludeLetters bool
}

// FreqRow is one displayed (and optionally saved) frequency table row.
type FreqRow struct {
	Display    string
	Count      int
	Percentage float64
}

// buildRows flattens the tally into table rows: count-descending order with
// ties broken by code point, filtered per the options, capped at TopN.
// Percentages are relative to totalChars, i.e. every counted character,
// including ones the filters hide.
func buildRows(tally CharTally, totalChars int, opts ReportOptions) []FreqRow {
	type entry struct {
		r rune
		n int
	}
	entries := make([]entry, 0, len(tally))
	for r, n := range tally {
		entries = append(entries, entry{r, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].n != entries[j].n {
			return entries[i].n > entries[j].n
		}
		return entries[i].r < entries[j].r
	})

	var rows []FreqRow
	for _, e := range entries {
		if opts.ExcludeLetters && unicode.IsLetter(e.r) {
			continue
		}
		if unicode.IsSpace(e.r) && !opts.ShowSpaces {
			continue
		}
		rows = append(rows, FreqRow{
			Display:    displayChar(e.r),
			Count:      e.n,
			Percentage: float64(e.n) / float64(totalChars) * 100,
		})
		if len(rows) >= opts.TopN {
			break
		}
	}
	return rows
}

// displayChar renders a character for the report. Whitespace is escaped so
// the table stays one line per row: a space reads as a quoted space and
// control whitespace as its backslash escape.
func displayChar(r rune) string {
	if !unicode.IsSpace(r) {
		return string(r)
	}
	switch r {
	case ' ':
		return "' '"
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\v':
		return `\v`
	case '\f':
		return `\f`
	default:
		return fmt.Sprintf(`\u%04X`, r)
	}
}

// formatReport assembles the console report: summary header, frequency
// table, and the per-file error list.
func formatReport(result *ScanResult, rows []FreqRow, totalTokens int64, withTokens bool) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	p.Fprintf(&b, "\nProcessed %d files\n", result.FileCount())
	p.Fprintf(&b, "Total characters: %d\n", result.Tally.Total())
	if withTokens {
		p.Fprintf(&b, "Total tokens: %d\n", totalTokens)
	}

	b.WriteString("\nTop character frequencies:\n")
	b.WriteString("Char | Count | Percentage\n")
	b.WriteString(strings.Repeat("-", 30))
	b.WriteString("\n")
	for _, row := range rows {
		p.Fprintf(&b, "%-4s | %7d | %6.2f%%\n", row.Display, row.Count, row.Percentage)
	}

	if len(result.Errors) > 0 {
		b.WriteString("\nFiles with errors:\n")
		for _, fe := range result.Errors {
			fmt.Fprintf(&b, "- %s: %v\n", fe.Path, fe.Err)
		}
	}
	return b.String()
}

// writeCSV writes the rows to char_freqs.csv in the current working
// directory and returns the path written.
func writeCSV(rows []FreqRow) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cwd, csvFileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating CSV file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Character", "Count", "Percentage"}); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.Display,
			strconv.Itoa(row.Count),
			strconv.FormatFloat(row.Percentage, 'f', 2, 64),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing CSV file %s: %w", path, err)
	}
	return path, nil
}
