package main

// CharTally maps a character (Unicode code point) to its total occurrence
// count across all scanned files. Counts are only ever merged in; nothing
// decrements them.
type CharTally map[rune]int

// Merge adds the counts from other into t.
func (t CharTally) Merge(other CharTally) {
	for r, n := range other {
		t[r] += n
	}
}

// MergeText counts every character of content into t.
func (t CharTally) MergeText(content string) {
	for _, r := range content {
		t[r]++
	}
}

// Total returns the sum of all counts in the tally.
func (t CharTally) Total() int {
	var total int
	for _, n := range t {
		total += n
	}
	return total
}

// FileError records a file that was discovered but could not be read.
type FileError struct {
	Path string
	Err  error
}

// ScanResult is the aggregate output of one scan: the character tally, the
// paths that were successfully merged into it, and the files that failed to
// read. Both lists are in discovery order. The file count is derived from
// Processed, so it cannot drift from the tally merges.
type ScanResult struct {
	Tally     CharTally
	Processed []string
	Errors    []FileError
}

func NewScanResult() *ScanResult {
	return &ScanResult{Tally: make(CharTally)}
}

// FileCount returns the number of files whose characters were merged into
// the tally.
func (r *ScanResult) FileCount() int {
	return len(r.Processed)
}
