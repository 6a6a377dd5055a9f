package main

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
)

// countCorpusTokens re-reads every successfully scanned file and totals its
// tokens. The character scan stays sequential; this pass can fan out because
// the aggregation is a single commutative sum.
func countCorpusTokens(tk Tokenizer, paths []string, workers int) int64 {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	fmt.Printf("Using %d worker(s) for token counting.\n", workers)

	jobs := make(chan string, len(paths))
	var total int64
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				content, err := os.ReadFile(path)
				if err != nil {
					// The file was readable moments ago during the scan;
					// losing it now only costs its token count.
					fmt.Fprintf(os.Stderr, "Warning: could not re-read %s for token counting: %v\n", path, err)
					continue
				}
				atomic.AddInt64(&total, int64(tk.CountTokens(string(content))))
			}
		}()
	}

	for _, p := range paths {
		// Web pages were tokenized inline at fetch time; there is nothing
		// on disk to re-read for them.
		if isWebURL(p) {
			continue
		}
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	return atomic.LoadInt64(&total)
}
