package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// isWebURL checks if the input string is an HTTP/HTTPS URL.
func isWebURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

// scanWebURL fetches a page, extracts its readable text as Markdown, and
// tallies that text into the result as one logical file. When maxDepth > 0
// it follows links recursively, tracking visited URLs to avoid loops. The
// returned count is the tokens of every page processed, when tk is non-nil.
//
// Fetch and conversion failures are warnings, not errors: a dead link should
// not abort a traversal.
func scanWebURL(startURL string, currentDepth, maxDepth int, visited map[string]bool, result *ScanResult, tk Tokenizer) (int64, error) {
	parsedURL, err := url.Parse(startURL)
	if err != nil {
		return 0, fmt.Errorf("invalid start URL %s: %w", startURL, err)
	}
	parsedURL.Fragment = "" // fragments would make the same page look new
	cleanURL := parsedURL.String()

	if currentDepth > maxDepth || visited[cleanURL] {
		return 0, nil
	}
	visited[cleanURL] = true
	fmt.Printf("Processing web URL (Depth %d): %s\n", currentDepth, cleanURL)

	res, err := http.Get(cleanURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch URL %s: %v\n", cleanURL, err)
		return 0, nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "Warning: failed to fetch URL %s: status code %d\n", cleanURL, res.StatusCode)
		return 0, nil
	}

	contentType := res.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		fmt.Printf("Skipping non-HTML content type (%s) for URL: %s\n", contentType, cleanURL)
		return 0, nil
	}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read response body from %s: %v\n", cleanURL, err)
		return 0, nil
	}

	var totalTokens int64
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(string(bodyBytes))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to convert HTML to Markdown for %s: %v\n", cleanURL, err)
	} else {
		result.Tally.MergeText(markdown)
		result.Processed = append(result.Processed, cleanURL)
		if tk != nil {
			totalTokens += int64(tk.CountTokens(markdown))
		}
	}

	if currentDepth < maxDepth {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(bodyBytes)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse HTML for link extraction from %s: %v\n", cleanURL, err)
			return totalTokens, nil
		}
		doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
			link, exists := s.Attr("href")
			if !exists || link == "" || strings.HasPrefix(link, "#") ||
				strings.HasPrefix(strings.ToLower(link), "mailto:") ||
				strings.HasPrefix(strings.ToLower(link), "javascript:") {
				return
			}

			resolvedURL, err := parsedURL.Parse(link)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not resolve relative link '%s' on page %s: %v\n", link, cleanURL, err)
				return
			}
			if resolvedURL.Scheme != "http" && resolvedURL.Scheme != "https" {
				return
			}

			// Errors from linked pages are swallowed so one bad link does
			// not stop the rest of the traversal.
			tokens, _ := scanWebURL(resolvedURL.String(), currentDepth+1, maxDepth, visited, result, tk)
			totalTokens += tokens
		})
	}

	return totalTokens, nil
}
