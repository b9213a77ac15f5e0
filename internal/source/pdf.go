package source

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts the text of a printed SMS inbox and splits it back into
// individual notifications.
func readPDF(path string) ([]string, error) {
	pages, err := extractPDFText(path)
	if err != nil {
		return nil, err
	}
	return SplitMessages(strings.Join(pages, "\n")), nil
}

// extractPDFText uses the ledongthuc/pdf library, row by row first and the
// whole-document plain text as a fallback.
func extractPDFText(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%s: PDF has no pages", path)
	}

	pages = extractByRow(r, numPages)
	if totalTextLen(pages) > 0 {
		return pages, nil
	}

	plain, err := extractPlainText(r)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return []string{plain}, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractPlainText(r *pdf.Reader) (string, error) {
	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// messageStart marks where a notification begins in continuous text:
// a confirmation code followed by "Confirmed", or a "Failed." notice.
var messageStart = regexp.MustCompile(`\b[A-Z0-9]{8,12} (?i:confirmed)\b|\bFailed\.`)

// SplitMessages cuts continuous inbox text into notifications. Line breaks
// inside a notification are kept as spaces. Text before the first marker is
// returned as its own message.
func SplitMessages(text string) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	starts := messageStart.FindAllStringIndex(text, -1)
	var cuts []int
	for _, loc := range starts {
		if loc[0] > 0 {
			cuts = append(cuts, loc[0])
		}
	}

	var out []string
	prev := 0
	for _, c := range cuts {
		if msg := strings.TrimSpace(text[prev:c]); msg != "" {
			out = append(out, msg)
		}
		prev = c
	}
	if msg := strings.TrimSpace(text[prev:]); msg != "" {
		out = append(out, msg)
	}
	return out
}
