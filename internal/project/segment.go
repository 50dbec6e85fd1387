package project

import (
	"fmt"
	"strings"
	"unicode"
)

// Mode selects how a text is split into segments.
type Mode string

const (
	ModeSentence  Mode = "sentence"
	ModeLine      Mode = "line"
	ModeParagraph Mode = "paragraph"
)

// ParseMode converts a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSentence, ModeLine, ModeParagraph:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown segmenter %q", s)
}

// Segment is one annotatable unit of a text. Start and End are byte offsets
// into the original text; Text is trimmed.
type Segment struct {
	Index int
	Start int
	End   int
	Text  string
}

// Split divides text into non-blank segments.
func Split(text string, mode Mode) []Segment {
	var spans [][2]int
	switch mode {
	case ModeLine:
		spans = splitLines(text)
	case ModeParagraph:
		spans = splitParagraphs(text)
	default:
		spans = splitSentences(text)
	}
	out := make([]Segment, 0, len(spans))
	for _, sp := range spans {
		raw := text[sp[0]:sp[1]]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		lead := strings.Index(raw, trimmed)
		out = append(out, Segment{
			Index: len(out),
			Start: sp[0] + lead,
			End:   sp[0] + lead + len(trimmed),
			Text:  strings.Join(strings.Fields(trimmed), " "),
		})
	}
	return out
}

func splitLines(text string) [][2]int {
	var spans [][2]int
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			spans = append(spans, [2]int{start, i})
			start = i + 1
		}
	}
	return append(spans, [2]int{start, len(text)})
}

func splitParagraphs(text string) [][2]int {
	var spans [][2]int
	start := 0
	lines := splitLines(text)
	for i, ln := range lines {
		if strings.TrimSpace(text[ln[0]:ln[1]]) == "" {
			spans = append(spans, [2]int{start, ln[0]})
			start = ln[1]
			if i < len(lines)-1 {
				start = lines[i+1][0]
			}
		}
	}
	return append(spans, [2]int{start, len(text)})
}

// splitSentences ends a sentence at . ! or ? followed by whitespace or end of
// text, and at blank lines.
func splitSentences(text string) [][2]int {
	var spans [][2]int
	for _, para := range splitParagraphs(text) {
		start := para[0]
		body := text[para[0]:para[1]]
		for i, r := range body {
			if r != '.' && r != '!' && r != '?' {
				continue
			}
			next := i + 1
			if next < len(body) && !unicode.IsSpace(rune(body[next])) {
				continue
			}
			spans = append(spans, [2]int{start, para[0] + next})
			start = para[0] + next
		}
		spans = append(spans, [2]int{start, para[1]})
	}
	return spans
}
