package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Briefing holds the structured fields extracted from the model's
// six-line response.
type Briefing struct {
	Title         string
	Summary       string
	SummaryLength int
	ThreatLevel   string
	KeyTerms      []string
}

// ParseError reports a response that does not follow the expected
// six-line format. Raw carries the offending model output so the
// failure can be diagnosed without re-running the model.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse model response: %s", e.Reason)
}

var (
	reSummaryLength = regexp.MustCompile(`(?i)summary length:\s*(\d+)`)
	reThreatLevel   = regexp.MustCompile(`(?i)threat level:\s*([^\s\]]+)`)
)

// Parse extracts the briefing fields from the model's raw response.
//
// The expected shape is six non-empty lines, in order: bracketed title,
// bracketed summary, original-length line (ignored), summary-length line,
// threat-level line, bracketed comma-separated key terms. The layout is
// strictly positional; anything structurally off returns a *ParseError.
func Parse(raw string) (*Briefing, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if len(lines) < 6 {
		return nil, &ParseError{
			Reason: fmt.Sprintf("expected 6 lines, got %d", len(lines)),
			Raw:    raw,
		}
	}

	title := unwrap(lines[0])
	if title == "" {
		return nil, &ParseError{Reason: "empty title line", Raw: raw}
	}

	summary := unwrap(lines[1])
	if summary == "" {
		return nil, &ParseError{Reason: "empty summary line", Raw: raw}
	}

	// lines[2] is the original-length line; the transcript word count is
	// recomputed from the transcript itself, so the model's figure is ignored.

	m := reSummaryLength.FindStringSubmatch(lines[3])
	if m == nil {
		return nil, &ParseError{Reason: "summary length line missing label or count", Raw: raw}
	}
	summaryLength, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("summary length %q is not a number", m[1]), Raw: raw}
	}

	m = reThreatLevel.FindStringSubmatch(lines[4])
	if m == nil {
		return nil, &ParseError{Reason: "threat level line missing label or value", Raw: raw}
	}
	threat := m[1]
	if threat < "1" || threat > "5" || len(threat) != 1 {
		return nil, &ParseError{Reason: fmt.Sprintf("threat level %q outside 1-5", threat), Raw: raw}
	}

	var terms []string
	for _, term := range strings.Split(unwrap(lines[5]), ",") {
		if t := strings.TrimSpace(term); t != "" {
			terms = append(terms, t)
		}
	}
	if len(terms) == 0 {
		return nil, &ParseError{Reason: "empty key terms line", Raw: raw}
	}

	return &Briefing{
		Title:         title,
		Summary:       summary,
		SummaryLength: summaryLength,
		ThreatLevel:   threat,
		KeyTerms:      terms,
	}, nil
}

// unwrap strips one enclosing bracket pair, tolerating responses where
// the model drops the delimiters.
func unwrap(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		line = line[1 : len(line)-1]
	}
	return strings.TrimSpace(line)
}

// WordCount returns the number of whitespace-separated words in s.
// Content and summary lengths are persisted with records, not recomputed
// on read.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
