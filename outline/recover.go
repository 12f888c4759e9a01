package outline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoSlideMarker means the completion contains no recognizable slide
// marker anywhere; the raw text should be handed back to the user for
// manual inspection.
var ErrNoSlideMarker = errors.New("no **Slide:** marker found in model output")

// anchorRe matches the slide marker leniently: casing and spacing inside
// the bold markup vary between model runs.
var anchorRe = regexp.MustCompile(`(?i)\*\*\s*slide\s*:\s*\*\*`)

// Health-signal thresholds for a complete deck outline.
const (
	minTitleMarkers = 3
	minDelimiters   = 2
)

// Recover locates the outline inside a raw completion. The completion may
// carry leading prose, trailing remarks or code fences; everything before
// the anchor (or the delimiter line preceding it) is discarded, nothing
// after it is touched beyond outer trimming. Structural shortfalls are
// warnings, not failures.
func Recover(raw string) (Document, []Warning, error) {
	loc := anchorRe.FindStringIndex(raw)
	if loc == nil {
		return "", nil, ErrNoSlideMarker
	}

	start := loc[0]
	if delim := lastDelimiterLine(raw, start); delim >= 0 {
		start = delim
	}

	doc := strings.TrimSpace(raw[start:])

	var warnings []Warning
	if n := strings.Count(doc, "**Title:**"); n < minTitleMarkers {
		warnings = append(warnings, Warning{
			Kind:    WarnStructure,
			Message: fmt.Sprintf("outline looks incomplete: %d title marker(s), expected at least %d", n, minTitleMarkers),
		})
	}
	if n := strings.Count(doc, "---"); n < minDelimiters {
		warnings = append(warnings, Warning{
			Kind:    WarnStructure,
			Message: fmt.Sprintf("outline looks incomplete: %d slide delimiter(s), expected at least %d", n, minDelimiters),
		})
	}

	return Document(doc), warnings, nil
}

// lastDelimiterLine returns the start offset of the nearest line before pos
// consisting of the "---" delimiter, or -1. The offset includes the
// delimiter so the recovered document keeps its leading separator.
func lastDelimiterLine(s string, pos int) int {
	head := s[:pos]
	lineStart := 0
	found := -1
	for lineStart <= len(head) {
		lineEnd := strings.IndexByte(head[lineStart:], '\n')
		var line string
		if lineEnd < 0 {
			line = head[lineStart:]
			lineEnd = len(head) - lineStart
		} else {
			line = head[lineStart : lineStart+lineEnd]
		}
		if strings.TrimSpace(line) == "---" {
			found = lineStart + strings.Index(line, "---")
		}
		lineStart += lineEnd + 1
	}
	return found
}
