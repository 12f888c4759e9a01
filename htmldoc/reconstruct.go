// Package htmldoc recovers a well-formed HTML document from the free-text
// completion of the fusion call. All intelligence lives in boundary
// detection: bytes between the recovered boundaries are never rewritten,
// which keeps embedded base64 resources and scripts intact.
package htmldoc

import (
	"errors"
	"strings"
)

var (
	// ErrNoDocumentStart means no document (or fragment) start token exists
	// anywhere in the completion.
	ErrNoDocumentStart = errors.New("no document start token found in model output")
	// ErrMalformedDocument means the recovered text failed boundary
	// validation after extraction.
	ErrMalformedDocument = errors.New("recovered document failed boundary validation")
)

// Reconstructor recovers documents bounded by canonical tokens. The zero
// values of the fields select the standard HTML tokens.
type Reconstructor struct {
	StartToken  string // default "<!DOCTYPE html>"
	EndToken    string // default "</html>"
	RootOpen    string // default "<html", the fallback start boundary
	BodyClose   string // default "</body>", the end-synthesis anchor
	FragmentTag string // default "section", the repeatable unit in fragment mode
}

// NewReconstructor returns a Reconstructor with the canonical HTML tokens.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		StartToken:  "<!DOCTYPE html>",
		EndToken:    "</html>",
		RootOpen:    "<html",
		BodyClose:   "</body>",
		FragmentTag: "section",
	}
}

// Recover extracts a standalone document from raw. The start token is
// located exactly, then case-insensitively, then via the root open tag. The
// end token is the LAST occurrence (an earlier one may sit inside example
// text); a missing end token is repaired, never rejected: it is synthesized
// after the last body-close tag, or at the very end of the text.
func (r *Reconstructor) Recover(raw string) (string, error) {
	start, ok := r.findStart(raw)
	if !ok {
		return "", ErrNoDocumentStart
	}

	// Bytes between the boundaries stay untouched: fences and prose can only
	// survive outside the tokens, and slicing at the tokens removes them.
	// Only the synthesized-end path trims, and only past the last real byte.
	var result string
	if end := strings.LastIndex(raw, r.EndToken); end >= start {
		result = raw[start : end+len(r.EndToken)]
	} else if body := strings.LastIndex(raw, r.BodyClose); body >= start {
		result = raw[start:body+len(r.BodyClose)] + r.EndToken
	} else {
		result = trimTrailingFences(raw[start:]) + r.EndToken
	}

	if !r.validStart(result) || !strings.HasSuffix(result, r.EndToken) {
		return "", ErrMalformedDocument
	}
	return result, nil
}

// RecoverFragment extracts repeatable content fragments: everything from the
// first opening FragmentTag onward, verbatim. Fragments may legitimately end
// the text, so no end-token search happens.
func (r *Reconstructor) RecoverFragment(raw string) (string, error) {
	open := "<" + r.FragmentTag
	lower := strings.ToLower(raw)
	idx := -1
	for from := 0; ; {
		i := strings.Index(lower[from:], strings.ToLower(open))
		if i < 0 {
			break
		}
		pos := from + i
		after := pos + len(open)
		// Reject longer tag names sharing the prefix.
		if after >= len(raw) || raw[after] == '>' || raw[after] == ' ' || raw[after] == '\n' || raw[after] == '\t' {
			idx = pos
			break
		}
		from = after
	}
	if idx < 0 {
		return "", ErrNoDocumentStart
	}
	return trimTrailingFences(raw[idx:]), nil
}

// findStart locates the document start boundary: exact start token first,
// then case-insensitive, then the root open tag.
func (r *Reconstructor) findStart(raw string) (int, bool) {
	if i := strings.Index(raw, r.StartToken); i >= 0 {
		return i, true
	}
	lower := strings.ToLower(raw)
	if i := strings.Index(lower, strings.ToLower(r.StartToken)); i >= 0 {
		return i, true
	}
	if i := strings.Index(lower, strings.ToLower(r.RootOpen)); i >= 0 {
		return i, true
	}
	return -1, false
}

func (r *Reconstructor) validStart(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, strings.ToLower(r.StartToken)) ||
		strings.HasPrefix(lower, strings.ToLower(r.RootOpen))
}

// trimTrailingFences removes trailing whitespace and markdown code-fence
// markers that survive extraction when the model wraps its output.
func trimTrailingFences(s string) string {
	for {
		trimmed := strings.TrimRight(s, " \t\r\n")
		trimmed = strings.TrimSuffix(trimmed, "```")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
