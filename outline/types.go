// Package outline recovers a structured slide plan from the free-text
// completion of the first generation call. Recovery anchors on the most
// specific recognizable marker and degrades gracefully: only a completely
// unanchorable completion is an error.
package outline

import "fmt"

// Document is a recovered outline: zero or more slide blocks separated by a
// line-level "---" delimiter, starting at the first recognizable slide
// marker (or the delimiter line preceding it).
type Document string

// WarningKind classifies non-fatal recovery findings.
type WarningKind string

const (
	// WarnStructure flags an outline whose marker or delimiter counts are
	// below what a complete deck is expected to carry.
	WarnStructure WarningKind = "structure"
	// WarnVisualFallback flags a slide whose visual payload could not be
	// decoded as structured data and was kept as raw text.
	WarnVisualFallback WarningKind = "visual-fallback"
)

// Warning is a non-fatal finding surfaced alongside a successful result.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Slide purposes the outline prompt asks for. The parser passes unknown
// values through rather than rejecting them.
const (
	PurposeTitle            = "Title"
	PurposeOverview         = "Overview"
	PurposeBackground       = "Background"
	PurposeMethodology      = "Methodology"
	PurposeData             = "Data"
	PurposeResults          = "Results"
	PurposeAnalysis         = "Analysis"
	PurposeDiscussion       = "Discussion"
	PurposeConclusion       = "Conclusion"
	PurposeFutureWork       = "Future_Work"
	PurposeAcknowledgements = "Acknowledgements"
)

// Defaults for fields absent from a slide block.
const (
	DefaultTitle   = "Untitled"
	DefaultPurpose = "Text_Only"
)

// Slide is the structured form of one outline block.
type Slide struct {
	Title   string
	Purpose string
	Content []string // display order
	Visual  Visual
}

// Visual types the outline prompt asks for.
const (
	VisualSymbol     = "Symbol"
	VisualProcess    = "Process"
	VisualChart      = "Chart"
	VisualTable      = "Table"
	VisualQuote      = "Quote"
	VisualComparison = "Comparison"
	VisualList       = "List"
	VisualTextOnly   = "Text_Only"
)

// Visual is the tagged visual treatment for one slide. Data is nil for
// List/Text_Only and for explicit null payloads.
type Visual struct {
	Type string
	Data *VisualData
}

// VisualData is the decoded payload. Which fields are populated depends on
// the visual type; a payload that fails structured decoding degrades to the
// raw text in Text with Fallback set, never failing the slide.
type VisualData struct {
	// Symbol
	Symbol    string
	ColorHint string

	// Process
	Steps []string
	Style string

	// Chart
	ChartType   string
	Title       string
	DataSummary string

	// Table
	Caption string
	Headers []string
	Rows    [][]string

	// Quote (Text doubles as the fallback field)
	Text   string
	Source string

	// Comparison
	Item1Title  string
	Item1Points []string
	Item2Title  string
	Item2Points []string

	// Fallback marks Text as the undecoded raw payload.
	Fallback bool
}
