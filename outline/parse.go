package outline

import (
	"regexp"
	"strings"

	"paperdeck/common"
)

var (
	titleRe   = regexp.MustCompile(`\*\*Title:\*\*\s*(.*)`)
	purposeRe = regexp.MustCompile(`\*\*Purpose:\*\*\s*(.*)`)
	contentRe = regexp.MustCompile(`(?s)\*\*Content:\*\*(.*?)\*\*Visual:\*\*`)
	visualRe  = regexp.MustCompile(`(?s)\*\*Visual:\*\*(.*)`)

	typeRe = regexp.MustCompile("-\\s*\\*\\*Type:\\*\\*\\s*`?(\\w+)`?")
	dataRe = regexp.MustCompile(`(?s)-\s*\*\*Data:\*\*\s*(.*)`)

	bulletLeadRe  = regexp.MustCompile(`^\s*-\s*\**`)
	bulletTrailRe = regexp.MustCompile(`\**\s*$`)
)

// Parse converts a recovered outline into slide records. It never fails:
// blocks missing fields get documented defaults, malformed visual payloads
// degrade per slide, and one bad block never stops the rest. N non-empty
// delimited blocks always yield exactly N slides.
func Parse(doc Document) ([]Slide, []Warning) {
	log := common.Component("outline")

	var slides []Slide
	var warnings []Warning
	for _, block := range strings.Split(string(doc), "---") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		slide := parseBlock(block)
		if slide.Visual.Data != nil && slide.Visual.Data.Fallback {
			log.Warn().Str("title", slide.Title).Msg("visual payload kept as raw text")
			warnings = append(warnings, Warning{
				Kind:    WarnVisualFallback,
				Message: "slide " + slide.Title + ": visual data could not be decoded, kept as raw text",
			})
		}
		slides = append(slides, slide)
	}
	return slides, warnings
}

func parseBlock(block string) Slide {
	slide := Slide{
		Title:   DefaultTitle,
		Purpose: DefaultPurpose,
		Visual:  Visual{Type: VisualTextOnly},
	}

	if m := titleRe.FindStringSubmatch(block); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			slide.Title = t
		}
	}
	if m := purposeRe.FindStringSubmatch(block); m != nil {
		if p := strings.TrimSpace(m[1]); p != "" {
			slide.Purpose = p // unknown values pass through
		}
	}

	if m := contentRe.FindStringSubmatch(block); m != nil {
		slide.Content = parseBullets(m[1])
	}

	if m := visualRe.FindStringSubmatch(block); m != nil {
		slide.Visual = parseVisual(m[1])
	}
	return slide
}

// parseBullets strips the dash marker and boundary bold markup from each
// content line. Emphasis interior to a line is preserved.
func parseBullets(text string) []string {
	var bullets []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := bulletLeadRe.ReplaceAllString(line, "")
		cleaned = bulletTrailRe.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
		if cleaned != "" {
			bullets = append(bullets, cleaned)
		}
	}
	return bullets
}

func parseVisual(text string) Visual {
	visual := Visual{Type: VisualTextOnly}

	if m := typeRe.FindStringSubmatch(text); m != nil {
		visual.Type = strings.TrimSpace(m[1])
	}
	if m := dataRe.FindStringSubmatch(text); m != nil {
		payload := strings.TrimSpace(m[1])
		if payload != "" && !strings.EqualFold(payload, "null") {
			visual.Data = decodeVisualData(payload)
		}
	}
	return visual
}
