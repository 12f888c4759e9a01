package outline

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var bareKeyRe = regexp.MustCompile(`(\w+):`)

// decodeVisualData recovers structured data from a visual payload. Strict
// JSON decoding is tried first; on failure the payload is normalized once
// (bare word-keys quoted, single quotes converted) and retried; if that
// fails too the raw payload is kept verbatim under Text. Never errors,
// never drops the slide.
func decodeVisualData(payload string) *VisualData {
	cleaned := stripFences(payload)

	if data, ok := decodeJSON(cleaned); ok {
		return data
	}

	// Best-effort normalization of JSON-like text. Keys already quoted are
	// untouched (the quote breaks the \w+ match). Values containing literal
	// quotes can mis-decode; the fallback below catches those.
	normalized := bareKeyRe.ReplaceAllString(cleaned, `"$1":`)
	normalized = strings.ReplaceAll(normalized, "'", `"`)
	if data, ok := decodeJSON(normalized); ok {
		return data
	}

	return &VisualData{Text: payload, Fallback: true}
}

func decodeJSON(s string) (*VisualData, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, false
	}
	return &VisualData{
		Symbol:      strField(m, "symbol"),
		ColorHint:   strField(m, "color_hint"),
		Steps:       strListField(m, "steps"),
		Style:       strField(m, "style"),
		ChartType:   strField(m, "chart_type"),
		Title:       strField(m, "title"),
		DataSummary: strField(m, "data_summary"),
		Caption:     strField(m, "caption"),
		Headers:     strListField(m, "headers"),
		Rows:        rowsField(m, "rows"),
		Text:        strField(m, "text"),
		Source:      strField(m, "source"),
		Item1Title:  strField(m, "item1_title"),
		Item1Points: strListField(m, "item1_points"),
		Item2Title:  strField(m, "item2_title"),
		Item2Points: strListField(m, "item2_points"),
	}, true
}

// stripFences removes markdown code-fence wrappers the model sometimes puts
// around structured payloads.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func strField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	return coerceString(v)
}

func strListField(m map[string]any, key string) []string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		out = append(out, coerceString(v))
	}
	return out
}

func rowsField(m map[string]any, key string) [][]string {
	list, ok := m[key].([]any)
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, rv := range list {
		cells, ok := rv.([]any)
		if !ok {
			rows = append(rows, []string{coerceString(rv)})
			continue
		}
		row := make([]string, 0, len(cells))
		for _, cv := range cells {
			row = append(row, coerceString(cv))
		}
		rows = append(rows, row)
	}
	return rows
}

// coerceString renders table cells and list items that arrive as numbers or
// booleans; strings pass through exactly.
func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
