package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFullDeck(t *testing.T) {
	doc := Document(`---
**Slide:** 1
**Title:** Graph Attention Networks
**Purpose:** Title
**Content:**
- Velickovic et al., ICLR 2018
**Visual:**
  - **Type:** ` + "`Symbol`" + `
  - **Data:** {"symbol": "🎓", "text": "Conference paper", "color_hint": "#2563eb"}
---
**Slide:** 2
**Title:** Key Results
**Purpose:** Results
**Content:**
- **Cora** accuracy: 83.0%
- Improvement over GCN baseline
**Visual:**
  - **Type:** Table
  - **Data:** {"caption": "Accuracy", "headers": ["Dataset", "GAT"], "rows": [["Cora", 83.0], ["Citeseer", 72.5]]}
---`)

	slides, warnings := Parse(doc)
	require.Len(t, slides, 2)
	assert.Empty(t, warnings)

	first := slides[0]
	assert.Equal(t, "Graph Attention Networks", first.Title)
	assert.Equal(t, PurposeTitle, first.Purpose)
	assert.Equal(t, []string{"Velickovic et al., ICLR 2018"}, first.Content)
	assert.Equal(t, VisualSymbol, first.Visual.Type)
	require.NotNil(t, first.Visual.Data)
	assert.Equal(t, "🎓", first.Visual.Data.Symbol)
	assert.Equal(t, "#2563eb", first.Visual.Data.ColorHint)

	second := slides[1]
	assert.Equal(t, VisualTable, second.Visual.Type)
	require.NotNil(t, second.Visual.Data)
	assert.Equal(t, []string{"Dataset", "GAT"}, second.Visual.Data.Headers)
	// Numeric cells are rendered as text.
	assert.Equal(t, [][]string{{"Cora", "83"}, {"Citeseer", "72.5"}}, second.Visual.Data.Rows)
}

func TestParseBlockCountMatchesSlideCount(t *testing.T) {
	doc := Document("---\n**Slide:** 1\n---\n**Slide:** 2\n**Title:** Partial\n---\n\n---\n**Slide:** 3\n---")

	slides, _ := Parse(doc)
	// Blank blocks between consecutive delimiters are skipped; the three
	// non-empty blocks yield exactly three slides.
	assert.Len(t, slides, 3)
}

func TestParseAppliesDefaults(t *testing.T) {
	slides, _ := Parse(Document("**Slide:** 1\nno labels here"))
	require.Len(t, slides, 1)

	assert.Equal(t, DefaultTitle, slides[0].Title)
	assert.Equal(t, DefaultPurpose, slides[0].Purpose)
	assert.Nil(t, slides[0].Content)
	assert.Equal(t, VisualTextOnly, slides[0].Visual.Type)
	assert.Nil(t, slides[0].Visual.Data)
}

func TestParseUnknownPurposePassesThrough(t *testing.T) {
	slides, _ := Parse(Document("**Slide:** 1\n**Title:** X\n**Purpose:** Rebuttal\n"))
	require.Len(t, slides, 1)
	assert.Equal(t, "Rebuttal", slides[0].Purpose)
}

func TestParseBulletCleanup(t *testing.T) {
	doc := Document(`**Slide:** 1
**Content:**
- plain point
- **fully bold point**
- point with **inner** emphasis
-    spaced   point
**Visual:**
  - **Type:** Text_Only
  - **Data:** null`)

	slides, _ := Parse(doc)
	require.Len(t, slides, 1)
	assert.Equal(t, []string{
		"plain point",
		"fully bold point",
		"point with **inner** emphasis",
		"spaced   point",
	}, slides[0].Content)
}

func TestParseNullDataMeansNoPayload(t *testing.T) {
	for _, null := range []string{"null", "Null", "NULL"} {
		slides, _ := Parse(Document("**Slide:** 1\n**Visual:**\n  - **Type:** List\n  - **Data:** " + null))
		require.Len(t, slides, 1)
		assert.Equal(t, VisualList, slides[0].Visual.Type)
		assert.Nil(t, slides[0].Visual.Data)
	}
}

func TestParseVisualFallbackIsPerSlide(t *testing.T) {
	doc := Document(`---
**Slide:** 1
**Title:** Broken Visual
**Visual:**
  - **Type:** Chart
  - **Data:** chart_type: bar, this is { not valid json "at all
---
**Slide:** 2
**Title:** Fine Visual
**Visual:**
  - **Type:** Quote
  - **Data:** {"text": "a quote", "source": "section 5"}
---`)

	slides, warnings := Parse(doc)
	require.Len(t, slides, 2)

	require.NotNil(t, slides[0].Visual.Data)
	assert.True(t, slides[0].Visual.Data.Fallback)
	assert.Contains(t, slides[0].Visual.Data.Text, "not valid json")

	require.NotNil(t, slides[1].Visual.Data)
	assert.False(t, slides[1].Visual.Data.Fallback)
	assert.Equal(t, "a quote", slides[1].Visual.Data.Text)

	require.Len(t, warnings, 1)
	assert.Equal(t, WarnVisualFallback, warnings[0].Kind)
	assert.Contains(t, warnings[0].Message, "Broken Visual")
}

func TestRecoverThenParseScenario(t *testing.T) {
	raw := "Sure, here is your outline:\n---\n**Slide:** 1\n**Title:** Intro\n**Purpose:** Title\n**Content:**\n- Point A\n**Visual:**\n  - **Type:** Text_Only\n  - **Data:** null\n---\n**Slide:** 2\n**Title:** Methods\n**Purpose:** Methodology\n**Content:**\n- Step one\n**Visual:**\n  - **Type:** Text_Only\n  - **Data:** null\n---"

	doc, _, err := Recover(raw)
	require.NoError(t, err)

	slides, _ := Parse(doc)
	require.Len(t, slides, 2)
	assert.Equal(t, "Intro", slides[0].Title)
	assert.Equal(t, PurposeMethodology, slides[1].Purpose)
}
