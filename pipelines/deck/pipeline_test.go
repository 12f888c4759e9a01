package deck

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperdeck/common"
)

// writeMinimalPDF emits a one-page PDF with a single text run, with a valid
// cross-reference table so the extractor accepts it.
func writeMinimalPDF(t *testing.T, path, text string) {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 6)
	obj := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	obj(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	obj(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	obj(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	obj(5, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))

	xref := buf.Len()
	buf.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

type mockGenerator struct {
	outlineOut string
	fusionOut  string
	prompts    []string
}

func (m *mockGenerator) ValidateModel(ctx context.Context) error { return nil }

func (m *mockGenerator) Generate(ctx context.Context, prompt string, sink common.StreamSink) (string, error) {
	m.prompts = append(m.prompts, prompt)
	out := m.fusionOut
	if strings.Contains(prompt, "--- Full Academic Document ---") {
		out = m.outlineOut
	}
	if sink != nil {
		sink(out)
	}
	return out, nil
}

func (m *mockGenerator) Close() {}

const mockOutline = `Here is the outline:
---
**Slide:** 1
**Title:** Intro
**Purpose:** Title
**Content:**
- Point A
**Visual:**
  - **Type:** Text_Only
  - **Data:** null
---
**Slide:** 2
**Title:** Methods
**Purpose:** Methodology
**Content:**
- Step one
**Visual:**
  - **Type:** Text_Only
  - **Data:** null
---
**Slide:** 3
**Title:** Results
**Purpose:** Results
**Content:**
- Finding
**Visual:**
  - **Type:** Text_Only
  - **Data:** null
---`

const mockFusion = "Here is your deck:\n<!DOCTYPE html><html><head><style>.s{}</style></head><body><section>Intro</section><section>Methods</section><section>Results</section></body></html>\nEnjoy!"

func testConfig(t *testing.T) common.PipelineConfig {
	t.Helper()
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "paper.pdf")
	writeMinimalPDF(t, pdfPath, "Attention mechanisms for graph learning")

	templatePath := filepath.Join(dir, "template.html")
	require.NoError(t, os.WriteFile(templatePath, []byte("<!DOCTYPE html><html><head></head><body></body></html>"), 0644))

	return common.PipelineConfig{
		PDFPath:      pdfPath,
		TemplatePath: templatePath,
		OutputDir:    filepath.Join(dir, "out"),
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	gen := &mockGenerator{outlineOut: mockOutline, fusionOut: mockFusion}

	res, err := Run(context.Background(), cfg, gen)
	require.NoError(t, err)

	require.Len(t, res.Slides, 3)
	assert.Equal(t, "Intro", res.Slides[0].Title)
	assert.Equal(t, "Methodology", res.Slides[1].Purpose)
	assert.Empty(t, res.Warnings)

	html, err := os.ReadFile(res.HTMLPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<!DOCTYPE html>"))
	assert.True(t, strings.HasSuffix(string(html), "</html>"))

	for _, path := range []string{res.PPTXPath, res.PreviewPath, res.OutlinePath} {
		require.NotEmpty(t, path)
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	// Raw completions are always persisted.
	for _, name := range []string{rawOutlineFile, rawFusionFile} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		assert.NoError(t, err, name)
	}

	// The second call frames the recovered outline and the template text.
	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "Attention mechanisms")
	assert.Contains(t, gen.prompts[1], "**Title:** Intro")
	assert.Contains(t, gen.prompts[1], "--- HTML Template ---")
}

func TestRunOutlineRecoveryFailureKeepsRawOutput(t *testing.T) {
	cfg := testConfig(t)
	gen := &mockGenerator{outlineOut: "I cannot produce an outline for this document."}

	_, err := Run(context.Background(), cfg, gen)
	require.Error(t, err)
	assert.Equal(t, common.StageOutline, common.StageOf(err))

	raw, readErr := os.ReadFile(filepath.Join(cfg.OutputDir, rawOutlineFile))
	require.NoError(t, readErr)
	assert.Equal(t, gen.outlineOut, string(raw))
}

func TestRunFusionRecoveryFailureKeepsPartialResult(t *testing.T) {
	cfg := testConfig(t)
	gen := &mockGenerator{outlineOut: mockOutline, fusionOut: "Sorry, no HTML today."}

	res, err := Run(context.Background(), cfg, gen)
	require.Error(t, err)
	assert.Equal(t, common.StageDocument, common.StageOf(err))

	// The partial result still carries the outline artifacts.
	require.NotNil(t, res)
	assert.Len(t, res.Slides, 3)
	assert.NotEmpty(t, res.OutlinePath)

	raw, readErr := os.ReadFile(filepath.Join(cfg.OutputDir, rawFusionFile))
	require.NoError(t, readErr)
	assert.Equal(t, gen.fusionOut, string(raw))
}

type failingGenerator struct {
	calls int
}

func (f *failingGenerator) ValidateModel(ctx context.Context) error { return nil }

func (f *failingGenerator) Generate(ctx context.Context, prompt string, sink common.StreamSink) (string, error) {
	f.calls++
	return "", common.QuotaError("rate limited", nil)
}

func (f *failingGenerator) Close() {}

func TestRunCallsGeneratorOncePerStage(t *testing.T) {
	cfg := testConfig(t)
	gen := &failingGenerator{}

	start := time.Now()
	_, err := Run(context.Background(), cfg, gen)
	require.Error(t, err)

	// The backoff ladder belongs to the Generator implementations; the
	// orchestrator must not wrap them in a second one. A transient failure
	// surfaces after a single call with no added delay.
	assert.Equal(t, 1, gen.calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWriteArtifactFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	// A file where the pipeline expects a directory makes every write fail.
	blocked := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	path := writeArtifact(filepath.Join(blocked, "sub"), "outline.md", []byte("content"))
	assert.Empty(t, path)
}

func TestRunUnknownProviderFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider = "mistral"

	_, err := ProcessDeckPipeline(cfg)
	require.Error(t, err)
	assert.Equal(t, common.StageConfig, common.StageOf(err))
}

func TestPromptScaffolding(t *testing.T) {
	outlinePrompt := buildOutlinePrompt("PAPER TEXT")
	assert.Contains(t, outlinePrompt, "**Slide:**")
	assert.Contains(t, outlinePrompt, "Text_Only")
	assert.True(t, strings.HasSuffix(outlinePrompt, "PAPER TEXT"))

	fusionPrompt := buildFusionPrompt("OUTLINE", "TEMPLATE")
	assert.Contains(t, fusionPrompt, "<!DOCTYPE html>")
	idxOutline := strings.Index(fusionPrompt, "OUTLINE")
	idxTemplate := strings.Index(fusionPrompt, "TEMPLATE")
	assert.True(t, idxOutline > 0 && idxTemplate > idxOutline)
}
