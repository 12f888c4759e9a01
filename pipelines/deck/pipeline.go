// Package deck runs the full paper-to-presentation workflow: PDF text
// extraction, outline generation, outline recovery and parsing, HTML
// fusion against a template, and PPTX serialization.
package deck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"paperdeck/common"
	"paperdeck/htmldoc"
	"paperdeck/outline"
	"paperdeck/pptx"
)

// Artifact file names written into the output directory.
const (
	rawOutlineFile = "raw_outline.txt"
	rawFusionFile  = "raw_fusion.txt"
	outlineFile    = "outline.md"
	previewFile    = "outline_preview.html"
	htmlFile       = "presentation.html"
	pptxFile       = "presentation.pptx"
)

// Result collects the artifacts of one run.
type Result struct {
	HTMLPath    string
	PPTXPath    string
	PreviewPath string
	OutlinePath string
	Slides      []outline.Slide
	Warnings    []outline.Warning
}

// ProcessDeckPipeline builds a generator for the configured provider and
// runs the workflow end to end.
func ProcessDeckPipeline(cfg common.PipelineConfig) (*Result, error) {
	ctx := context.Background()

	var (
		gen common.Generator
		err error
	)
	switch cfg.Provider {
	case common.ProviderOpenAI:
		gen, err = common.NewOpenAIClient(cfg.OpenAIKey, cfg.Model, cfg.OpenAIBase)
	case common.ProviderGemini, "":
		gen, err = common.NewGeminiClient(ctx, cfg.GeminiKey, cfg.Model)
	default:
		return nil, common.ConfigError(fmt.Sprintf("unknown provider %q", cfg.Provider), nil)
	}
	if err != nil {
		return nil, err
	}
	defer gen.Close()

	return Run(ctx, cfg, gen)
}

// Run executes the workflow with an already-constructed generator. Raw
// model output is persisted before any recovery step so a parse failure
// never loses the completion.
func Run(ctx context.Context, cfg common.PipelineConfig, gen common.Generator) (*Result, error) {
	log := common.Component("deck")

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, common.ConfigError("failed to create output dir", err)
	}
	log.Info().Str("pdf", cfg.PDFPath).Str("out", cfg.OutputDir).Msg("starting deck pipeline")

	log.Info().Msg("step 1: validating model")
	if err := gen.ValidateModel(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("step 2: extracting PDF text")
	pdfProc, err := common.NewPDFProcessor(cfg.PDFPath)
	if err != nil {
		return nil, err
	}
	defer pdfProc.Close()

	paperText, err := pdfProc.ExtractText(cfg.MaxPromptChars())
	if err != nil {
		return nil, err
	}
	log.Info().Int("chars", len(paperText)).Int("pages", pdfProc.NumPages).Msg("text extracted")

	log.Info().Msg("step 3: generating outline")
	rawOutline, err := generate(ctx, log.Info, gen, buildOutlinePrompt(paperText))
	if rawOutline != "" {
		writeArtifact(cfg.OutputDir, rawOutlineFile, []byte(rawOutline))
	}
	if err != nil {
		return nil, err
	}

	log.Info().Msg("step 4: recovering outline structure")
	doc, warnings, err := outline.Recover(rawOutline)
	if err != nil {
		return nil, common.OutlineError("outline recovery failed; raw output saved to "+rawOutlineFile, err)
	}
	for _, w := range warnings {
		log.Warn().Str("kind", string(w.Kind)).Msg(w.Message)
	}

	slides, parseWarnings := outline.Parse(doc)
	warnings = append(warnings, parseWarnings...)
	log.Info().Int("slides", len(slides)).Msg("outline parsed")

	res := &Result{Slides: slides, Warnings: warnings}
	res.OutlinePath = writeArtifact(cfg.OutputDir, outlineFile, []byte(doc))

	if preview, err := outline.RenderPreview(doc); err != nil {
		log.Warn().Err(err).Msg("outline preview rendering failed")
	} else {
		res.PreviewPath = writeArtifact(cfg.OutputDir, previewFile, preview)
	}

	log.Info().Msg("step 5: serializing editable deck")
	if deckBytes, err := pptx.Bytes(slides); err != nil {
		// The HTML deck is the primary artifact; a pptx failure degrades
		// the run instead of aborting it.
		log.Warn().Err(err).Msg("pptx serialization failed")
	} else {
		res.PPTXPath = writeArtifact(cfg.OutputDir, pptxFile, deckBytes)
	}

	log.Info().Msg("step 6: fusing outline with HTML template")
	templateHTML, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return res, common.ConfigError("failed to read HTML template", err)
	}

	rawFusion, err := generate(ctx, log.Info, gen, buildFusionPrompt(string(doc), string(templateHTML)))
	if rawFusion != "" {
		writeArtifact(cfg.OutputDir, rawFusionFile, []byte(rawFusion))
	}
	if err != nil {
		return res, err
	}

	log.Info().Msg("step 7: recovering HTML document")
	finalHTML, err := htmldoc.NewReconstructor().Recover(rawFusion)
	if err != nil {
		return res, common.DocumentError("HTML recovery failed; raw output saved to "+rawFusionFile, err)
	}
	res.HTMLPath = writeArtifact(cfg.OutputDir, htmlFile, []byte(finalHTML))

	log.Info().Str("html", res.HTMLPath).Str("pptx", res.PPTXPath).Msg("deck pipeline complete")
	return res, nil
}

// generate runs one model call, streaming fragments so long completions
// show progress. Retry lives inside the Generator implementations; each
// stage makes exactly one call here.
func generate(ctx context.Context, logEvent func() *zerolog.Event, gen common.Generator, prompt string) (string, error) {
	var streamed int
	sink := func(fragment string) {
		streamed += len(fragment)
		if streamed%20000 < len(fragment) {
			logEvent().Int("chars", streamed).Msg("streaming")
		}
	}
	return gen.Generate(ctx, prompt, sink)
}

func writeArtifact(dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		log := common.Component("deck")
		log.Warn().Err(err).Str("path", path).Msg("failed to write artifact")
		return ""
	}
	return path
}
