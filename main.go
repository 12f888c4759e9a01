package main

import (
	"flag"
	"runtime"
	"time"

	"paperdeck/common"
	"paperdeck/pipelines/deck"
)

func main() {
	serverMode := flag.Bool("server", false, "Run as HTTP server")
	port := flag.String("port", ":8080", "Server port (only with --server)")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of worker goroutines (only with --server)")
	provider := flag.String("provider", common.ProviderGemini, "Model provider: 'gemini' or 'openai'")
	model := flag.String("model", "", "Model name (provider default if empty)")
	template := flag.String("template", "", "Path to the HTML presentation template")
	textCap := flag.Int("text-cap", 0, "Max characters of paper text sent to the model (0 = default)")
	flag.Parse()

	log := common.Logger

	if *serverMode {
		StartServer(*port, *workers)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		log.Fatal().Msg("Usage: paperdeck [--provider=gemini|openai] [--model=<name>] --template=<template.html> <pdf_path>\n       paperdeck --server [--port=:8080] [--workers=4]")
	}
	if *template == "" {
		log.Fatal().Msg("--template is required: path to the HTML presentation template")
	}

	common.LoadEnv(".env")
	geminiKey, openaiKey, openaiURL := common.KeysFromEnv()

	config := common.PipelineConfig{
		PDFPath:      args[0],
		TemplatePath: *template,
		OutputDir:    "./output/deck_" + time.Now().Format("20060102_150405"),
		Provider:     *provider,
		Model:        *model,
		GeminiKey:    geminiKey,
		OpenAIKey:    openaiKey,
		OpenAIBase:   openaiURL,
		TextCap:      *textCap,
	}

	switch config.Provider {
	case common.ProviderGemini:
		if config.GeminiKey == "" {
			log.Fatal().Msg("set GEMINI_API_KEY environment variable")
		}
	case common.ProviderOpenAI:
		if config.OpenAIKey == "" {
			log.Fatal().Msg("set OPENAI_API_KEY environment variable")
		}
	default:
		log.Fatal().Str("provider", config.Provider).Msg("unknown provider, use 'gemini' or 'openai'")
	}

	if err := common.ValidatePDFPath(config.PDFPath); err != nil {
		log.Fatal().Err(err).Msg("invalid PDF path")
	}

	res, err := deck.ProcessDeckPipeline(config)
	if err != nil {
		log.Fatal().Err(err).Str("stage", string(common.StageOf(err))).Msg("pipeline failed")
	}

	for _, w := range res.Warnings {
		log.Warn().Msg(w.String())
	}
	log.Info().Str("html", res.HTMLPath).Str("pptx", res.PPTXPath).Int("slides", len(res.Slides)).Msg("pipeline completed")
}
