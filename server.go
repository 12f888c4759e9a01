package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"paperdeck/common"
	"paperdeck/pipelines/deck"
)

type JobStatus struct {
	ID        string     `json:"id"`
	Status    string     `json:"status"`
	Provider  string     `json:"provider"`
	Model     string     `json:"model,omitempty"`
	OutputDir string     `json:"output_dir,omitempty"`
	Warnings  []string   `json:"warnings,omitempty"`
	Artifacts []string   `json:"artifacts,omitempty"`
	Error     string     `json:"error,omitempty"`
	Stage     string     `json:"stage,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

type Job struct {
	ID     string
	Config common.PipelineConfig
}

type WorkerPool struct {
	jobs       chan *Job
	results    map[string]*JobStatus
	mu         sync.RWMutex
	wg         sync.WaitGroup
	numWorkers int
}

func NewWorkerPool(numWorkers, bufferSize int) *WorkerPool {
	pool := &WorkerPool{
		jobs:       make(chan *Job, bufferSize),
		results:    make(map[string]*JobStatus),
		numWorkers: numWorkers,
	}
	pool.Start()
	return pool
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	common.Logger.Info().Int("workers", p.numWorkers).Msg("worker pool started")
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	log := common.Component("worker").With().Int("worker", id).Logger()
	for job := range p.jobs {
		log.Info().Str("job", job.ID).Msg("processing job")
		p.processJob(job)
	}
	log.Info().Msg("shutting down")
}

func (p *WorkerPool) processJob(job *Job) {
	p.setStatus(job.ID, "processing", nil, nil)

	res, err := deck.ProcessDeckPipeline(job.Config)
	if err != nil {
		p.mu.Lock()
		if status, ok := p.results[job.ID]; ok {
			status.Status = "failed"
			status.Error = err.Error()
			status.Stage = string(common.StageOf(err))
			if res != nil {
				status.Warnings = warningStrings(res)
				status.Artifacts = artifactPaths(res)
			}
			now := time.Now()
			status.DoneAt = &now
		}
		p.mu.Unlock()
		common.Logger.Error().Str("job", job.ID).Err(err).Msg("job failed")
		return
	}

	p.setStatus(job.ID, "completed", warningStrings(res), artifactPaths(res))
	common.Logger.Info().Str("job", job.ID).Int("slides", len(res.Slides)).Msg("job completed")
}

func warningStrings(res *deck.Result) []string {
	out := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		out = append(out, w.String())
	}
	return out
}

func artifactPaths(res *deck.Result) []string {
	var out []string
	for _, p := range []string{res.HTMLPath, res.PPTXPath, res.PreviewPath, res.OutlinePath} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (p *WorkerPool) setStatus(jobID, status string, warnings, artifacts []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if job, exists := p.results[jobID]; exists {
		job.Status = status
		job.Warnings = warnings
		job.Artifacts = artifacts
		if status == "completed" || status == "failed" {
			now := time.Now()
			job.DoneAt = &now
		}
	}
}

func (p *WorkerPool) Submit(job *Job) {
	p.mu.Lock()
	p.results[job.ID] = &JobStatus{
		ID:        job.ID,
		Status:    "queued",
		Provider:  job.Config.Provider,
		Model:     job.Config.Model,
		OutputDir: job.Config.OutputDir,
		StartedAt: time.Now(),
	}
	p.mu.Unlock()

	p.jobs <- job
}

// GetStatus returns a snapshot of the job's status. Workers mutate the
// stored record under the pool lock, so callers get a copy, never the
// shared pointer.
func (p *WorkerPool) GetStatus(jobID string) (JobStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	status, ok := p.results[jobID]
	if !ok {
		return JobStatus{}, false
	}
	return *status, true
}

func (p *WorkerPool) Shutdown() {
	close(p.jobs)
	p.wg.Wait()
}

type Server struct {
	pool      *WorkerPool
	geminiKey string
	openaiKey string
	openaiURL string
	uploadDir string
}

func NewServer(numWorkers int) *Server {
	common.LoadEnv(".env")

	geminiKey, openaiKey, openaiURL := common.KeysFromEnv()
	if geminiKey == "" && openaiKey == "" {
		common.Logger.Fatal().Msg("set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	uploadDir := "./uploads"
	os.MkdirAll(uploadDir, 0755)

	return &Server{
		pool:      NewWorkerPool(numWorkers, 100),
		geminiKey: geminiKey,
		openaiKey: openaiKey,
		openaiURL: openaiURL,
		uploadDir: uploadDir,
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	provider := r.URL.Query().Get("provider")
	if provider == "" {
		provider = common.ProviderGemini
	}
	switch provider {
	case common.ProviderGemini:
		if s.geminiKey == "" {
			http.Error(w, "GEMINI_API_KEY not configured", http.StatusInternalServerError)
			return
		}
	case common.ProviderOpenAI:
		if s.openaiKey == "" {
			http.Error(w, "OPENAI_API_KEY not configured", http.StatusInternalServerError)
			return
		}
	default:
		http.Error(w, "Invalid provider. Use 'gemini' or 'openai'", http.StatusBadRequest)
		return
	}

	r.ParseMultipartForm(100 << 20)

	jobID := uuid.NewString()

	pdfPath, err := s.saveUpload(r, "pdf", jobID, ".pdf")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	templatePath, err := s.saveUpload(r, "template", jobID, ".html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	job := &Job{
		ID: jobID,
		Config: common.PipelineConfig{
			PDFPath:      pdfPath,
			TemplatePath: templatePath,
			OutputDir:    filepath.Join("./output", "deck_"+jobID),
			Provider:     provider,
			Model:        r.URL.Query().Get("model"),
			GeminiKey:    s.geminiKey,
			OpenAIKey:    s.openaiKey,
			OpenAIBase:   s.openaiURL,
		},
	}
	s.pool.Submit(job)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_id":  jobID,
		"status":  "queued",
		"message": "PDF uploaded and queued for processing",
	})
}

// saveUpload stores one multipart file under the upload dir after checking
// its extension.
func (s *Server) saveUpload(r *http.Request, field, jobID, wantExt string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("missing %q form field: %w", field, err)
	}
	defer file.Close()

	if filepath.Ext(header.Filename) != wantExt {
		return "", fmt.Errorf("field %q accepts only %s files", field, wantExt)
	}
	return s.writeUpload(file, jobID+"_"+header.Filename)
}

func (s *Server) writeUpload(src multipart.File, name string) (string, error) {
	path := filepath.Join(s.uploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	return path, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, ok := s.jobFromQuery(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// handleDownload streams a finished artifact. kind selects html, pptx, or
// the recovered outline markdown.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	status, ok := s.jobFromQuery(w, r)
	if !ok {
		return
	}

	var name, contentType string
	switch r.URL.Query().Get("kind") {
	case "html", "":
		name, contentType = "presentation.html", "text/html; charset=utf-8"
	case "pptx":
		name, contentType = "presentation.pptx", "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case "outline":
		name, contentType = "outline.md", "text/markdown; charset=utf-8"
	default:
		http.Error(w, "Invalid kind. Use 'html', 'pptx', or 'outline'", http.StatusBadRequest)
		return
	}

	path := filepath.Join(status.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Artifact not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	http.ServeFile(w, r, path)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	status, ok := s.jobFromQuery(w, r)
	if !ok {
		return
	}
	path := filepath.Join(status.OutputDir, "outline_preview.html")
	if _, err := os.Stat(path); err != nil {
		http.Error(w, "Preview not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}

func (s *Server) jobFromQuery(w http.ResponseWriter, r *http.Request) (JobStatus, bool) {
	jobID := r.URL.Query().Get("id")
	if jobID == "" {
		http.Error(w, "Missing job id", http.StatusBadRequest)
		return JobStatus{}, false
	}
	status, ok := s.pool.GetStatus(jobID)
	if !ok {
		http.Error(w, "Job not found", http.StatusNotFound)
		return JobStatus{}, false
	}
	return status, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":      "ok",
		"workers":     s.pool.numWorkers,
		"goroutines":  runtime.NumGoroutine(),
		"queued_jobs": len(s.pool.jobs),
	})
}

func (s *Server) catchAllHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		s.handleUpload(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":  "Paper-to-Deck Server",
		"usage":    "POST any route with 'pdf' and 'template' form fields. Query params: ?provider=gemini|openai&model=<name>",
		"status":   "GET /status?id=<job_id>",
		"download": "GET /download?id=<job_id>&kind=html|pptx|outline",
		"preview":  "GET /preview?id=<job_id>",
		"health":   "GET /health",
	})
}

func StartServer(addr string, numWorkers int) {
	server := NewServer(numWorkers)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.handleHealth)
	mux.HandleFunc("/status", server.handleStatus)
	mux.HandleFunc("/download", server.handleDownload)
	mux.HandleFunc("/preview", server.handlePreview)
	mux.HandleFunc("/", server.catchAllHandler)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	common.Logger.Info().Str("addr", addr).Int("workers", numWorkers).Msg("server starting")

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		common.Logger.Fatal().Err(err).Msg("server failed")
	}
}
