package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/internal/calculator"
	"github.com/iwvelando/builduction/internal/config"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/internal/store"
	"github.com/iwvelando/builduction/pkg/constants"
	"github.com/iwvelando/builduction/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	store         store.Store
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the calculation and
// project API.
func NewHandler(logger *zap.Logger, projects store.Store, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if projects == nil {
		projects = store.NewMemoryStore(logger)
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: projects, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Stateless calculation endpoints
	mux.HandleFunc("/api/calculate", h.handleCalculate)
	mux.HandleFunc("/api/clear", h.handleClear)

	// Configuration upload
	mux.HandleFunc("/api/config", h.handleConfigUpload)

	// Stored projects
	mux.HandleFunc("/api/projects", h.handleProjects)
	mux.HandleFunc("/api/projects/{id}", h.handleProject)
	mux.HandleFunc("/api/projects/{id}/export", h.handleProjectExport)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculateResponse struct {
	output.Result
	Duration string `json:"duration"`
}

type projectsResponse struct {
	Projects []output.Result `json:"projects"`
}

type configResponse struct {
	Projects   []output.Result `json:"projects"`
	CSV        string          `json:"csv"`
	Warnings   []string        `json:"warnings,omitempty"`
	Saved      bool            `json:"saved"`
	Duration   string          `json:"duration"`
	ConfigYAML string          `json:"configYaml,omitempty"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	p, ok := h.decodeProject(w, r, op)
	if !ok {
		return
	}

	calculator.Calculate(p)
	elapsed := time.Since(start)

	h.logger.Debug("project calculated",
		zap.String("op", op),
		zap.String("id", p.ID.String()),
		zap.String("mode", calculator.Mode(p).String()),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Result:   result(p),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleClear(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleClear"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	p, ok := h.decodeProject(w, r, op)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, calculator.Clear(p))
}

func (h *handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjects"

	switch r.Method {
	case http.MethodGet:
		projects, err := h.store.Fetch(r.Context())
		if err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		response := projectsResponse{Projects: make([]output.Result, 0, len(projects))}
		for _, p := range projects {
			response.Projects = append(response.Projects, result(p))
		}
		h.writeJSON(w, http.StatusOK, response)

	case http.MethodPost:
		p, ok := h.decodeProject(w, r, op)
		if !ok {
			return
		}
		if p.Inputs != project.DefaultInputs() {
			calculator.Calculate(p)
		}
		if err := h.store.Add(r.Context(), p); err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		h.logger.Info("project created",
			zap.String("op", op),
			zap.String("id", p.ID.String()),
		)
		h.writeJSON(w, http.StatusCreated, result(p))

	case http.MethodDelete:
		if err := h.store.Purge(r.Context()); err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleProject(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProject"

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, err := h.store.Find(r.Context(), id)
		if err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		h.writeJSON(w, http.StatusOK, result(p))

	case http.MethodPut:
		p, ok := h.decodeProject(w, r, op)
		if !ok {
			return
		}
		if p.ID != id {
			h.respondErrorWithOp(w, http.StatusBadRequest,
				fmt.Sprintf("project id %s does not match path id %s", p.ID, id), op)
			return
		}
		calculator.Calculate(p)
		if err := h.store.AddOrUpdate(r.Context(), p); err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		h.writeJSON(w, http.StatusOK, result(p))

	case http.MethodDelete:
		if err := h.store.Delete(r.Context(), id); err != nil {
			h.respondStoreError(w, err, op)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleProjectExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjectExport"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	id, ok := h.pathID(w, r, op)
	if !ok {
		return
	}

	p, err := h.store.Find(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}

	cfg := config.Configuration{Projects: []config.ProjectInput{config.FromProject(p)}}
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleConfigUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	projects, err := cfg.BuildProjects()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	for _, p := range projects {
		calculator.Calculate(p)
	}

	save := r.FormValue("save") == "true"
	if save {
		for _, p := range projects {
			if err := h.store.AddOrUpdate(r.Context(), p); err != nil {
				h.respondStoreError(w, err, op)
				return
			}
		}
	}

	elapsed := time.Since(start)
	response := configResponse{
		Projects:   make([]output.Result, 0, len(projects)),
		CSV:        output.CsvString(projects),
		Warnings:   warnings,
		Saved:      save,
		Duration:   elapsed.String(),
		ConfigYAML: buf.String(),
	}
	for _, p := range projects {
		response.Projects = append(response.Projects, result(p))
	}

	h.logger.Info("configuration calculated",
		zap.String("op", op),
		zap.Int("projects", len(projects)),
		zap.Int("warnings", len(warnings)),
		zap.Bool("saved", save),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeProject reads a project record from the request body. Fields left out
// of the body keep the defaults of a new record, including a fresh id.
func (h *handler) decodeProject(w http.ResponseWriter, r *http.Request, op string) (*project.Project, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	p := project.New()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read project: %v", err), op)
		return nil, false
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return p, true
	}

	if err := json.Unmarshal(data, p); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode project: %v", err), op)
		return nil, false
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return p, true
}

func (h *handler) pathID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid project id %q", r.PathValue("id")), op)
		return uuid.Nil, false
	}
	return id, true
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
	case errors.Is(err, store.ErrConflict):
		h.respondErrorWithOp(w, http.StatusConflict, err.Error(), op)
	case errors.Is(err, store.ErrInvalidProject):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before the status is sent, so an encoding
// failure still produces an error response.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "failed to encode response: " + err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func result(p *project.Project) output.Result {
	return output.Result{Project: p, Summary: calculator.Summarize(p)}
}
