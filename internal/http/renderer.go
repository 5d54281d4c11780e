package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

const layoutTemplate = "layout.html"

// pages lists every page template; each file defines "content".
var pages = []string{
	PagePending,
	PageLogin,
	PageRegister,
	PageHome,
	PageDashboard,
	PageMyRequests,
	PageMedicationForm,
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS        // Filesystem containing layout.html and pages/*.html (required)
	Logger     *slog.Logger // Logger for template errors (optional)
}

// NewTemplateRenderer parses the layout once per page so every page can define
// its own "content" block.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base, err := template.New(layoutTemplate).ParseFS(cfg.TemplateFS, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	parsed := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		clone, cloneErr := base.Clone()
		if cloneErr != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", page, cloneErr)
		}
		t, parseErr := clone.ParseFS(cfg.TemplateFS, "pages/"+page+".html")
		if parseErr != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, parseErr)
		}
		parsed[page] = t
	}

	return &TemplateRenderer{pages: parsed, logger: logger}, nil
}

// RenderRequest describes one page render.
type RenderRequest struct {
	Page   string
	Status int
	Data   PageData
}

// Render writes the page. htmx requests get only the "content" block.
func (tr *TemplateRenderer) Render(w http.ResponseWriter, r *http.Request, req RenderRequest) {
	t, ok := tr.pages[req.Page]
	if !ok {
		tr.logger.Error("unknown page template", slog.String("page", req.Page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	name := layoutTemplate
	if IsHTMX(r) {
		name = "content"
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, req.Data); err != nil {
		tr.logger.Error("template render failed", slog.String("page", req.Page), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	status := req.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return
	}
}
