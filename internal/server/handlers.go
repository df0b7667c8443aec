package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/goliatone/go-formrender/pkg/definition"
	"github.com/goliatone/go-formrender/pkg/render"
	"github.com/goliatone/go-formrender/pkg/render/pipeline"
)

const csrfCookie = "formrender_csrf"

type previewResponse struct {
	ID    string   `json:"id"`
	Forms []string `json:"forms"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListForms(w http.ResponseWriter, _ *http.Request) {
	names := s.store.Definitions().Names()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"forms": names})
}

func (s *Server) handleRenderForm(w http.ResponseWriter, r *http.Request) {
	s.renderDocument(w, r, s.store.Definitions(), chi.URLParam(r, "name"))
}

func (s *Server) handleCreatePreview(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDefinitionBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", err.Error())
		return
	}
	doc, err := definition.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_DEFINITION", err.Error())
		return
	}
	names := doc.Names()
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_DEFINITION", "document defines no forms")
		return
	}
	for _, name := range names {
		if _, err := doc.Build(name); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DEFINITION", err.Error())
			return
		}
	}

	id := s.store.AddPreview(doc)
	s.logger.Info("preview stored", "id", id, "forms", len(names))
	writeJSON(w, http.StatusCreated, previewResponse{ID: id.String(), Forms: names})
}

func (s *Server) handleRenderPreview(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+raw)
		return
	}
	doc, err := s.store.Preview(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	name := r.URL.Query().Get("form")
	if name == "" {
		name = doc.Names()[0]
	}
	s.renderDocument(w, r, doc, name)
}

// renderDocument builds the named form and renders it with the renderer and
// prior groups requested in the query string.
func (s *Server) renderDocument(w http.ResponseWriter, r *http.Request, doc *definition.Document, name string) {
	query := r.URL.Query()

	rendererName := query.Get("renderer")
	if rendererName == "" {
		rendererName = s.cfg.Renderer
	}
	renderer, err := s.cfg.Registry.Get(rendererName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "UNKNOWN_RENDERER", err.Error())
		return
	}

	f, err := doc.Build(name)
	if err != nil {
		if errors.Is(err, definition.ErrFormNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INVALID_DEFINITION", err.Error())
		return
	}
	if s.cfg.Translator != nil {
		f.Translator = s.cfg.Translator
	}

	opts := render.RenderOptions{
		Locale:      query.Get("locale"),
		PriorGroups: splitNames(query.Get("prior")),
	}
	if opts.Locale == "" {
		opts.Locale = s.cfg.Locale
	}
	if version := query.Get("version"); version != "" {
		opts.HiddenFields = append(opts.HiddenFields, render.VersionField("version", version))
	}
	var csrf *http.Cookie
	if s.cfg.CSRFField != "" {
		csrf = &http.Cookie{
			Name:     csrfCookie,
			Value:    uuid.NewString(),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		}
		opts.HiddenFields = append(opts.HiddenFields, render.CSRFToken(s.cfg.CSRFField, csrf.Value))
	}

	out, err := renderer.Render(r.Context(), f, opts)
	if err != nil {
		var cfgErr *pipeline.ConfigError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusUnprocessableEntity, "CONFIGURATION_ERROR", err.Error())
			return
		}
		s.logger.Error("render failed", "form", name, "renderer", renderer.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, "RENDER_FAILED", fmt.Sprintf("render %s: %v", name, err))
		return
	}

	if csrf != nil {
		http.SetCookie(w, csrf)
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func splitNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}
