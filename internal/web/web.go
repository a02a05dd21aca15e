// Package web serves the server-rendered notebook pages.
package web

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notebook/internal/noteservice"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const helpHTML = "<p>Getting extremely minimal help via a GET request</p>"

type homepageData struct {
	Title  string
	Search string
	Notes  []string
}

type contentsData struct {
	Title string
	Name  string
	Text  string
	Found bool
}

// Handler renders the web pages.
type Handler struct {
	svc *noteservice.Service
}

// NewRouter returns a router serving the web pages at its root.
func NewRouter(svc *noteservice.Service) chi.Router {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/", h.Index)
	r.Get("/notes", h.Note)
	r.Post("/clear", h.Clear)
	r.Get("/help", h.Help)
	return r
}

// Index lists notes. A POST either searches (when "search" is set) or adds a
// note (when both "name" and "text" are set) and redirects back.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := homepageData{Title: "Notebook", Notes: h.svc.ListNotes(ctx)}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		search := strings.TrimSpace(r.PostFormValue("search"))
		name := strings.TrimSpace(r.PostFormValue("name"))
		text := strings.TrimSpace(r.PostFormValue("text"))

		switch {
		case search != "":
			data.Search = search
			data.Notes = h.svc.Find(ctx, search)
		case name != "" && text != "":
			if _, err := h.svc.AddNote(ctx, name, text); err != nil {
				slog.Error("web: add note failed", slog.String("name", name), slog.String("error", err.Error()))
				http.Error(w, "could not save note", http.StatusInternalServerError)
				return
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	render(w, http.StatusOK, "homepage.html", data)
}

// Note shows the contents of the note named by the "name" query parameter.
func (h *Handler) Note(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	data := contentsData{Title: name, Name: name}

	note, err := h.svc.GetNote(r.Context(), name)
	if err != nil {
		render(w, http.StatusNotFound, "contents.html", data)
		return
	}
	data.Text = note.Contents
	data.Found = true
	render(w, http.StatusOK, "contents.html", data)
}

// Clear removes all notes and returns to the homepage.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		slog.Error("web: clear failed", slog.String("error", err.Error()))
		http.Error(w, "could not clear notes", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Help returns a minimal help snippet.
func (h *Handler) Help(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(helpHTML))
}

func render(w http.ResponseWriter, status int, page string, data any) {
	var buf strings.Builder
	if err := pages.ExecuteTemplate(&buf, page, data); err != nil {
		slog.Error("web: render failed", slog.String("page", page), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(buf.String()))
}
