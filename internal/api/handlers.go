package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/noteservice"
)

// IntroMessage is returned by GET /.
const IntroMessage = "This is the API of note-taking app."

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// noteName extracts the {name} URL parameter, decoding escaped characters
// such as %20 and %2F.
func noteName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Intro handles GET /.
//
//	@Summary	Short description of the API
//	@Produce	json
//	@Success	200	{string}	string
//	@Router		/ [get]
func (h *Handler) Intro(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, IntroMessage)
}

// ListNotes handles GET /list.
//
//	@Summary	List the names of all notes
//	@Tags		notes
//	@Produce	json
//	@Success	200	{array}	string
//	@Router		/list [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListNotes(r.Context()))
}

// Find handles GET /find?term=.
//
//	@Summary	Names of notes containing term as a whole word
//	@Tags		search
//	@Produce	json
//	@Param		term	query		string	true	"Lowercase word to look for"
//	@Success	200		{array}		string
//	@Failure	400		{object}	errResponse
//	@Router		/find [get]
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("term") {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'term' is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Find(r.Context(), q.Get("term")))
}

// GetNote handles GET /note/{name}.
//
//	@Summary	Contents of a single note
//	@Tags		notes
//	@Produce	json
//	@Param		name	path		string	true	"Note name"
//	@Success	200		{string}	string
//	@Failure	404		{object}	errResponse
//	@Router		/note/{name} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	note, err := h.svc.GetNote(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("name", name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note.Contents)
}

// AddNote handles POST /add.
//
//	@Summary	Add a note, replacing any note with the same name
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		body	body		AddNoteRequest	true	"Note to add"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	errResponse
//	@Router		/add [post]
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.AddNote(r.Context(), req.Name, req.Contents)
	if err != nil {
		h.writeMutationError(w, "add note failed", req.Name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{note.Name: note.Contents})
}

// UpdateNote handles PUT /note/{name}.
//
//	@Summary	Replace the contents of an existing note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Param		name	path		string				true	"Note name"
//	@Param		body	body		UpdateNoteRequest	true	"New contents"
//	@Success	200		{object}	map[string]string
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Router		/note/{name} [put]
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	name := noteName(r)
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.UpdateNote(r.Context(), name, req.Contents)
	if err != nil {
		h.writeMutationError(w, "update note failed", name, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{note.Name: note.Contents})
}

// Clear handles POST /clear.
//
//	@Summary	Remove every note
//	@Tags		notes
//	@Success	204	"Notebook cleared"
//	@Router		/clear [post]
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Clear(r.Context()); err != nil {
		slog.Error("clear notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMutationError(w http.ResponseWriter, msg, name string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidNote):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(msg, slog.String("name", name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
