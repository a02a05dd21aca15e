package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/notebook/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc *noteservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(LimitBody(1 << 20))

	r.Get("/", h.Intro)
	r.Get("/list", h.ListNotes)
	r.Get("/find", h.Find)
	r.Get("/note/{name}", h.GetNote)
	r.Put("/note/{name}", h.UpdateNote)
	r.Post("/add", h.AddNote)
	r.Post("/clear", h.Clear)

	return r
}
