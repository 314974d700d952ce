package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// NotFound renders the 404 page.
func (v *Views) NotFound(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, http.StatusNotFound, "errors/404", nil)
}

// ServerError logs err under a fresh incident id and renders the 500 page
// showing that id, so a user report can be matched to the error log.
func (v *Views) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	incident := uuid.NewString()
	v.Log.Error().
		Err(err).
		Str("incident", incident).
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
	v.Render(w, r, http.StatusInternalServerError, "errors/500", incident)
}
