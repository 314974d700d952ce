package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/camden-git/fyyur/database"
	"github.com/camden-git/fyyur/models"
	"github.com/camden-git/fyyur/repository"
)

// ShowHandler serves the /shows pages.
type ShowHandler struct {
	Shows repository.ShowRepository
	DB    *sql.DB
	Views *Views
	Now   func() time.Time
}

type showFormPage struct {
	Form    ShowForm
	Artists []models.NamedRef
	Venues  []models.NamedRef
	Errors  []string
}

func (h *ShowHandler) ListShows(w http.ResponseWriter, r *http.Request) {
	shows, err := database.ListShows(r.Context(), h.DB)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/shows", shows)
}

// renderForm shows the create form with the venue and artist pickers filled in.
func (h *ShowHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form ShowForm, errs []string, notices ...string) {
	artists, err := database.ListArtistRefs(r.Context(), h.DB)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	venues, err := database.ListVenueRefs(r.Context(), h.DB)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, status, "forms/show", showFormPage{
		Form:    form,
		Artists: artists,
		Venues:  venues,
		Errors:  errs,
	}, notices...)
}

func (h *ShowHandler) CreateShowForm(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	h.renderForm(w, r, http.StatusOK, ShowForm{StartTime: now.Format(startTimeLayout)}, nil)
}

func (h *ShowHandler) CreateShow(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, ShowForm{}, []string{"The form could not be read."})
		return
	}

	form := decodeShowForm(r.PostForm)
	if errs := validateForm(form); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, errs, "An error occurred. Show could not be listed.")
		return
	}
	show, err := form.toModel()
	if err != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, form, []string{err.Error()}, "An error occurred. Show could not be listed.")
		return
	}

	err = h.Shows.Create(r.Context(), &show)
	switch {
	case errors.Is(err, repository.ErrUnknownReference):
		h.renderForm(w, r, http.StatusUnprocessableEntity, form,
			[]string{"The selected venue or artist does not exist."},
			"An error occurred. Show could not be listed.")
	case errors.Is(err, repository.ErrDuplicate):
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Show is already listed.")
	case err != nil:
		h.Views.ServerError(w, r, err)
	default:
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Show was successfully listed!")
	}
}
