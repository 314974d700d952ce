package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/camden-git/fyyur/database"
	"github.com/camden-git/fyyur/models"
	"github.com/camden-git/fyyur/repository"
	"github.com/camden-git/fyyur/services"
)

// ArtistHandler serves the /artists pages.
type ArtistHandler struct {
	Artists repository.ArtistRepository
	DB      *sql.DB
	Views   *Views
	Now     func() time.Time
}

type artistDetail struct {
	Artist *models.Artist
	Shows  services.ShowPartition
}

type artistFormPage struct {
	ID     uint
	Action string
	Form   ArtistForm
	Errors []string
}

func (h *ArtistHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ArtistHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	refs, err := database.ListArtistRefs(r.Context(), h.DB)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	services.SortNamedRefs(refs)
	h.Views.Render(w, r, http.StatusOK, "pages/artists", refList{Base: "/artists", Items: refs})
}

func (h *ArtistHandler) SearchArtists(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "pages/home", nil, "Invalid search request.")
		return
	}
	term := r.PostForm.Get("search_term")
	refs, err := database.SearchArtists(r.Context(), h.DB, term)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/search", searchPage{
		SearchTerm: term,
		Results:    services.NewSearchResult(refs),
		Base:       "/artists",
	})
}

func (h *ArtistHandler) GetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "artist_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	artist, err := h.Artists.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}
	shows, err := database.ListShowsByArtist(r.Context(), h.DB, id)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/show_artist", artistDetail{
		Artist: artist,
		Shows:  services.PartitionShows(shows, h.now(), services.VenueOf),
	})
}

func (h *ArtistHandler) CreateArtistForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "forms/artist", artistFormPage{Action: "/artists/create"})
}

func (h *ArtistHandler) CreateArtist(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "forms/artist", artistFormPage{
			Action: "/artists/create",
			Errors: []string{"The form could not be read."},
		})
		return
	}

	var form ArtistForm
	form.apply(artistChanges(r.PostForm))
	if errs := validateForm(form); errs != nil {
		h.Views.Render(w, r, http.StatusUnprocessableEntity, "forms/artist", artistFormPage{
			Action: "/artists/create",
			Form:   form,
			Errors: errs,
		}, "Artist "+form.Name+" could not be listed.")
		return
	}

	artist := form.toModel()
	err := h.Artists.Create(r.Context(), &artist)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Artist "+artist.Name+" is already listed.")
	case err != nil:
		h.Views.ServerError(w, r, err)
	default:
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Artist "+artist.Name+" was successfully listed!")
	}
}

func (h *ArtistHandler) EditArtistForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "artist_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	artist, err := h.Artists.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}
	h.Views.Render(w, r, http.StatusOK, "forms/artist", artistFormPage{
		ID:     artist.ID,
		Action: fmt.Sprintf("/artists/%d/edit", artist.ID),
		Form:   artistFormFromModel(artist),
	})
}

// EditArtist applies only the submitted fields. The merged result is validated
// before anything is written.
func (h *ArtistHandler) EditArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "artist_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	existing, err := h.Artists.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}

	action := fmt.Sprintf("/artists/%d/edit", id)
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "forms/artist", artistFormPage{
			ID:     id,
			Action: action,
			Form:   artistFormFromModel(existing),
			Errors: []string{"The form could not be read."},
		})
		return
	}

	changes := artistChanges(r.PostForm)
	form := artistFormFromModel(existing)
	form.apply(changes)
	if errs := validateForm(form); errs != nil {
		h.Views.Render(w, r, http.StatusUnprocessableEntity, "forms/artist", artistFormPage{
			ID:     id,
			Action: action,
			Form:   form,
			Errors: errs,
		}, "Artist "+existing.Name+" could not be updated.")
		return
	}

	updated, err := h.Artists.Update(r.Context(), id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.Views.NotFound(w, r)
	case errors.Is(err, repository.ErrDuplicate):
		h.Views.Render(w, r, http.StatusConflict, "forms/artist", artistFormPage{
			ID:     id,
			Action: action,
			Form:   form,
		}, "Artist "+form.Name+" is already listed.")
	case err != nil:
		h.Views.ServerError(w, r, err)
	default:
		AddFlash(w, r, "Artist "+updated.Name+" was successfully updated!")
		http.Redirect(w, r, fmt.Sprintf("/artists/%d", id), http.StatusSeeOther)
	}
}
