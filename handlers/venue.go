package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/camden-git/fyyur/database"
	"github.com/camden-git/fyyur/models"
	"github.com/camden-git/fyyur/repository"
	"github.com/camden-git/fyyur/services"
)

// VenueHandler serves the /venues pages.
type VenueHandler struct {
	Venues repository.VenueRepository
	DB     *sql.DB
	Views  *Views
	Now    func() time.Time
}

type venueDetail struct {
	Venue *models.Venue
	Shows services.ShowPartition
}

type venueFormPage struct {
	ID     uint
	Action string
	Form   VenueForm
	Errors []string
}

// refList feeds the "name_list" partial; Base is the path prefix of each link.
type refList struct {
	Base  string
	Items []models.NamedRef
}

type searchPage struct {
	SearchTerm string
	Results    services.SearchResult
	Base       string
}

// parseID reads a numeric route parameter. Route patterns already restrict it
// to digits, so failure here only means the value overflowed.
func parseID(r *http.Request, param string) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *VenueHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *VenueHandler) ListVenues(w http.ResponseWriter, r *http.Request) {
	locations, err := database.ListVenueLocations(r.Context(), h.DB)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/venues", struct{ Areas []services.Area }{services.GroupVenuesByArea(locations)})
}

func (h *VenueHandler) SearchVenues(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "pages/home", nil, "Invalid search request.")
		return
	}
	term := r.PostForm.Get("search_term")
	refs, err := database.SearchVenues(r.Context(), h.DB, term)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/search", searchPage{
		SearchTerm: term,
		Results:    services.NewSearchResult(refs),
		Base:       "/venues",
	})
}

func (h *VenueHandler) GetVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "venue_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	venue, err := h.Venues.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}
	shows, err := database.ListShowsByVenue(r.Context(), h.DB, id)
	if err != nil {
		h.Views.ServerError(w, r, err)
		return
	}
	h.Views.Render(w, r, http.StatusOK, "pages/show_venue", venueDetail{
		Venue: venue,
		Shows: services.PartitionShows(shows, h.now(), services.ArtistOf),
	})
}

func (h *VenueHandler) CreateVenueForm(w http.ResponseWriter, r *http.Request) {
	h.Views.Render(w, r, http.StatusOK, "forms/venue", venueFormPage{Action: "/venues/create"})
}

func (h *VenueHandler) CreateVenue(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "forms/venue", venueFormPage{
			Action: "/venues/create",
			Errors: []string{"The form could not be read."},
		})
		return
	}

	var form VenueForm
	form.apply(venueChanges(r.PostForm))
	if errs := validateForm(form); errs != nil {
		h.Views.Render(w, r, http.StatusUnprocessableEntity, "forms/venue", venueFormPage{
			Action: "/venues/create",
			Form:   form,
			Errors: errs,
		}, "Venue "+form.Name+" could not be listed.")
		return
	}

	venue := form.toModel()
	err := h.Venues.Create(r.Context(), &venue)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Venue "+venue.Name+" is already listed.")
	case err != nil:
		h.Views.ServerError(w, r, err)
	default:
		h.Views.Render(w, r, http.StatusOK, "pages/home", nil, "Venue "+venue.Name+" was successfully listed!")
	}
}

// DeleteVenue removes a venue and its shows and queues the notice as a flash.
// DELETE requests come from the detail page script, which navigates home
// itself, so they get 204. POST from the fallback form is redirected.
func (h *VenueHandler) DeleteVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "venue_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	venue, err := h.Venues.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}

	AddFlash(w, r, "Venue "+venue.Name+" was successfully deleted.")
	if r.Method == http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VenueHandler) EditVenueForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "venue_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	venue, err := h.Venues.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}
	h.Views.Render(w, r, http.StatusOK, "forms/venue", venueFormPage{
		ID:     venue.ID,
		Action: fmt.Sprintf("/venues/%d/edit", venue.ID),
		Form:   venueFormFromModel(venue),
	})
}

// EditVenue applies only the submitted fields. The merged result is validated
// before anything is written.
func (h *VenueHandler) EditVenue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "venue_id")
	if !ok {
		h.Views.NotFound(w, r)
		return
	}
	existing, err := h.Venues.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.Views.NotFound(w, r)
		} else {
			h.Views.ServerError(w, r, err)
		}
		return
	}

	action := fmt.Sprintf("/venues/%d/edit", id)
	if err := r.ParseForm(); err != nil {
		h.Views.Render(w, r, http.StatusBadRequest, "forms/venue", venueFormPage{
			ID:     id,
			Action: action,
			Form:   venueFormFromModel(existing),
			Errors: []string{"The form could not be read."},
		})
		return
	}

	changes := venueChanges(r.PostForm)
	form := venueFormFromModel(existing)
	form.apply(changes)
	if errs := validateForm(form); errs != nil {
		h.Views.Render(w, r, http.StatusUnprocessableEntity, "forms/venue", venueFormPage{
			ID:     id,
			Action: action,
			Form:   form,
			Errors: errs,
		}, "Venue "+existing.Name+" could not be updated.")
		return
	}

	updated, err := h.Venues.Update(r.Context(), id, changes)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.Views.NotFound(w, r)
	case errors.Is(err, repository.ErrDuplicate):
		h.Views.Render(w, r, http.StatusConflict, "forms/venue", venueFormPage{
			ID:     id,
			Action: action,
			Form:   form,
		}, "Venue "+form.Name+" is already listed.")
	case err != nil:
		h.Views.ServerError(w, r, err)
	default:
		AddFlash(w, r, "Venue "+updated.Name+" was successfully updated!")
		http.Redirect(w, r, fmt.Sprintf("/venues/%d", id), http.StatusSeeOther)
	}
}
