package handlers

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/camden-git/fyyur/repository"
)

// RouterConfig carries what NewRouter needs to build the site.
type RouterConfig struct {
	DB             *gorm.DB
	Views          *Views
	Static         fs.FS
	Log            zerolog.Logger
	AllowedOrigins []string
	// Now overrides the clock used to split past and upcoming shows
	Now func() time.Time
}

// NewRouter wires repositories, handlers and middleware into a chi router.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	sqlDB, err := cfg.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	venueHandler := &VenueHandler{Venues: repository.NewGormVenueRepository(cfg.DB), DB: sqlDB, Views: cfg.Views, Now: cfg.Now}
	artistHandler := &ArtistHandler{Artists: repository.NewGormArtistRepository(cfg.DB), DB: sqlDB, Views: cfg.Views, Now: cfg.Now}
	showHandler := &ShowHandler{Shows: repository.NewGormShowRepository(cfg.DB), DB: sqlDB, Views: cfg.Views, Now: cfg.Now}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Log))
	r.Use(Recoverer(cfg.Views))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.NotFound(cfg.Views.NotFound)

	r.Get("/", cfg.Views.Home)
	if cfg.Static != nil {
		r.Get("/static/*", AssetServer(cfg.Static, "/static/"))
	}

	r.Route("/venues", func(r chi.Router) {
		r.Get("/", venueHandler.ListVenues)
		r.Post("/search", venueHandler.SearchVenues)
		r.Get("/create", venueHandler.CreateVenueForm)
		r.Post("/create", venueHandler.CreateVenue)
		r.Route("/{venue_id:[0-9]+}", func(r chi.Router) {
			r.Get("/", venueHandler.GetVenue)
			r.Delete("/", venueHandler.DeleteVenue)
			r.Post("/delete", venueHandler.DeleteVenue)
			r.Get("/edit", venueHandler.EditVenueForm)
			r.Post("/edit", venueHandler.EditVenue)
		})
	})

	r.Route("/artists", func(r chi.Router) {
		r.Get("/", artistHandler.ListArtists)
		r.Post("/search", artistHandler.SearchArtists)
		r.Get("/create", artistHandler.CreateArtistForm)
		r.Post("/create", artistHandler.CreateArtist)
		r.Route("/{artist_id:[0-9]+}", func(r chi.Router) {
			r.Get("/", artistHandler.GetArtist)
			r.Get("/edit", artistHandler.EditArtistForm)
			r.Post("/edit", artistHandler.EditArtist)
		})
	})

	r.Route("/shows", func(r chi.Router) {
		r.Get("/", showHandler.ListShows)
		r.Get("/create", showHandler.CreateShowForm)
		r.Post("/create", showHandler.CreateShow)
	})

	return r, nil
}
