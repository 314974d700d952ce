package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/camden-git/fyyur/models"
	"github.com/camden-git/fyyur/repository"
)

// Seeder inserts a small demo catalogue through the regular repositories.
type Seeder struct {
	Venues  repository.VenueRepository
	Artists repository.ArtistRepository
	Shows   repository.ShowRepository
	Log     zerolog.Logger
}

func demoVenues() []models.Venue {
	return []models.Venue{
		{
			Name: "The Musical Hop", City: "San Francisco", State: "CA",
			Address: "1015 Folsom Street", Phone: "123-123-1234",
			Genres:        models.Genres{"Jazz", "Reggae", "Folk", "Classical"},
			Website:       "https://www.themusicalhop.com",
			FacebookLink:  "https://www.facebook.com/TheMusicalHop",
			SeekingTalent: true, SeekingDescription: "We are on the lookout for a local artist to play every two weeks.",
		},
		{
			Name: "The Dueling Pianos Bar", City: "New York", State: "NY",
			Address: "335 Delancey Street", Phone: "914-003-1132",
			Genres:       models.Genres{"Classical", "R&B", "Hip-Hop"},
			Website:      "https://www.theduelingpianos.com",
			FacebookLink: "https://www.facebook.com/theduelingpianos",
		},
		{
			Name: "Park Square Live Music & Coffee", City: "San Francisco", State: "CA",
			Address: "34 Whiskey Moore Ave", Phone: "415-000-1234",
			Genres:       models.Genres{"Rock n Roll", "Jazz", "Classical", "Folk"},
			Website:      "https://www.parksquarelivemusicandcoffee.com",
			FacebookLink: "https://www.facebook.com/ParkSquareLiveMusicAndCoffee",
		},
	}
}

func demoArtists() []models.Artist {
	return []models.Artist{
		{
			Name: "Guns N Petals", City: "San Francisco", State: "CA", Phone: "326-123-5000",
			Genres:       models.Genres{"Rock n Roll"},
			Website:      "https://www.gunsnpetalsband.com",
			FacebookLink: "https://www.facebook.com/GunsNPetals",
			SeekingVenue: true, SeekingDescription: "Looking for shows to perform at in the San Francisco Bay Area!",
		},
		{
			Name: "Matt Quevedo", City: "New York", State: "NY", Phone: "300-400-5000",
			Genres:       models.Genres{"Jazz"},
			FacebookLink: "https://www.facebook.com/mattquevedo923251523",
		},
		{
			Name: "The Wild Sax Band", City: "San Francisco", State: "CA", Phone: "432-325-5432",
			Genres: models.Genres{"Jazz", "Classical"},
		},
	}
}

// Seed inserts the demo venues, artists and a few shows around now.
// Listings that already exist are skipped, so it is safe to run on every start.
func (s *Seeder) Seed(ctx context.Context, now time.Time) error {
	venueIDs := make([]uint, 0, 3)
	for _, v := range demoVenues() {
		venue := v
		err := s.Venues.Create(ctx, &venue)
		if errors.Is(err, repository.ErrDuplicate) {
			s.Log.Debug().Str("venue", venue.Name).Msg("demo venue already listed")
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed venue %s: %w", venue.Name, err)
		}
		venueIDs = append(venueIDs, venue.ID)
	}

	artistIDs := make([]uint, 0, 3)
	for _, a := range demoArtists() {
		artist := a
		err := s.Artists.Create(ctx, &artist)
		if errors.Is(err, repository.ErrDuplicate) {
			s.Log.Debug().Str("artist", artist.Name).Msg("demo artist already listed")
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to seed artist %s: %w", artist.Name, err)
		}
		artistIDs = append(artistIDs, artist.ID)
	}

	// shows only for a fresh catalogue
	if len(venueIDs) == 0 || len(artistIDs) == 0 {
		return nil
	}
	base := now.Truncate(time.Hour)
	offsets := []time.Duration{-30 * 24 * time.Hour, -7 * 24 * time.Hour, 7 * 24 * time.Hour, 30 * 24 * time.Hour}
	for i, offset := range offsets {
		show := models.Show{
			VenueID:   venueIDs[i%len(venueIDs)],
			ArtistID:  artistIDs[i%len(artistIDs)],
			StartTime: base.Add(offset),
		}
		if err := s.Shows.Create(ctx, &show); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("failed to seed show: %w", err)
		}
	}
	s.Log.Info().Int("venues", len(venueIDs)).Int("artists", len(artistIDs)).Msg("demo data seeded")
	return nil
}
