package repository

import (
	"context"

	"github.com/camden-git/fyyur/models"
)

// VenueRepository defines the methods for venue data operations.
// Every mutation runs in its own transaction and is rolled back on error.
type VenueRepository interface {
	// Create inserts venue unless a venue with the same name, city and state exists.
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id uint) (*models.Venue, error)
	// Update applies changes (column name to value) to the venue and returns the stored result.
	Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Venue, error)
	// Delete removes the venue together with its shows and returns what was deleted.
	Delete(ctx context.Context, id uint) (*models.Venue, error)
}

// ArtistRepository defines the methods for artist data operations
type ArtistRepository interface {
	Create(ctx context.Context, artist *models.Artist) error
	GetByID(ctx context.Context, id uint) (*models.Artist, error)
	Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Artist, error)
}

// ShowRepository defines the methods for show data operations
type ShowRepository interface {
	Create(ctx context.Context, show *models.Show) error
}
