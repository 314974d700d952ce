package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/camden-git/fyyur/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShowRepository handles database operations for Show entities
type GormShowRepository struct {
	db *gorm.DB
}

// NewGormShowRepository creates a new instance of GormShowRepository
func NewGormShowRepository(db *gorm.DB) ShowRepository {
	return &GormShowRepository{db: db}
}

// Create inserts a show after checking both sides exist and that the
// (venue, artist, start_time) triple is not taken. Start times are stored in
// UTC at second precision so equal instants compare equal in the key.
func (r *GormShowRepository) Create(ctx context.Context, show *models.Show) error {
	show.StartTime = show.StartTime.UTC().Truncate(time.Second)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Venue{}).Where("id = ?", show.VenueID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up venue %d: %w", show.VenueID, err)
		}
		if count == 0 {
			return ErrUnknownReference
		}
		if err := tx.Model(&models.Artist{}).Where("id = ?", show.ArtistID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up artist %d: %w", show.ArtistID, err)
		}
		if count == 0 {
			return ErrUnknownReference
		}

		err := tx.Model(&models.Show{}).
			Where("venue_id = ? AND artist_id = ? AND start_time = ?", show.VenueID, show.ArtistID, show.StartTime).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for existing show: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Omit(clause.Associations).Create(show).Error
	})
	return translateError(err, fmt.Sprintf("create show venue=%d artist=%d", show.VenueID, show.ArtistID))
}
