package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/fyyur/models"
	"gorm.io/gorm"
)

// GormVenueRepository handles database operations for Venue entities
type GormVenueRepository struct {
	db *gorm.DB
}

// NewGormVenueRepository creates a new instance of GormVenueRepository
func NewGormVenueRepository(db *gorm.DB) VenueRepository {
	return &GormVenueRepository{db: db}
}

func (r *GormVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Venue{}).
			Where("name = ? AND city = ? AND state = ?", venue.Name, venue.City, venue.State).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for existing venue: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(venue).Error
	})
	return translateError(err, fmt.Sprintf("create venue %q", venue.Name))
}

func (r *GormVenueRepository) GetByID(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.WithContext(ctx).First(&venue, id).Error
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("get venue by ID %d", id))
	}
	return &venue, nil
}

func (r *GormVenueRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&venue, id).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Venue{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&venue, id).Error
	})
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("update venue ID %d", id))
	}
	return &venue, nil
}

// Delete removes a venue and its shows. The shows FK also cascades, the explicit
// delete keeps the behaviour when foreign keys are disabled on the connection.
func (r *GormVenueRepository) Delete(ctx context.Context, id uint) (*models.Venue, error) {
	var venue models.Venue
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&venue, id).Error; err != nil {
			return err
		}
		if err := tx.Where("venue_id = ?", id).Delete(&models.Show{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Venue{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("delete venue ID %d", id))
	}
	return &venue, nil
}
