package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/fyyur/models"
	"gorm.io/gorm"
)

// GormArtistRepository handles database operations for Artist entities
type GormArtistRepository struct {
	db *gorm.DB
}

// NewGormArtistRepository creates a new instance of GormArtistRepository
func NewGormArtistRepository(db *gorm.DB) ArtistRepository {
	return &GormArtistRepository{db: db}
}

func (r *GormArtistRepository) Create(ctx context.Context, artist *models.Artist) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Artist{}).
			Where("name = ? AND city = ? AND state = ?", artist.Name, artist.City, artist.State).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for existing artist: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		return tx.Create(artist).Error
	})
	return translateError(err, fmt.Sprintf("create artist %q", artist.Name))
}

func (r *GormArtistRepository) GetByID(ctx context.Context, id uint) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).First(&artist, id).Error
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("get artist by ID %d", id))
	}
	return &artist, nil
}

func (r *GormArtistRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.Artist, error) {
	var artist models.Artist
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&artist, id).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&models.Artist{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&artist, id).Error
	})
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("update artist ID %d", id))
	}
	return &artist, nil
}
