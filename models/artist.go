package models

// Artist is a performer that can play at venues.
// It corresponds to the 'artists' table. (name, city, state) is unique.
type Artist struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string `gorm:"not null;uniqueIndex:idx_artist_listing" json:"name"`
	City               string `gorm:"size:120;not null;uniqueIndex:idx_artist_listing" json:"city"`
	State              string `gorm:"size:120;not null;uniqueIndex:idx_artist_listing" json:"state"`
	Phone              string `gorm:"size:120" json:"phone"`
	Genres             Genres `json:"genres"`
	ImageLink          string `gorm:"size:500" json:"image_link"`
	FacebookLink       string `gorm:"size:120" json:"facebook_link"`
	Website            string `gorm:"size:120" json:"website"`
	SeekingVenue       bool   `gorm:"not null;default:false" json:"seeking_venue"`
	SeekingDescription string `gorm:"size:500" json:"seeking_description"`
}

// TableName explicitly sets the table name for GORM.
func (Artist) TableName() string {
	return "artists"
}
