package models

// Venue is a place that can host shows.
// It corresponds to the 'venues' table. (name, city, state) is unique.
type Venue struct {
	ID                 uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string `gorm:"not null;uniqueIndex:idx_venue_listing" json:"name"`
	City               string `gorm:"size:120;not null;uniqueIndex:idx_venue_listing" json:"city"`
	State              string `gorm:"size:120;not null;uniqueIndex:idx_venue_listing" json:"state"`
	Address            string `gorm:"size:120" json:"address"`
	Phone              string `gorm:"size:120" json:"phone"`
	Genres             Genres `json:"genres"`
	ImageLink          string `gorm:"size:500" json:"image_link"`
	FacebookLink       string `gorm:"size:120" json:"facebook_link"`
	Website            string `gorm:"size:120" json:"website"`
	SeekingTalent      bool   `gorm:"not null;default:false" json:"seeking_talent"`
	SeekingDescription string `gorm:"size:500" json:"seeking_description"`
}

// TableName explicitly sets the table name for GORM.
func (Venue) TableName() string {
	return "venues"
}
