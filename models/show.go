package models

import "time"

// Show links one venue and one artist at a start time.
// The three columns together form the primary key; deleting either side removes the show.
type Show struct {
	VenueID   uint      `gorm:"primaryKey;autoIncrement:false" json:"venue_id"`
	ArtistID  uint      `gorm:"primaryKey;autoIncrement:false" json:"artist_id"`
	StartTime time.Time `gorm:"primaryKey" json:"start_time"`

	// Relationships, only used to declare the foreign keys
	Venue  Venue  `gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE" json:"-"`
	Artist Artist `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Show) TableName() string {
	return "shows"
}

// ShowListing is a show joined with the display fields of both sides.
type ShowListing struct {
	VenueID         uint      `json:"venue_id"`
	VenueName       string    `json:"venue_name"`
	VenueImageLink  string    `json:"venue_image_link"`
	ArtistID        uint      `json:"artist_id"`
	ArtistName      string    `json:"artist_name"`
	ArtistImageLink string    `json:"artist_image_link"`
	StartTime       time.Time `json:"start_time"`
}

// NamedRef is the {id, name} pair used by list and search pages.
type NamedRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// VenueLocation carries just enough of a venue to group it by area.
type VenueLocation struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}
