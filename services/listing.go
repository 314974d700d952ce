package services

import (
	"sort"
	"time"

	"github.com/facette/natsort"

	"github.com/camden-git/fyyur/models"
)

// Area is one (city, state) pair and the venues located there.
type Area struct {
	City   string            `json:"city"`
	State  string            `json:"state"`
	Venues []models.NamedRef `json:"venues"`
}

// GroupVenuesByArea partitions venues by their exact (city, state) pair.
// Areas are ordered by city then state; venues inside an area by natural name
// order with the id as tie breaker. Every venue lands in exactly one area.
func GroupVenuesByArea(venues []models.VenueLocation) []Area {
	type areaKey struct{ city, state string }

	index := make(map[areaKey]int)
	areas := []Area{}
	for _, v := range venues {
		key := areaKey{v.City, v.State}
		i, ok := index[key]
		if !ok {
			i = len(areas)
			index[key] = i
			areas = append(areas, Area{City: v.City, State: v.State})
		}
		areas[i].Venues = append(areas[i].Venues, models.NamedRef{ID: v.ID, Name: v.Name})
	}

	sort.Slice(areas, func(i, j int) bool {
		if areas[i].City != areas[j].City {
			return areas[i].City < areas[j].City
		}
		return areas[i].State < areas[j].State
	})
	for _, a := range areas {
		SortNamedRefs(a.Venues)
	}
	return areas
}

// SortNamedRefs orders refs by natural name order ("Hall 2" before "Hall 10"), then id.
func SortNamedRefs(refs []models.NamedRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return natsort.Compare(refs[i].Name, refs[j].Name)
		}
		return refs[i].ID < refs[j].ID
	})
}

// SearchResult is what the search pages render.
type SearchResult struct {
	Count int               `json:"count"`
	Data  []models.NamedRef `json:"data"`
}

func NewSearchResult(refs []models.NamedRef) SearchResult {
	if refs == nil {
		refs = []models.NamedRef{}
	}
	return SearchResult{Count: len(refs), Data: refs}
}

// ShowPartition splits an entity's shows around a single instant.
type ShowPartition struct {
	PastShows          []models.ShowListing `json:"past_shows"`
	UpcomingShows      []models.ShowListing `json:"upcoming_shows"`
	PastShowsCount     int                  `json:"past_shows_count"`
	UpcomingShowsCount int                  `json:"upcoming_shows_count"`
}

// Counterpart picks the id on the other side of a show: the artist when
// listing a venue's shows, the venue when listing an artist's.
type Counterpart func(models.ShowListing) uint

// ArtistOf is the counterpart for a venue's shows.
func ArtistOf(s models.ShowListing) uint { return s.ArtistID }

// VenueOf is the counterpart for an artist's shows.
func VenueOf(s models.ShowListing) uint { return s.VenueID }

// PartitionShows puts shows starting strictly before now into PastShows and
// the rest into UpcomingShows. Counts are the number of distinct counterparts,
// not the number of shows.
func PartitionShows(shows []models.ShowListing, now time.Time, counterpart Counterpart) ShowPartition {
	p := ShowPartition{
		PastShows:     []models.ShowListing{},
		UpcomingShows: []models.ShowListing{},
	}
	for _, s := range shows {
		if s.StartTime.Before(now) {
			p.PastShows = append(p.PastShows, s)
		} else {
			p.UpcomingShows = append(p.UpcomingShows, s)
		}
	}
	p.PastShowsCount = DistinctCount(p.PastShows, counterpart)
	p.UpcomingShowsCount = DistinctCount(p.UpcomingShows, counterpart)
	return p
}

// DistinctCount returns how many different counterpart ids appear in shows.
func DistinctCount(shows []models.ShowListing, counterpart Counterpart) int {
	seen := make(map[uint]struct{}, len(shows))
	for _, s := range shows {
		seen[counterpart(s)] = struct{}{}
	}
	return len(seen)
}
