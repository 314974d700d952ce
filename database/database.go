package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/camden-git/fyyur/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// table names as migrated by GORM (see models.*.TableName)
const (
	venuesTable  = "venues"
	artistsTable = "artists"
	showsTable   = "shows"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere in the value.
// The term is lowered with strings.ToLower, the same function registered as
// ulower on every connection. LIKE wildcards inside term are escaped so they
// match literally.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// SearchVenues returns every venue whose name contains term, ignoring case.
func SearchVenues(ctx context.Context, db *sql.DB, term string) ([]models.NamedRef, error) {
	return searchByName(ctx, db, venuesTable, term)
}

// SearchArtists returns every artist whose name contains term, ignoring case.
func SearchArtists(ctx context.Context, db *sql.DB, term string) ([]models.NamedRef, error) {
	return searchByName(ctx, db, artistsTable, term)
}

func searchByName(ctx context.Context, db *sql.DB, table, term string) ([]models.NamedRef, error) {
	queryBuilder := psql.Select("id", "name").
		From(table).
		Where(sq.Expr(`ulower(name) LIKE ? ESCAPE '\'`, containsPattern(term))).
		OrderBy("name ASC", "id ASC")

	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for search on %s: %w", table, err)
	}
	return queryNamedRefs(ctx, db, sqlStr, args...)
}

// ListArtistRefs returns the id and name of every artist, ordered by name.
func ListArtistRefs(ctx context.Context, db *sql.DB) ([]models.NamedRef, error) {
	sqlStr, args, err := psql.Select("id", "name").
		From(artistsTable).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListArtistRefs: %w", err)
	}
	return queryNamedRefs(ctx, db, sqlStr, args...)
}

// ListVenueRefs returns the id and name of every venue, ordered by name.
func ListVenueRefs(ctx context.Context, db *sql.DB) ([]models.NamedRef, error) {
	sqlStr, args, err := psql.Select("id", "name").
		From(venuesTable).
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListVenueRefs: %w", err)
	}
	return queryNamedRefs(ctx, db, sqlStr, args...)
}

func queryNamedRefs(ctx context.Context, db *sql.DB, sqlStr string, args ...interface{}) ([]models.NamedRef, error) {
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	refs := []models.NamedRef{}
	for rows.Next() {
		var ref models.NamedRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("failed to scan id/name row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return refs, fmt.Errorf("error iterating id/name rows: %w", err)
	}
	return refs, nil
}

// ListVenueLocations returns id, name, city and state of every venue.
func ListVenueLocations(ctx context.Context, db *sql.DB) ([]models.VenueLocation, error) {
	sqlStr, args, err := psql.Select("id", "name", "city", "state").
		From(venuesTable).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for ListVenueLocations: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute ListVenueLocations query: %w", err)
	}
	defer rows.Close()

	locations := []models.VenueLocation{}
	for rows.Next() {
		var loc models.VenueLocation
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.City, &loc.State); err != nil {
			return nil, fmt.Errorf("failed to scan venue location row: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return locations, fmt.Errorf("error iterating venue location rows: %w", err)
	}
	return locations, nil
}

func showListingQuery() sq.SelectBuilder {
	return psql.Select(
		"s.venue_id", "v.name", "v.image_link",
		"s.artist_id", "a.name", "a.image_link",
		"s.start_time",
	).
		From(showsTable + " s").
		Join(venuesTable + " v ON v.id = s.venue_id").
		Join(artistsTable + " a ON a.id = s.artist_id").
		OrderBy("s.start_time ASC", "s.venue_id ASC", "s.artist_id ASC")
}

// ListShows returns every show with venue and artist display fields.
func ListShows(ctx context.Context, db *sql.DB) ([]models.ShowListing, error) {
	return queryShowListings(ctx, db, showListingQuery())
}

// ListShowsByVenue returns the shows hosted by one venue.
func ListShowsByVenue(ctx context.Context, db *sql.DB, venueID uint) ([]models.ShowListing, error) {
	return queryShowListings(ctx, db, showListingQuery().Where(sq.Eq{"s.venue_id": venueID}))
}

// ListShowsByArtist returns the shows played by one artist.
func ListShowsByArtist(ctx context.Context, db *sql.DB, artistID uint) ([]models.ShowListing, error) {
	return queryShowListings(ctx, db, showListingQuery().Where(sq.Eq{"s.artist_id": artistID}))
}

func queryShowListings(ctx context.Context, db *sql.DB, queryBuilder sq.SelectBuilder) ([]models.ShowListing, error) {
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for show listing: %w", err)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute show listing query: %w", err)
	}
	defer rows.Close()

	shows := []models.ShowListing{}
	for rows.Next() {
		var s models.ShowListing
		var venueImage, artistImage sql.NullString
		err := rows.Scan(&s.VenueID, &s.VenueName, &venueImage, &s.ArtistID, &s.ArtistName, &artistImage, &s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("failed to scan show listing row: %w", err)
		}
		s.VenueImageLink = venueImage.String
		s.ArtistImageLink = artistImage.String
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return shows, fmt.Errorf("error iterating show listing rows: %w", err)
	}
	return shows, nil
}
