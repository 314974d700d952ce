package handlers

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/fyyur/database"
	"github.com/camden-git/fyyur/models"
	"github.com/camden-git/fyyur/repository"
	"github.com/camden-git/fyyur/web"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type testSite struct {
	handler http.Handler
	db      *gorm.DB
	views   *Views
}

func newTestViews(t *testing.T) *Views {
	t.Helper()
	views, err := NewViews(web.Files, zerolog.Nop())
	require.NoError(t, err)
	return views
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "fyyur.db"), zerolog.Nop(), false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	views := newTestViews(t)
	static, err := fs.Sub(web.Files, "static")
	require.NoError(t, err)

	handler, err := NewRouter(RouterConfig{
		DB:             db,
		Views:          views,
		Static:         static,
		Log:            zerolog.Nop(),
		AllowedOrigins: []string{"http://localhost:8080"},
		Now:            func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return &testSite{handler: handler, db: db, views: views}
}

func (s *testSite) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testSite) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return s.do(t, req)
}

func (s *testSite) post(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testSite) addVenue(t *testing.T, v models.Venue) models.Venue {
	t.Helper()
	require.NoError(t, repository.NewGormVenueRepository(s.db).Create(context.Background(), &v))
	return v
}

func (s *testSite) addArtist(t *testing.T, a models.Artist) models.Artist {
	t.Helper()
	require.NoError(t, repository.NewGormArtistRepository(s.db).Create(context.Background(), &a))
	return a
}

func (s *testSite) addShow(t *testing.T, venueID, artistID uint, start time.Time) {
	t.Helper()
	show := models.Show{VenueID: venueID, ArtistID: artistID, StartTime: start}
	require.NoError(t, repository.NewGormShowRepository(s.db).Create(context.Background(), &show))
}

func venueForm() url.Values {
	return url.Values{
		"name":    {"The Fillmore"},
		"city":    {"San Francisco"},
		"state":   {"CA"},
		"address": {"1805 Geary Blvd"},
		"phone":   {"415-346-6000"},
		"genres":  {"Rock n Roll", "Funk"},
		"website": {"https://www.thefillmore.com"},
	}
}

func fillmoreVenue() models.Venue {
	return models.Venue{
		Name:    "The Fillmore",
		City:    "San Francisco",
		State:   "CA",
		Address: "1805 Geary Blvd",
		Phone:   "415-346-6000",
		Genres:  models.Genres{"Rock n Roll", "Funk"},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func flashCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookieName {
			return c
		}
	}
	t.Fatalf("response did not set %s", flashCookieName)
	return nil
}

func TestHomeAndStatic(t *testing.T) {
	site := newTestSite(t)

	rec := site.get(t, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post a venue")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = site.get(t, "/static/css/main.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Cache-Control"))

	rec = site.get(t, "/static/css/missing.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundPages(t *testing.T) {
	site := newTestSite(t)
	site.addVenue(t, fillmoreVenue())

	for _, target := range []string{
		"/no/such/page",
		"/venues/999",
		"/venues/abc",
		"/venues/0",
		"/venues/999/edit",
		"/artists/12",
		"/artists/xyz/edit",
	} {
		rec := site.get(t, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "could not be found", target)
	}
}

func TestCreateVenue(t *testing.T) {
	site := newTestSite(t)

	rec := site.post(t, "/venues/create", venueForm())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue The Fillmore was successfully listed!")

	rec = site.post(t, "/venues/create", venueForm())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue The Fillmore is already listed.")
	assert.Equal(t, int64(1), countRows(t, site.db, &models.Venue{}))

	nevada := venueForm()
	nevada.Set("state", "NV")
	rec = site.post(t, "/venues/create", nevada)
	assert.Contains(t, rec.Body.String(), "Venue The Fillmore was successfully listed!")
	assert.Equal(t, int64(2), countRows(t, site.db, &models.Venue{}))

	var stored models.Venue
	require.NoError(t, site.db.First(&stored, "state = ?", "NV").Error)
	assert.Equal(t, models.Genres{"Rock n Roll", "Funk"}, stored.Genres)
	assert.False(t, stored.SeekingTalent)
}

func TestCreateVenueValidation(t *testing.T) {
	site := newTestSite(t)

	cases := map[string]func(url.Values){
		"missing name":  func(f url.Values) { f.Del("name") },
		"unknown state": func(f url.Values) { f.Set("state", "ZZ") },
		"unknown genre": func(f url.Values) { f.Set("genres", "Polka Fusion") },
		"no genres":     func(f url.Values) { f.Del("genres") },
		"bad phone":     func(f url.Values) { f.Set("phone", "call me") },
		"bad website":   func(f url.Values) { f.Set("website", "not a url") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := venueForm()
			mutate(form)
			rec := site.post(t, "/venues/create", form)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), "could not be listed.")
		})
	}
	assert.Zero(t, countRows(t, site.db, &models.Venue{}))
}

func TestEditVenueAppliesOnlySubmittedFields(t *testing.T) {
	site := newTestSite(t)
	v := fillmoreVenue()
	v.SeekingTalent = true
	v.SeekingDescription = "Openers wanted"
	v = site.addVenue(t, v)

	rec := site.post(t, "/venues/1/edit", url.Values{"city": {"Oakland"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/venues/1", rec.Header().Get("Location"))

	var stored models.Venue
	require.NoError(t, site.db.First(&stored, v.ID).Error)
	want := v
	want.City = "Oakland"
	assert.Equal(t, want, stored)

	page := site.get(t, "/venues/1", flashCookie(t, rec))
	assert.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Venue The Fillmore was successfully updated!")
	assert.Contains(t, body, "Oakland")
	assert.Contains(t, body, "Openers wanted")
}

func TestEditVenueClearsCheckbox(t *testing.T) {
	site := newTestSite(t)
	v := fillmoreVenue()
	v.SeekingTalent = true
	v = site.addVenue(t, v)

	rec := site.post(t, "/venues/1/edit", url.Values{"seeking_talent": {"n"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var stored models.Venue
	require.NoError(t, site.db.First(&stored, v.ID).Error)
	assert.False(t, stored.SeekingTalent)
	assert.Equal(t, v.Genres, stored.Genres)
}

func TestEditVenueRejectsInvalidAndDuplicate(t *testing.T) {
	site := newTestSite(t)
	site.addVenue(t, fillmoreVenue())
	other := fillmoreVenue()
	other.State = "NV"
	site.addVenue(t, other)

	rec := site.post(t, "/venues/2/edit", url.Values{"state": {"XX"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be updated.")

	rec = site.post(t, "/venues/2/edit", url.Values{"state": {"CA"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Venue The Fillmore is already listed.")

	var stored models.Venue
	require.NoError(t, site.db.First(&stored, 2).Error)
	assert.Equal(t, "NV", stored.State)
}

func TestEditVenueFormIsPrefilled(t *testing.T) {
	site := newTestSite(t)
	site.addVenue(t, fillmoreVenue())

	rec := site.get(t, "/venues/1/edit")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="The Fillmore"`)
	assert.Contains(t, body, `action="/venues/1/edit"`)
}

func TestVenueDetailSplitsShowsAtNow(t *testing.T) {
	site := newTestSite(t)
	venue := site.addVenue(t, fillmoreVenue())
	guns := site.addArtist(t, models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"})
	sax := site.addArtist(t, models.Artist{Name: "The Wild Sax Band", City: "San Francisco", State: "CA"})

	site.addShow(t, venue.ID, guns.ID, testNow.Add(-10*time.Minute))
	site.addShow(t, venue.ID, guns.ID, testNow.Add(10*time.Minute))
	site.addShow(t, venue.ID, guns.ID, testNow.Add(20*time.Minute))
	site.addShow(t, venue.ID, sax.ID, testNow.Add(24*time.Hour))

	rec := site.get(t, "/venues/1")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 Upcoming Shows")
	assert.Contains(t, body, "1 Past Show")

	rec = site.get(t, "/artists/2")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "1 Upcoming Show")
	assert.Contains(t, body, "0 Past Shows")
	assert.Contains(t, body, "The Fillmore")
}

func TestListPages(t *testing.T) {
	site := newTestSite(t)
	venue := site.addVenue(t, fillmoreVenue())
	other := fillmoreVenue()
	other.Name = "Park Square Live Music & Coffee"
	other.State = "NV"
	site.addVenue(t, other)
	artist := site.addArtist(t, models.Artist{Name: "Matt Quevedo", City: "New York", State: "NY"})
	site.addShow(t, venue.ID, artist.ID, testNow.Add(time.Hour))

	rec := site.get(t, "/venues")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "San Francisco, CA")
	assert.Contains(t, body, "San Francisco, NV")
	assert.Less(t, strings.Index(body, "San Francisco, CA"), strings.Index(body, "San Francisco, NV"))

	rec = site.get(t, "/artists")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<a href="/artists/1">Matt Quevedo</a>`)

	rec = site.get(t, "/shows")
	assert.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Matt Quevedo")
	assert.Contains(t, body, "The Fillmore")
}

func TestSearch(t *testing.T) {
	site := newTestSite(t)
	site.addVenue(t, fillmoreVenue())
	park := fillmoreVenue()
	park.Name = "Park Square Live Music and Coffee"
	site.addVenue(t, park)
	hall := fillmoreVenue()
	hall.Name = "The Dueling Pianos Bar"
	site.addVenue(t, hall)
	site.addArtist(t, models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"})

	rec := site.post(t, "/venues/search", url.Values{"search_term": {"MUSIC"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `for "MUSIC": 1`)
	assert.Contains(t, body, `<a href="/venues/2">Park Square Live Music and Coffee</a>`)

	rec = site.post(t, "/venues/search", url.Values{"search_term": {"the"}})
	assert.Contains(t, rec.Body.String(), `for "the": 2`)

	rec = site.post(t, "/artists/search", url.Values{"search_term": {"n p"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `for "n p": 1`)
	assert.Contains(t, body, `<a href="/artists/1">Guns N Petals</a>`)

	rec = site.post(t, "/artists/search", url.Values{"search_term": {"zzz"}})
	assert.Contains(t, rec.Body.String(), `for "zzz": 0`)
}

func TestDeleteVenue(t *testing.T) {
	site := newTestSite(t)
	venue := site.addVenue(t, fillmoreVenue())
	other := fillmoreVenue()
	other.State = "NV"
	site.addVenue(t, other)
	artist := site.addArtist(t, models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"})
	site.addShow(t, venue.ID, artist.ID, testNow.Add(time.Hour))

	rec := site.do(t, httptest.NewRequest(http.MethodDelete, "/venues/1", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	home := site.get(t, "/", flashCookie(t, rec))
	assert.Contains(t, home.Body.String(), "Venue The Fillmore was successfully deleted.")
	assert.Zero(t, countRows(t, site.db, &models.Show{}))
	assert.Equal(t, int64(1), countRows(t, site.db, &models.Artist{}))

	rec = site.do(t, httptest.NewRequest(http.MethodDelete, "/venues/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = site.post(t, "/venues/2/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	home = site.get(t, "/", flashCookie(t, rec))
	assert.Contains(t, home.Body.String(), "was successfully deleted.")
	assert.Zero(t, countRows(t, site.db, &models.Venue{}))
}

func TestCreateArtistAndEdit(t *testing.T) {
	site := newTestSite(t)
	form := url.Values{
		"name":          {"Matt Quevedo"},
		"city":          {"New York"},
		"state":         {"NY"},
		"phone":         {"300-400-5000"},
		"genres":        {"Jazz"},
		"seeking_venue": {"n", "y"},
	}

	rec := site.post(t, "/artists/create", form)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Artist Matt Quevedo was successfully listed!")

	rec = site.post(t, "/artists/create", form)
	assert.Contains(t, rec.Body.String(), "Artist Matt Quevedo is already listed.")

	rec = site.post(t, "/artists/1/edit", url.Values{"genres": {"Jazz", "Blues"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/artists/1", rec.Header().Get("Location"))

	var stored models.Artist
	require.NoError(t, site.db.First(&stored, 1).Error)
	assert.Equal(t, models.Genres{"Jazz", "Blues"}, stored.Genres)
	assert.True(t, stored.SeekingVenue)
	assert.Equal(t, "New York", stored.City)
}

func TestCreateShow(t *testing.T) {
	site := newTestSite(t)
	site.addVenue(t, fillmoreVenue())
	site.addArtist(t, models.Artist{Name: "Guns N Petals", City: "San Francisco", State: "CA"})

	rec := site.get(t, "/shows/create")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Guns N Petals")

	form := url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2026-07-04 20:00:00"}}
	rec = site.post(t, "/shows/create", form)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Show was successfully listed!")

	rec = site.post(t, "/shows/create", form)
	assert.Contains(t, rec.Body.String(), "Show is already listed.")
	assert.Equal(t, int64(1), countRows(t, site.db, &models.Show{}))

	unknown := url.Values{"artist_id": {"1"}, "venue_id": {"7"}, "start_time": {"2026-07-04 20:00:00"}}
	rec = site.post(t, "/shows/create", unknown)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Show could not be listed.")

	badTime := url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"next tuesday"}}
	rec = site.post(t, "/shows/create", badTime)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	assert.Equal(t, int64(1), countRows(t, site.db, &models.Show{}))
}

func TestPersistenceFailureRendersIncident(t *testing.T) {
	site := newTestSite(t)
	sqlDB, err := site.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	for _, target := range []string{"/venues", "/artists", "/shows", "/venues/1"} {
		rec := site.get(t, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Incident:", target)
	}

	rec := site.post(t, "/venues/create", venueForm())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRecovererRendersServerError(t *testing.T) {
	views := newTestViews(t)
	handler := Recoverer(views)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(errors.New("boom"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incident:")
}

func TestFlashIsShownOnce(t *testing.T) {
	views := newTestViews(t)

	rec := httptest.NewRecorder()
	AddFlash(rec, httptest.NewRequest(http.MethodGet, "/", nil), "Saved & done")
	cookie := flashCookie(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	views.Home(rec, req)
	assert.Contains(t, rec.Body.String(), "Saved &amp; done")

	cleared := flashCookie(t, rec)
	assert.Equal(t, -1, cleared.MaxAge)
}
