package handlers

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/camden-git/fyyur/models"
)

var stateChoices = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL", "GA", "HI", "ID", "IL",
	"IN", "IA", "KS", "KY", "LA", "ME", "MT", "NE", "NV", "NH", "NJ", "NM", "NY", "NC",
	"ND", "OH", "OK", "OR", "MD", "MA", "MI", "MN", "MS", "MO", "PA", "RI", "SC", "SD",
	"TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var genreChoices = []string{
	"Alternative", "Blues", "Classical", "Country", "Electronic", "Folk", "Funk",
	"Hip-Hop", "Heavy Metal", "Instrumental", "Jazz", "Musical Theatre", "Pop",
	"Punk", "R&B", "Reggae", "Rock n Roll", "Soul", "Other",
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ().-]{6,19}$`)

// start_time layouts accepted from the show form
var startTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

const startTimeLayout = "2006-01-02 15:04:05"

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func inChoices(choices []string) validator.Func {
	set := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		set[c] = struct{}{}
	}
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report fields by their form key
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("usstate", inChoices(stateChoices))
		_ = validate.RegisterValidation("genre", inChoices(genreChoices))
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("starttime", func(fl validator.FieldLevel) bool {
			_, err := parseStartTime(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// validateForm returns one readable message per failing field, or nil.
func validateForm(form interface{}) []string {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	// slice elements are reported as genres[1]
	if i := strings.IndexByte(label, '['); i >= 0 {
		label = label[:i]
	}
	label = strings.ReplaceAll(label, "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "usstate":
		return fmt.Sprintf("%s must be a US state code", label)
	case "genre":
		return fmt.Sprintf("%s contains an unknown genre", label)
	case "phone":
		return fmt.Sprintf("%s must be a phone number such as 415-555-0100", label)
	case "number":
		return fmt.Sprintf("%s must be a numeric id", label)
	case "starttime":
		return fmt.Sprintf("%s must look like %s", label, startTimeLayout)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func parseStartTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range startTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised start time %q", value)
}

// formChanges picks the submitted keys of a venue or artist form and maps them
// to column values. Keys that were not submitted are left out, so applying the
// result updates only what the user sent.
func formChanges(values url.Values, textFields []string, flagField string) map[string]interface{} {
	changes := make(map[string]interface{})
	for _, key := range textFields {
		if _, ok := values[key]; ok {
			changes[key] = strings.TrimSpace(values.Get(key))
		}
	}
	var genres models.Genres
	for _, g := range values["genres"] {
		if g = strings.TrimSpace(g); g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) > 0 {
		changes["genres"] = genres
	}
	if raw, ok := values[flagField]; ok {
		changes[flagField] = isChecked(raw)
	}
	return changes
}

// isChecked reports whether any submitted value of a checkbox means "on".
// Forms send a hidden "n" ahead of the checkbox so an unticked box is still present.
func isChecked(raw []string) bool {
	for _, v := range raw {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "y", "yes", "on", "true", "1":
			return true
		}
	}
	return false
}

var venueTextFields = []string{"name", "city", "state", "address", "phone", "image_link", "facebook_link", "website", "seeking_description"}

var artistTextFields = []string{"name", "city", "state", "phone", "image_link", "facebook_link", "website", "seeking_description"}

// VenueForm is the validated shape of the venue create and edit forms.
type VenueForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Address            string   `form:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" validate:"omitempty,url,max=120"`
	SeekingTalent      bool     `form:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func venueChanges(values url.Values) map[string]interface{} {
	return formChanges(values, venueTextFields, "seeking_talent")
}

func venueFormFromModel(v *models.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.City,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		Genres:             []string(v.Genres),
		ImageLink:          v.ImageLink,
		FacebookLink:       v.FacebookLink,
		Website:            v.Website,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
	}
}

// apply overlays column changes onto the form.
func (f *VenueForm) apply(changes map[string]interface{}) {
	for key, value := range changes {
		switch key {
		case "name":
			f.Name = value.(string)
		case "city":
			f.City = value.(string)
		case "state":
			f.State = value.(string)
		case "address":
			f.Address = value.(string)
		case "phone":
			f.Phone = value.(string)
		case "genres":
			f.Genres = []string(value.(models.Genres))
		case "image_link":
			f.ImageLink = value.(string)
		case "facebook_link":
			f.FacebookLink = value.(string)
		case "website":
			f.Website = value.(string)
		case "seeking_talent":
			f.SeekingTalent = value.(bool)
		case "seeking_description":
			f.SeekingDescription = value.(string)
		}
	}
}

func (f VenueForm) toModel() models.Venue {
	return models.Venue{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Address:            f.Address,
		Phone:              f.Phone,
		Genres:             models.Genres(f.Genres),
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Website:            f.Website,
		SeekingTalent:      f.SeekingTalent,
		SeekingDescription: f.SeekingDescription,
	}
}

// ArtistForm is the validated shape of the artist create and edit forms.
type ArtistForm struct {
	Name               string   `form:"name" validate:"required,max=120"`
	City               string   `form:"city" validate:"required,max=120"`
	State              string   `form:"state" validate:"required,usstate"`
	Phone              string   `form:"phone" validate:"omitempty,phone"`
	Genres             []string `form:"genres" validate:"required,min=1,dive,genre"`
	ImageLink          string   `form:"image_link" validate:"omitempty,url,max=500"`
	FacebookLink       string   `form:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" validate:"omitempty,url,max=120"`
	SeekingVenue       bool     `form:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" validate:"max=500"`
}

func artistChanges(values url.Values) map[string]interface{} {
	return formChanges(values, artistTextFields, "seeking_venue")
}

func artistFormFromModel(a *models.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Genres:             []string(a.Genres),
		ImageLink:          a.ImageLink,
		FacebookLink:       a.FacebookLink,
		Website:            a.Website,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
	}
}

func (f *ArtistForm) apply(changes map[string]interface{}) {
	for key, value := range changes {
		switch key {
		case "name":
			f.Name = value.(string)
		case "city":
			f.City = value.(string)
		case "state":
			f.State = value.(string)
		case "phone":
			f.Phone = value.(string)
		case "genres":
			f.Genres = []string(value.(models.Genres))
		case "image_link":
			f.ImageLink = value.(string)
		case "facebook_link":
			f.FacebookLink = value.(string)
		case "website":
			f.Website = value.(string)
		case "seeking_venue":
			f.SeekingVenue = value.(bool)
		case "seeking_description":
			f.SeekingDescription = value.(string)
		}
	}
}

func (f ArtistForm) toModel() models.Artist {
	return models.Artist{
		Name:               f.Name,
		City:               f.City,
		State:              f.State,
		Phone:              f.Phone,
		Genres:             models.Genres(f.Genres),
		ImageLink:          f.ImageLink,
		FacebookLink:       f.FacebookLink,
		Website:            f.Website,
		SeekingVenue:       f.SeekingVenue,
		SeekingDescription: f.SeekingDescription,
	}
}

// ShowForm is the validated shape of the show create form.
type ShowForm struct {
	ArtistID  string `form:"artist_id" validate:"required,number"`
	VenueID   string `form:"venue_id" validate:"required,number"`
	StartTime string `form:"start_time" validate:"required,starttime"`
}

func decodeShowForm(values url.Values) ShowForm {
	return ShowForm{
		ArtistID:  strings.TrimSpace(values.Get("artist_id")),
		VenueID:   strings.TrimSpace(values.Get("venue_id")),
		StartTime: strings.TrimSpace(values.Get("start_time")),
	}
}

// toModel converts a validated form.
func (f ShowForm) toModel() (models.Show, error) {
	artistID, err := strconv.ParseUint(f.ArtistID, 10, 64)
	if err != nil {
		return models.Show{}, fmt.Errorf("artist_id: %w", err)
	}
	venueID, err := strconv.ParseUint(f.VenueID, 10, 64)
	if err != nil {
		return models.Show{}, fmt.Errorf("venue_id: %w", err)
	}
	start, err := parseStartTime(f.StartTime)
	if err != nil {
		return models.Show{}, err
	}
	return models.Show{VenueID: uint(venueID), ArtistID: uint(artistID), StartTime: start}, nil
}
