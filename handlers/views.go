package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const flashCookieName = "fyyur_flash"

// Page is the value every template is executed with.
type Page struct {
	Flashes []string
	Data    interface{}
}

// Views renders the embedded HTML templates. Each page is parsed together with
// the shared layout and partials and executed through the "layout" template.
type Views struct {
	pages map[string]*template.Template
	Log   zerolog.Logger
}

var templateFuncs = template.FuncMap{
	"datetime": formatDateTime,
	"states":   func() []string { return stateChoices },
	"genres":   func() []string { return genreChoices },
	"contains": func(list []string, s string) bool {
		for _, item := range list {
			if item == s {
				return true
			}
		}
		return false
	},
}

// formatDateTime mirrors the "medium" and "full" date formats of the listing pages.
// Times are shown in the server's zone, the zone start times are entered in.
func formatDateTime(format string, t time.Time) string {
	t = t.In(time.Local)
	switch format {
	case "full":
		return t.Format("Monday January 2, 2006 at 3:04PM")
	case "iso":
		return t.Format(time.RFC3339)
	default:
		return t.Format("Mon 01, 02, 2006 3:04PM")
	}
}

// NewViews parses every page under templates/{pages,forms,errors} in fsys.
func NewViews(fsys fs.FS, log zerolog.Logger) (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template), Log: log}
	for _, dir := range []string{"pages", "forms", "errors"} {
		files, err := fs.Glob(fsys, path.Join("templates", dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s templates: %w", dir, err)
		}
		for _, file := range files {
			tmpl, err := template.New(path.Base(file)).Funcs(templateFuncs).ParseFS(fsys,
				"templates/layouts/*.html",
				"templates/partials/*.html",
				file,
			)
			if err != nil {
				return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
			}
			name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
			v.pages[name] = tmpl
		}
	}
	return v, nil
}

// Render writes the named page with status. Pending flash messages from the
// cookie are consumed and shown together with notices.
func (v *Views) Render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}, notices ...string) {
	tmpl, ok := v.pages[name]
	if !ok {
		v.Log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := Page{Flashes: append(popFlashes(w, r), notices...), Data: data}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		v.Log.Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		v.Log.Debug().Err(err).Str("template", name).Msg("client went away while writing page")
	}
}

func readFlashes(r *http.Request) []string {
	c, err := r.Cookie(flashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	values, err := url.ParseQuery(c.Value)
	if err != nil {
		return nil
	}
	return values["m"]
}

// AddFlash queues a message for the next rendered page, typically after a redirect.
func AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	messages := append(readFlashes(r), message)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.Values{"m": messages}.Encode(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func popFlashes(w http.ResponseWriter, r *http.Request) []string {
	messages := readFlashes(r)
	if messages == nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return messages
}
