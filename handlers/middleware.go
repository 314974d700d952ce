package handlers

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Recoverer turns a panic in a handler into the 500 page. It replaces chi's
// Recoverer, which only writes a bare status code.
func Recoverer(views *Views) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				views.Log.Error().Bytes("stack", debug.Stack()).Msg("panic while serving request")
				views.ServerError(w, r, fmt.Errorf("panic: %v", rec))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogPrinter adapts zerolog to chi's LoggerInterface.
type requestLogPrinter struct {
	log zerolog.Logger
}

func (p requestLogPrinter) Print(v ...interface{}) {
	p.log.Info().Msg(fmt.Sprint(v...))
}

// RequestLogger is chi's request logger writing through zerolog.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  requestLogPrinter{log: log.With().Str("component", "http").Logger()},
		NoColor: true,
	})
}
