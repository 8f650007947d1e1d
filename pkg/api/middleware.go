package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-api/pkg/logging"
)

const (
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"

	// HeaderProcessTime reports the handler latency in seconds.
	HeaderProcessTime = "X-Process-Time"
)

// timedWriter stamps the process time header right before the status line
// goes out and remembers what was written for the access log.
type timedWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	bytes       int
	wroteHeader bool
}

func (w *timedWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = code
	elapsed := time.Since(w.start).Seconds()
	w.Header().Set(HeaderProcessTime, strconv.FormatFloat(elapsed, 'f', 6, 64))
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// requestLogging assigns a request id, attaches a request-scoped logger to
// the context and writes one access log line per request.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)

		ctx := logging.WithRequestID(r.Context(), id)
		tw := &timedWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}

		next.ServeHTTP(tw, r.WithContext(ctx))

		if !tw.wroteHeader {
			tw.WriteHeader(http.StatusOK)
		}

		logger := logging.FromContext(ctx)
		event := logger.Info()
		if tw.status >= http.StatusInternalServerError {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", tw.status).
			Int("bytes", tw.bytes).
			Dur("duration", time.Since(tw.start)).
			Msg("Request handled")
	})
}

// recoveryLogger adapts zerolog to the gorilla RecoveryHandlerLogger.
type recoveryLogger struct {
	logger zerolog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error().Msg(fmt.Sprint(v...))
}
