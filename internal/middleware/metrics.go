package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/wizzzeystore/wizzzey-store-web/internal/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Metrics counts requests per route template so path parameters such as
// collection slugs don't explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		metrics.HTTPRequests.WithLabelValues(routeName(r), strconv.Itoa(sw.status)).Inc()
	})
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
