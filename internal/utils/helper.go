package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/wizzzeystore/wizzzey-store-web/internal/logger"
	"go.uber.org/zap"
)

var (
	nonAlnumRegex  = regexp.MustCompile(`[^a-z0-9]+`)
	multiDashRegex = regexp.MustCompile(`-+`)
)

// Slugify turns a title into a lowercase, dash separated slug.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = nonAlnumRegex.ReplaceAllString(slug, "-")
	slug = multiDashRegex.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func StrPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

func Float64Ptr(f float64) *float64 {
	return &f
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L().Error("failed to write JSON response", zap.Error(err))
	}
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, map[string]string{"error": message})
}
