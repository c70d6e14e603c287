// Package meta serves the static course catalogue used by the portal's
// filters and autocomplete inputs. These routes need no token.
package meta

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aanand-mishra/edu-admin-api/internal/types"
	"github.com/aanand-mishra/edu-admin-api/internal/utils/response"
)

// Catalogue returns the catalogue the portal ships with.
func Catalogue() types.Meta {
	return types.Meta{
		Subjects: []string{
			"Mathematics", "Physics", "Chemistry", "Biology",
			"English Literature", "History", "Geography", "Computer Science",
		},
		Curriculums: []string{
			"IGCSE", "IB", "A-Level", "GCSE", "CBSE", "American Curriculum",
		},
		Categories: []string{
			"Primary", "Secondary", "High School", "University", "Test Prep",
		},
	}
}

// Get handles GET /api/meta.
func Get(catalogue types.Meta) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting meta")
		response.WriteJSON(w, http.StatusOK, catalogue)
	}
}

// Autocomplete handles GET /api/meta/autocomplete?query=
// It returns catalogue entries containing query (case-insensitive),
// subjects first, then curriculums, then categories. A blank query
// returns an empty list.
func Autocomplete(catalogue types.Meta) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		slog.Info("autocompleting", slog.String("query", query))

		response.WriteJSON(w, http.StatusOK, Suggest(catalogue, query))
	}
}

// Suggest returns the entries of catalogue matching query.
func Suggest(catalogue types.Meta, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0)
	if q == "" {
		return out
	}

	seen := make(map[string]bool)
	for _, list := range [][]string{catalogue.Subjects, catalogue.Curriculums, catalogue.Categories} {
		for _, entry := range list {
			if !seen[entry] && strings.Contains(strings.ToLower(entry), q) {
				seen[entry] = true
				out = append(out, entry)
			}
		}
	}
	return out
}
