// Package filter computes the visible subset of the story list. It is read-only
// and recomputed on every render.
package filter

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/idilsaglam/stories/internal/model"
)

// Titles returns, in order, the stories whose title contains term under Unicode
// case folding. An empty term keeps every story. items is never modified.
func Titles(items []model.Story, term string) []model.Story {
	out := make([]model.Story, 0, len(items))
	if term == "" {
		return append(out, items...)
	}
	fold := cases.Fold()
	needle := fold.String(term)
	for _, st := range items {
		if strings.Contains(fold.String(st.Title), needle) {
			out = append(out, st)
		}
	}
	return out
}

// Closest returns the story whose folded title is nearest to term by edit
// distance. Ties go to the earlier story.
func Closest(items []model.Story, term string) (model.Story, bool) {
	if term == "" || len(items) == 0 {
		return model.Story{}, false
	}
	fold := cases.Fold()
	needle := fold.String(term)

	best, bestDist := 0, -1
	for i, st := range items {
		d := levenshtein.ComputeDistance(needle, fold.String(st.Title))
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return items[best], true
}
