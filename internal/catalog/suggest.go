package catalog

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// LookupError reports a value that is not part of a closed set, together
// with the closest valid value when one is near enough to be a typo.
type LookupError struct {
	Kind       error
	Value      string
	Suggestion string
}

func (e *LookupError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %q (did you mean %q?)", e.Kind, e.Value, e.Suggestion)
	}
	return fmt.Sprintf("%s: %q", e.Kind, e.Value)
}

func (e *LookupError) Unwrap() error { return e.Kind }

// Suggest returns the candidate closest to input, or "" when none is within
// a third of the input's length (minimum 2 edits).
func Suggest(input string, candidates []string) string {
	in := strings.ToLower(strings.TrimSpace(input))
	if in == "" {
		return ""
	}
	limit := max(2, len(in)/3)
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(in, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
