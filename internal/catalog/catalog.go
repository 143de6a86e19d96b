// Package catalog holds the fixed set of documents each application
// category requires.
package catalog

import (
	"errors"
	"strings"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

var ErrUnknownCategory = errors.New("unknown application category")

// Categories lists every category in picker order.
func Categories() []models.Category {
	return []models.Category{models.CategoryNew, models.CategoryExisting, models.CategoryClosure}
}

// RequirementsFor returns the ordered document labels a category requires.
// The returned slice is a copy and may be modified by the caller.
func RequirementsFor(c models.Category) ([]models.DocumentLabel, error) {
	switch c {
	case models.CategoryNew:
		return []models.DocumentLabel{
			"Registration Certificate",
			"Land Documents",
			"Building Plan",
			"Faculty List",
		}, nil
	case models.CategoryExisting:
		return []models.DocumentLabel{
			"Annual Report",
			"Compliance Certificate",
			"Student Enrollment Data",
		}, nil
	case models.CategoryClosure:
		return []models.DocumentLabel{
			"No Objection Certificate",
			"Student Transfer Plan",
			"Asset Disposal Plan",
		}, nil
	}
	return nil, &LookupError{Kind: ErrUnknownCategory, Value: string(c), Suggestion: suggestCategory(string(c))}
}

// ParseCategory converts user input such as "Existing" into a Category.
func ParseCategory(s string) (models.Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories() {
		if v == string(c) {
			return c, nil
		}
	}
	return "", &LookupError{Kind: ErrUnknownCategory, Value: s, Suggestion: suggestCategory(v)}
}

func suggestCategory(v string) string {
	names := make([]string, 0, 3)
	for _, c := range Categories() {
		names = append(names, string(c))
	}
	return Suggest(v, names)
}

// Entry is one category with its display name and requirements, in the
// shape the API and the catalog export use.
type Entry struct {
	ID        models.Category        `json:"id" yaml:"id"`
	Name      string                 `json:"name" yaml:"name"`
	Documents []models.DocumentLabel `json:"documents" yaml:"documents"`
}

// Entries returns the whole catalog in picker order.
func Entries() []Entry {
	cats := Categories()
	out := make([]Entry, 0, len(cats))
	for _, c := range cats {
		docs, _ := RequirementsFor(c)
		out = append(out, Entry{ID: c, Name: c.Label(), Documents: docs})
	}
	return out
}
