package binding

import (
	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

// IsComplete reports whether every document c requires has a file in
// bindings. It keeps no state and is re-run in full on every call.
func IsComplete(c models.Category, bindings map[models.DocumentLabel]*models.FileRef) bool {
	labels, err := catalog.RequirementsFor(c)
	if err != nil {
		return false
	}
	for _, l := range labels {
		if bindings[l] == nil {
			return false
		}
	}
	return true
}
