package catalog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

func TestRequirementsNonEmptyAndUnique(t *testing.T) {
	for _, c := range catalog.Categories() {
		labels, err := catalog.RequirementsFor(c)
		require.NoError(t, err, c)
		require.NotEmpty(t, labels, c)

		seen := map[models.DocumentLabel]bool{}
		for _, l := range labels {
			assert.False(t, seen[l], "duplicate label %q in %s", l, c)
			assert.NotEmpty(t, l)
			seen[l] = true
		}
	}
}

func TestRequirementsExisting(t *testing.T) {
	labels, err := catalog.RequirementsFor(models.CategoryExisting)
	require.NoError(t, err)
	assert.Equal(t, []models.DocumentLabel{
		"Annual Report",
		"Compliance Certificate",
		"Student Enrollment Data",
	}, labels)
}

func TestRequirementsReturnsCopy(t *testing.T) {
	labels, err := catalog.RequirementsFor(models.CategoryNew)
	require.NoError(t, err)
	labels[0] = "tampered"

	again, err := catalog.RequirementsFor(models.CategoryNew)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentLabel("Registration Certificate"), again[0])
}

func TestRequirementsUnknownCategory(t *testing.T) {
	_, err := catalog.RequirementsFor(models.Category("renewal"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, catalog.ErrUnknownCategory))
}

func TestParseCategory(t *testing.T) {
	c, err := catalog.ParseCategory("  Existing ")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryExisting, c)

	_, err = catalog.ParseCategory("exsting")
	require.ErrorIs(t, err, catalog.ErrUnknownCategory)

	var lookup *catalog.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, "existing", lookup.Suggestion)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"Annual Report", "Compliance Certificate", "Student Enrollment Data"}

	assert.Equal(t, "Annual Report", catalog.Suggest("anual report", candidates))
	assert.Equal(t, "", catalog.Suggest("building plan", candidates))
	assert.Equal(t, "", catalog.Suggest("", candidates))
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "New Institution", models.CategoryNew.Label())
	assert.Equal(t, "Existing Institution", models.CategoryExisting.Label())
	assert.Equal(t, "Institution Closure", models.CategoryClosure.Label())
}

func TestEntries(t *testing.T) {
	entries := catalog.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, models.CategoryNew, entries[0].ID)
	assert.Equal(t, "New Institution", entries[0].Name)
	assert.Len(t, entries[0].Documents, 4)
	assert.Equal(t, models.DocumentLabel("Asset Disposal Plan"), entries[2].Documents[2])
}
