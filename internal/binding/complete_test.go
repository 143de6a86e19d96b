package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/binding"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

func fullBindings(t *testing.T, c models.Category) map[models.DocumentLabel]*models.FileRef {
	t.Helper()
	labels, err := catalog.RequirementsFor(c)
	require.NoError(t, err)
	out := map[models.DocumentLabel]*models.FileRef{}
	for _, l := range labels {
		out[l] = file(string(l))
	}
	return out
}

func TestIsCompleteAllBound(t *testing.T) {
	for _, c := range catalog.Categories() {
		assert.True(t, binding.IsComplete(c, fullBindings(t, c)), c)
	}
}

func TestIsCompleteRemovingAnyOneFlips(t *testing.T) {
	for _, c := range catalog.Categories() {
		labels, err := catalog.RequirementsFor(c)
		require.NoError(t, err)
		for _, missing := range labels {
			b := fullBindings(t, c)
			delete(b, missing)
			assert.False(t, binding.IsComplete(c, b), "%s without %q", c, missing)

			b = fullBindings(t, c)
			b[missing] = nil
			assert.False(t, binding.IsComplete(c, b), "%s with nil %q", c, missing)
		}
	}
}

func TestIsCompleteEmptyAndUnknown(t *testing.T) {
	assert.False(t, binding.IsComplete(models.CategoryClosure, nil))
	assert.False(t, binding.IsComplete("merger", map[models.DocumentLabel]*models.FileRef{}))
}

func TestIsCompleteIgnoresExtraLabels(t *testing.T) {
	b := fullBindings(t, models.CategoryExisting)
	b["Faculty List"] = file("extra")
	assert.True(t, binding.IsComplete(models.CategoryExisting, b))
}

func TestStoreCompleteTracksBindings(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))
	require.NoError(t, s.Attach("Annual Report", file("a")))
	require.NoError(t, s.Attach("Compliance Certificate", file("b")))
	assert.False(t, s.Complete())

	require.NoError(t, s.Attach("Student Enrollment Data", file("c")))
	assert.True(t, s.Complete())

	require.NoError(t, s.Attach("Compliance Certificate", nil))
	assert.False(t, s.Complete())
}
