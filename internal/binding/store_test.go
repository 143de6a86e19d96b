package binding_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/binding"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

func file(name string) *models.FileRef {
	return &models.FileRef{ID: name, FileName: name + ".pdf", ContentType: "application/pdf", Size: 10}
}

func TestAttachBeforeSelect(t *testing.T) {
	s := binding.NewStore()
	err := s.Attach("Annual Report", file("a"))
	assert.ErrorIs(t, err, binding.ErrNoCategory)
	assert.False(t, s.Complete())
}

func TestSelectAlwaysClears(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))
	require.NoError(t, s.Attach("Annual Report", file("a")))
	require.True(t, s.IsBound("Annual Report"))

	// Reselecting the same category is a fresh start.
	require.NoError(t, s.Select(models.CategoryExisting))
	assert.False(t, s.IsBound("Annual Report"))

	require.NoError(t, s.Attach("Annual Report", file("a")))
	require.NoError(t, s.Select(models.CategoryClosure))
	for _, b := range s.Bindings() {
		assert.False(t, b.Bound(), b.Label)
	}
	c, ok := s.Category()
	assert.True(t, ok)
	assert.Equal(t, models.CategoryClosure, c)
}

func TestSelectUnknownCategoryKeepsState(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))
	require.NoError(t, s.Attach("Annual Report", file("a")))

	err := s.Select("merger")
	require.ErrorIs(t, err, catalog.ErrUnknownCategory)
	assert.True(t, s.IsBound("Annual Report"))
}

func TestAttachUnknownLabel(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))

	err := s.Attach("Anual Report", file("a"))
	require.ErrorIs(t, err, binding.ErrUnknownDocumentLabel)

	var lookup *catalog.LookupError
	require.True(t, errors.As(err, &lookup))
	assert.Equal(t, "Annual Report", lookup.Suggestion)

	// Labels from another category are not part of the active set.
	assert.ErrorIs(t, s.Attach("Faculty List", file("f")), binding.ErrUnknownDocumentLabel)
}

func TestAttachReplaceAndClear(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))

	require.NoError(t, s.Attach("Annual Report", file("first")))
	require.NoError(t, s.Attach("Annual Report", file("second")))
	assert.Equal(t, "second.pdf", s.Bindings()[0].File.FileName)

	require.NoError(t, s.Attach("Annual Report", nil))
	assert.False(t, s.IsBound("Annual Report"))
}

func TestAttachCopiesRef(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryExisting))

	ref := file("a")
	require.NoError(t, s.Attach("Annual Report", ref))
	ref.FileName = "mutated"
	assert.Equal(t, "a.pdf", s.Bindings()[0].File.FileName)
}

func TestBindingsOrder(t *testing.T) {
	s := binding.NewStore()
	require.NoError(t, s.Select(models.CategoryNew))
	require.NoError(t, s.Attach("Faculty List", file("f")))

	got := s.Bindings()
	want, err := catalog.RequirementsFor(models.CategoryNew)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i], got[i].Label)
	}
	assert.True(t, got[3].Bound())
	assert.False(t, got[0].Bound())
}
