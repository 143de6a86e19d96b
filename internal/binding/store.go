// Package binding tracks which file is attached to each document the
// selected category requires.
//
// A Store is not safe for concurrent use. It is owned by a single form
// session and only touched from that session's scheduler loop.
package binding

import (
	"errors"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/catalog"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/models"
)

var (
	ErrUnknownDocumentLabel = errors.New("unknown document label")
	ErrNoCategory           = errors.New("no application category selected")
)

type Store struct {
	category models.Category
	labels   []models.DocumentLabel
	files    map[models.DocumentLabel]*models.FileRef
}

func NewStore() *Store {
	return &Store{files: map[models.DocumentLabel]*models.FileRef{}}
}

// Select makes c the active category and drops every existing binding,
// even when c is already selected.
func (s *Store) Select(c models.Category) error {
	labels, err := catalog.RequirementsFor(c)
	if err != nil {
		return err
	}
	s.category = c
	s.labels = labels
	s.files = make(map[models.DocumentLabel]*models.FileRef, len(labels))
	return nil
}

// Category returns the active category; ok is false before the first Select.
func (s *Store) Category() (c models.Category, ok bool) {
	return s.category, s.labels != nil
}

// Attach binds ref to label, replacing any previous file. A nil ref clears
// the binding, which is what cancelling a file picker produces.
func (s *Store) Attach(label models.DocumentLabel, ref *models.FileRef) error {
	if s.labels == nil {
		return ErrNoCategory
	}
	if !s.requires(label) {
		return &catalog.LookupError{
			Kind:       ErrUnknownDocumentLabel,
			Value:      string(label),
			Suggestion: catalog.Suggest(string(label), s.labelStrings()),
		}
	}
	if ref == nil {
		delete(s.files, label)
		return nil
	}
	cp := *ref
	s.files[label] = &cp
	return nil
}

func (s *Store) IsBound(label models.DocumentLabel) bool {
	return s.files[label] != nil
}

// Complete reports whether every required document of the active category
// has a file attached.
func (s *Store) Complete() bool {
	if s.labels == nil {
		return false
	}
	return IsComplete(s.category, s.files)
}

// Bindings returns one entry per required label in catalog order.
func (s *Store) Bindings() []models.Binding {
	out := make([]models.Binding, 0, len(s.labels))
	for _, l := range s.labels {
		b := models.Binding{Label: l}
		if f := s.files[l]; f != nil {
			cp := *f
			b.File = &cp
		}
		out = append(out, b)
	}
	return out
}

func (s *Store) requires(label models.DocumentLabel) bool {
	for _, l := range s.labels {
		if l == label {
			return true
		}
	}
	return false
}

func (s *Store) labelStrings() []string {
	out := make([]string, len(s.labels))
	for i, l := range s.labels {
		out[i] = string(l)
	}
	return out
}
