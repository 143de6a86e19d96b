package models

// Category is the applicant's institutional case type. It decides which
// documents must be attached before a form can be submitted.
type Category string

const (
	CategoryNew      Category = "new"
	CategoryExisting Category = "existing"
	CategoryClosure  Category = "closure"
)

// Label returns the display name shown in the category picker.
func (c Category) Label() string {
	switch c {
	case CategoryNew:
		return "New Institution"
	case CategoryExisting:
		return "Existing Institution"
	case CategoryClosure:
		return "Institution Closure"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
