package models

// DocumentLabel names one required document, e.g. "Annual Report".
type DocumentLabel string

// FileRef is an opaque handle to a file picked by the applicant.
// The engine never reads file contents, only what is recorded here.
type FileRef struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Binding associates a required document with the attached file, if any.
type Binding struct {
	Label DocumentLabel `json:"label"`
	File  *FileRef      `json:"file,omitempty"`
}

// Bound reports whether a file is attached.
func (b Binding) Bound() bool { return b.File != nil }
