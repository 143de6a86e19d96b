package models

import "time"

type SubmissionState string

const (
	StateIdle                SubmissionState = "idle"
	StateCollectingDocuments SubmissionState = "collecting_documents"
	StateReadyToSubmit       SubmissionState = "ready_to_submit"
	StateSubmitting          SubmissionState = "submitting"
	StateSubmitted           SubmissionState = "submitted"
)

// Confirmation is returned by the submission backend once it accepts a form.
type Confirmation struct {
	ID            string    `json:"id"`
	Category      Category  `json:"category"`
	DocumentCount int       `json:"documentCount"`
	AcceptedAt    time.Time `json:"acceptedAt"`
}
