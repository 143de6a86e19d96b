package models

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry in a chat log. Messages are never edited after
// they are appended.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	// Error marks an assistant message written in place of a reply that
	// could not be obtained.
	Error bool `json:"error,omitempty"`
}
