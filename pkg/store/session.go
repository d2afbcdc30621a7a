package store

import "time"

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatEntry is one transcript message. Excerpts carry the retrieved text
// snippets backing an assistant answer; empty for user messages and for
// answers the vendor returned without citations.
type ChatEntry struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Excerpts  []string  `json:"excerpts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is an in-memory chat transcript. Transcripts are never persisted;
// they live for one screen visit and expire with the cache entry.
type Session struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Messages  []ChatEntry `json:"messages"`
}
