package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"chat_session_id" validate:"required"`
	Chat          string    `json:"chat" validate:"required"`
}

type ChatEntryResponse struct {
	Id        string    `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Excerpts  []string  `json:"excerpts,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID          `json:"chat_session_id"`
	Sent          *ChatEntryResponse `json:"sent"`
	Reply         *ChatEntryResponse `json:"reply"`
}

type StatusResponse struct {
	HasCredential    bool `json:"has_credential"`
	HasKnowledgebase bool `json:"has_knowledgebase"`
	Ready            bool `json:"ready"`
	Preconfigured    bool `json:"preconfigured"`
}

type SuggestedQuestionsResponse struct {
	Questions []string `json:"questions"`
}
