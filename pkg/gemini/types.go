package gemini

import "fmt"

const (
	RoleUser  = "user"
	RoleModel = "model"
)

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Parts []*Part `json:"parts"`
	Role  string  `json:"role,omitempty"`
}

type GenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens,omitempty"`
}

type FileSearchTool struct {
	FileSearchStoreNames []string `json:"fileSearchStoreNames"`
}

type Tool struct {
	FileSearch *FileSearchTool `json:"fileSearch,omitempty"`
}

type GenerateContentRequest struct {
	Contents         []*Content        `json:"contents"`
	Tools            []*Tool           `json:"tools,omitempty"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

type RetrievedContext struct {
	Text string `json:"text,omitempty"`
}

type GroundingChunk struct {
	RetrievedContext *RetrievedContext `json:"retrievedContext,omitempty"`
}

type GroundingMetadata struct {
	GroundingChunks []*GroundingChunk `json:"groundingChunks,omitempty"`
}

type Candidate struct {
	Content           *Content           `json:"content"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

// Text concatenates the text parts of the first candidate. Empty when the
// model returned nothing usable.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		if p != nil {
			out += p.Text
		}
	}
	return out
}

// GroundingChunks returns the citation chunks of the first candidate, never nil.
func (r *GenerateContentResponse) GroundingChunks() []*GroundingChunk {
	if len(r.Candidates) == 0 || r.Candidates[0].GroundingMetadata == nil {
		return []*GroundingChunk{}
	}
	chunks := r.Candidates[0].GroundingMetadata.GroundingChunks
	if chunks == nil {
		return []*GroundingChunk{}
	}
	return chunks
}

type FileSearchStore struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type OperationError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Operation is a long-running server-side job, observed only through its
// done flag.
type Operation struct {
	Name  string          `json:"name"`
	Done  bool            `json:"done"`
	Error *OperationError `json:"error,omitempty"`
}

type uploadMetadata struct {
	File uploadFileMetadata `json:"file"`
}

type uploadFileMetadata struct {
	DisplayName string `json:"displayName"`
}

// APIError is a non-2xx vendor response. Auth failures are told apart from
// transport errors by the status code.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status error, got status %d. with response body %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether the response indicates a rejected credential
// rather than a server or transport fault.
func (e *APIError) IsAuthError() bool {
	switch e.StatusCode {
	case 400, 401, 403:
		return true
	}
	return false
}
