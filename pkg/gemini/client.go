package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client is a thin REST client for the Generative Language API, covering only
// the surface this application consumes: generateContent with the fileSearch
// tool, file search store management and operation polling.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL exists so tests can point the client at a local fake.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{StatusCode: res.StatusCode, Body: string(resBody)}
	}

	if out != nil {
		if err := json.Unmarshal(resBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		payloadJson, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(payloadJson)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

// GenerateContent calls models/{model}:generateContent.
func (c *Client) GenerateContent(ctx context.Context, model string, request *GenerateContentRequest) (*GenerateContentResponse, error) {
	var response GenerateContentResponse
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	if err := c.doJSON(ctx, http.MethodPost, path, request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// CreateFileSearchStore creates a server-side document store. The returned
// Name is the reference every other operation is scoped to.
func (c *Client) CreateFileSearchStore(ctx context.Context, displayName string) (*FileSearchStore, error) {
	var ragStore FileSearchStore
	payload := FileSearchStore{DisplayName: displayName}
	if err := c.doJSON(ctx, http.MethodPost, "/v1beta/fileSearchStores", payload, &ragStore); err != nil {
		return nil, err
	}
	return &ragStore, nil
}

// DeleteFileSearchStore force-deletes a store together with its documents.
func (c *Client) DeleteFileSearchStore(ctx context.Context, storeName string) error {
	path := fmt.Sprintf("/v1beta/%s?force=true", storeName)
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// UploadToFileSearchStore submits one file for asynchronous indexing and
// returns the pending operation handle.
func (c *Client) UploadToFileSearchStore(ctx context.Context, storeName, fileName string, data []byte) (*Operation, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, err
	}
	meta := uploadMetadata{File: uploadFileMetadata{DisplayName: fileName}}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return nil, err
	}

	filePart, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := filePart.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var op Operation
	path := fmt.Sprintf("/upload/v1beta/%s:uploadToFileSearchStore", storeName)
	if err := c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// GetOperation re-reads a pending operation.
func (c *Client) GetOperation(ctx context.Context, operationName string) (*Operation, error) {
	var op Operation
	path := "/v1beta/" + operationName
	if err := c.do(ctx, http.MethodGet, path, nil, "", &op); err != nil {
		return nil, err
	}
	return &op, nil
}
