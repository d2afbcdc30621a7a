package service

import "errors"

var (
	// ErrNoCredentialConfigured is returned before any vendor call when no
	// API key can be resolved from deployment config or saved settings.
	ErrNoCredentialConfigured = errors.New("no API key configured, add your Gemini API key in the admin panel")

	// ErrStoreCreationFailed means the vendor accepted the request but the
	// response carried no store reference.
	ErrStoreCreationFailed = errors.New("failed to create knowledgebase store: reference is missing")

	// ErrIngestTimeout is returned when an indexing operation stays pending
	// past the configured poll budget.
	ErrIngestTimeout = errors.New("document indexing did not complete in time")

	// ErrKnowledgebasePreconfigured rejects rebuild and clear actions when
	// the store reference comes from deployment config; that reference is
	// immutable at runtime.
	ErrKnowledgebasePreconfigured = errors.New("knowledgebase is preconfigured by deployment and cannot be changed here")

	// ErrSessionNotFound covers expired or unknown chat sessions.
	ErrSessionNotFound = errors.New("chat session not found or expired")

	// ErrGatewayNotInitialized is a defensive guard; reaching it is a bug in
	// the calling sequence, not a user-facing condition.
	ErrGatewayNotInitialized = errors.New("vendor gateway used before initialization")
)
