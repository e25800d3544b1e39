package domain

import "errors"

var (
	// ErrUnauthorized signals a missing or invalid user identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyQuery signals a search request without a query string.
	ErrEmptyQuery = errors.New("query is required")
	// ErrEmptyText signals a text operation without input text.
	ErrEmptyText = errors.New("text is required")
	// ErrSessionNotFound signals a missing journaling session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidSession signals a malformed session payload.
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidEntry signals an entry payload with missing required fields.
	ErrInvalidEntry = errors.New("invalid entry")
	// ErrGenerationUnavailable signals a text generation provider failure.
	ErrGenerationUnavailable = errors.New("generation provider error")
	// ErrIndexUnavailable signals a search index service failure.
	ErrIndexUnavailable = errors.New("search index error")
	// ErrTokenUnavailable signals a transcription token provider failure.
	ErrTokenUnavailable = errors.New("transcription token provider error")
)
