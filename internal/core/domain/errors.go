package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrVideoTooLong indicates the video exceeds the ingestion duration ceiling
	ErrVideoTooLong = errors.New("video too long")

	// ErrVideoUnavailable indicates the video could not be resolved or fetched
	ErrVideoUnavailable = errors.New("video unavailable")

	// ErrIngestInProgress indicates another ingestion of the same video is running
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidCredentials indicates a wrong admin password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrServiceUnavailable indicates an external collaborator could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")
)
