package integration

import "errors"

// ---------------------------------------------------------------------------
// Error Taxonomy
// ---------------------------------------------------------------------------
//
// Four distinct failure kinds cross this package's boundaries. Callers decide
// retry behaviour with errors.Is, never by matching message text:
//
//   - validation errors (ErrMissingField, ErrInvalidPayload) are permanent
//     rejections of a single entity and must not be retried;
//   - ErrTransport covers network/HTTP-level failures and is retryable;
//   - ErrPlatformRejected and ErrUnexpectedResponse are protocol application
//     failures: the platform accepted the call but rejected the operation,
//     so a blind retry will fail identically;
//   - ErrUnknownDriver is a configuration error, fatal at construction time.

var (
	// Validation errors (Mapper stage)
	ErrMissingField   = errors.New("integration: required field missing")
	ErrInvalidPayload = errors.New("integration: invalid payload")

	// Argument errors
	ErrInvalidArgument = errors.New("integration: invalid argument")

	// Transport errors (network/HTTP level, retryable)
	ErrTransport = errors.New("integration: platform request failed")

	// Protocol application errors (business-level, not retryable)
	ErrPlatformRejected   = errors.New("integration: platform rejected operation")
	ErrUnexpectedResponse = errors.New("integration: unexpected platform response")

	// Configuration errors
	ErrUnknownDriver = errors.New("integration: unknown transport driver")
)
