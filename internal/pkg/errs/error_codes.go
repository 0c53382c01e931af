/*
Package errs provides custom error types and application-level error code constants.

These error codes identify validation, content-policy and session errors both inside the
relay and in the acknowledgement frames sent back to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request or frame parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that a request body or inbound frame is not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrUnsupportedMessageType indicates that an inbound frame carried an unknown type.
	ErrUnsupportedMessageType = 1008
)

// 2xxx: Room and Content Business Logic Errors
const (
	// ErrMessageContentTooLong indicates that the user's message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrProfanity indicates that the message was rejected by the content filter.
	ErrProfanity = 2202

	// ErrMissingField indicates that the username or room was empty after trimming.
	ErrMissingField = 2301

	// ErrUsernameTaken indicates that another user in the same room already holds the username.
	ErrUsernameTaken = 2302

	// ErrInvalidLocation indicates that the shared coordinates are out of range.
	ErrInvalidLocation = 2303
)

// 3xxx: Session Errors
const (
	// ErrNotJoined indicates that the connection has not joined a room yet.
	ErrNotJoined = 3101

	// ErrAlreadyJoined indicates that the connection is already bound to a user.
	ErrAlreadyJoined = 3102

	// ErrSessionClosed indicates that the connection has already been disconnected.
	ErrSessionClosed = 3103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrWordListUnavailable indicates that the profanity word list could not be loaded.
	ErrWordListUnavailable = 5101
)
