/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses, acknowledgement frames and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:          {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidJSONFormat:      {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrRateLimitExceeded:      {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrUnsupportedMessageType: {Code: ErrUnsupportedMessageType, Message: "Unsupported message type: %s."},

	// 2xxx: Room and Content Business Logic Errors
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},
	ErrProfanity:             {Code: ErrProfanity, Message: "Profanity is not allowed."},
	ErrMissingField:          {Code: ErrMissingField, Message: "Username and room are required."},
	ErrUsernameTaken:         {Code: ErrUsernameTaken, Message: "Username is in use."},
	ErrInvalidLocation:       {Code: ErrInvalidLocation, Message: "Invalid location."},

	// 3xxx: Session Errors
	ErrNotJoined:     {Code: ErrNotJoined, Message: "Join a room first."},
	ErrAlreadyJoined: {Code: ErrAlreadyJoined, Message: "Already joined a room. Reconnect to switch rooms."},
	ErrSessionClosed: {Code: ErrSessionClosed, Message: "Connection is closed."},

	// 5xxx: Internal System Errors
	ErrUnknown:             {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrWordListUnavailable: {Code: ErrWordListUnavailable, Message: "Content filter is unavailable.", Status: http.StatusServiceUnavailable},
}
