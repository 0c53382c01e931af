package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError_KnownCode(t *testing.T) {
	req := require.New(t)

	err := NewError(ErrUsernameTaken)

	req.Equal(ErrUsernameTaken, err.Code)
	req.Equal("Username is in use.", err.Message)
	req.Equal(http.StatusOK, err.Status)
}

func TestNewError_UnknownCodeFallsBack(t *testing.T) {
	req := require.New(t)

	err := NewError(424242)

	req.Equal(ErrUnknown, err.Code)
	req.Equal(http.StatusInternalServerError, err.Status)
}

func TestNewError_FormatsDetails(t *testing.T) {
	req := require.New(t)

	err := NewError(ErrUnsupportedMessageType, "teleport")

	req.Equal("Unsupported message type: teleport.", err.Message)
}

func TestNewError_IgnoresDetailsWithoutPlaceholder(t *testing.T) {
	err := NewError(ErrProfanity, "extra")

	require.Equal(t, "Profanity is not allowed.", err.Message)
}

func TestCustomError_MatchesByCode(t *testing.T) {
	req := require.New(t)

	wrapped := fmt.Errorf("join failed: %w", NewError(ErrMissingField))

	req.True(errors.Is(wrapped, NewError(ErrMissingField)))
	req.False(errors.Is(wrapped, NewError(ErrUsernameTaken)))
	req.False(errors.Is(errors.New("plain"), NewError(ErrMissingField)))
}
