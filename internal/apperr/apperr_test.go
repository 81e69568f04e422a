package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrInvalidCredentials)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotErrorIs(t, err, ErrUserNotActive)

	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, "invalid_credentials", kind.Code)
	require.Equal(t, http.StatusUnauthorized, kind.Status)
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("signature mismatch")
	err := Wrap(KindInvalidToken, "cannot decode access token", cause)

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.Contains(t, err.Error(), "invalid_token")
	require.Contains(t, err.Error(), "signature mismatch")
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestStatusCodes(t *testing.T) {
	require.Equal(t, http.StatusConflict, KindUserAlreadyExists.Status)
	require.Equal(t, http.StatusForbidden, KindUserNotActive.Status)
	require.Equal(t, http.StatusUnauthorized, KindInvalidRefreshToken.Status)
	require.Equal(t, http.StatusNotFound, KindNotFound.Status)
	require.Equal(t, http.StatusBadRequest, KindValidation.Status)
}
