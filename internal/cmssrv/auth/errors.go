package auth

import (
	"net/http"

	"github.com/sitesmith/sitesmith/internal/common/apperrors"
)

// Base auth error
var (
	ErrAuth apperrors.Error = apperrors.New("authentication error").SetStatusCode(http.StatusInternalServerError)
)

// Token errors
var (
	ErrTokenGeneration apperrors.Error = ErrAuth.New("failed to generate token").SetStatusCode(http.StatusInternalServerError)
	ErrInvalidToken    apperrors.Error = ErrAuth.New("invalid token").SetStatusCode(http.StatusUnauthorized)
)

// Login errors
var (
	ErrInvalidCredentials apperrors.Error = ErrAuth.New("invalid email or password").SetStatusCode(http.StatusUnauthorized)
	ErrInvalidRequest     apperrors.Error = ErrAuth.New("invalid request").SetStatusCode(http.StatusBadRequest)
)
