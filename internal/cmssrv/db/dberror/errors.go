// Package dberror defines the sentinel errors returned by the sitesmith
// storage layer.
package dberror

import (
	"net/http"

	"github.com/sitesmith/sitesmith/internal/common/apperrors"
)

var (
	ErrDatabase           apperrors.Error = apperrors.New("db error").SetStatusCode(http.StatusInternalServerError)
	ErrAlreadyExists      apperrors.Error = ErrDatabase.New("already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound           apperrors.Error = ErrDatabase.New("not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidInput       apperrors.Error = ErrDatabase.New("invalid input").SetStatusCode(http.StatusBadRequest)
	ErrMissingUserContext apperrors.Error = ErrInvalidInput.New("missing user context").SetStatusCode(http.StatusUnauthorized)
	ErrLastPage           apperrors.Error = ErrDatabase.New("cannot delete the last page of a project").SetStatusCode(http.StatusConflict)
)
