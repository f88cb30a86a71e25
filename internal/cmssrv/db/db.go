// Package db defines the storage interface for the sitesmith server and
// the context plumbing that hands the configured store to request
// handlers. Two implementations exist: postgresql (production) and
// memory (tests and -dev mode).
//
// All record operations are scoped to the authenticated user carried in
// the request context; reads of records owned by another user report
// not-found rather than forbidden, so record existence never leaks.
package db

import (
	"context"
	"net/http"

	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// Store is the storage interface for all sitesmith records.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) apperrors.Error
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, apperrors.Error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error)

	// Projects. CreateProject inserts the project and its default page in
	// a single transaction; every project owns at least one page from
	// birth. DuplicateProject copies the project and all its pages with
	// publish state reset, leaving the original untouched.
	CreateProject(ctx context.Context, project *models.Project, defaultPage *models.Page) apperrors.Error
	GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, apperrors.Error)
	ListProjects(ctx context.Context, limit int) ([]*models.Project, apperrors.Error)
	UpdateProject(ctx context.Context, project *models.Project) apperrors.Error
	DeleteProject(ctx context.Context, projectID uuid.UUID) apperrors.Error
	DuplicateProject(ctx context.Context, projectID uuid.UUID, name string) (*models.Project, apperrors.Error)

	// Pages. DeletePage returns dberror.ErrLastPage when the page is the
	// project's last remaining one.
	CreatePage(ctx context.Context, page *models.Page) apperrors.Error
	GetPage(ctx context.Context, pageID uuid.UUID) (*models.Page, apperrors.Error)
	ListPagesByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Page, apperrors.Error)
	UpdatePage(ctx context.Context, page *models.Page) apperrors.Error
	DeletePage(ctx context.Context, pageID uuid.UUID) apperrors.Error
	ReorderPages(ctx context.Context, projectID uuid.UUID, pageIDs []uuid.UUID) apperrors.Error

	// Templates (read-only)
	ListTemplates(ctx context.Context) ([]*models.Template, apperrors.Error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, apperrors.Error)

	// Analytics (read-only). projectID == uuid.Nil lists events across
	// all of the caller's projects.
	ListAnalyticsEvents(ctx context.Context, projectID uuid.UUID) ([]*models.AnalyticsEvent, apperrors.Error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close()
}

type ctxKeyType string

const storeContextKey ctxKeyType = "SitesmithStore"

// WithStore attaches a store to ctx.
func WithStore(ctx context.Context, s Store) context.Context {
	return context.WithValue(ctx, storeContextKey, s)
}

// DB retrieves the store from ctx. Panics when no store is attached;
// handlers only run behind StoreMiddleware.
func DB(ctx context.Context) Store {
	if s, ok := ctx.Value(storeContextKey).(Store); ok {
		return s
	}
	panic("no store in context")
}

// StoreMiddleware attaches the configured store to every request
// context.
func StoreMiddleware(s Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), s)))
		})
	}
}
