// Package apis implements the sitesmith REST API handlers for projects,
// pages, templates, and analytics.
package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sitesmith/sitesmith/internal/cmssrv/auth"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
)

// responseHandlerParam pairs a route with its handler.
type responseHandlerParam struct {
	Method  string
	Path    string
	Handler httpx.RequestHandler
}

var recordHandlers = []responseHandlerParam{
	{
		Method:  http.MethodPost,
		Path:    "/projects",
		Handler: createProject,
	},
	{
		Method:  http.MethodGet,
		Path:    "/projects",
		Handler: listProjects,
	},
	{
		Method:  http.MethodGet,
		Path:    "/projects/{projectID}",
		Handler: getProject,
	},
	{
		Method:  http.MethodPut,
		Path:    "/projects/{projectID}",
		Handler: updateProject,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/projects/{projectID}",
		Handler: deleteProject,
	},
	{
		Method:  http.MethodPost,
		Path:    "/projects/{projectID}/duplicate",
		Handler: duplicateProject,
	},
	{
		Method:  http.MethodPost,
		Path:    "/projects/{projectID}/pages",
		Handler: createPage,
	},
	{
		Method:  http.MethodGet,
		Path:    "/projects/{projectID}/pages",
		Handler: listPages,
	},
	{
		Method:  http.MethodPut,
		Path:    "/projects/{projectID}/pages/order",
		Handler: reorderPages,
	},
	{
		Method:  http.MethodGet,
		Path:    "/projects/{projectID}/analytics",
		Handler: listProjectAnalytics,
	},
	{
		Method:  http.MethodGet,
		Path:    "/pages/{pageID}",
		Handler: getPage,
	},
	{
		Method:  http.MethodPut,
		Path:    "/pages/{pageID}",
		Handler: updatePage,
	},
	{
		Method:  http.MethodDelete,
		Path:    "/pages/{pageID}",
		Handler: deletePage,
	},
	{
		Method:  http.MethodGet,
		Path:    "/templates",
		Handler: listTemplates,
	},
	{
		Method:  http.MethodGet,
		Path:    "/templates/{templateID}",
		Handler: getTemplate,
	},
	{
		Method:  http.MethodGet,
		Path:    "/analytics",
		Handler: listAllAnalytics,
	},
}

// Router registers all record API routes behind session authentication.
func Router(r chi.Router) chi.Router {
	r.Group(func(r chi.Router) {
		r.Use(auth.UserAuthMiddleware)
		for _, handler := range recordHandlers {
			r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
		}
	})
	return r
}
