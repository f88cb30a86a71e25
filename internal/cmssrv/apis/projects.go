package apis

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// Every new project starts with this page so the editor always has
// something to open.
const (
	defaultPageTitle   = "Home"
	defaultPageSlug    = "home"
	defaultPageContent = "# Welcome\n\nStart editing your site here.\n"
)

// duplicateNameSuffix is appended to the source name when no name is
// given for a duplicate.
const duplicateNameSuffix = " (Copy)"

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return uuid.Nil, httpx.ErrInvalidRequest("invalid project id")
	}
	return id, nil
}

// createProject creates a project together with its default Home page.
func createProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req := &projectReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	project := &models.Project{
		Name:          req.Name,
		Description:   req.Description,
		Domain:        req.Domain,
		Subdomain:     req.Subdomain,
		ThemeSettings: themeSettingsColumn(req.ThemeSettings),
	}
	defaultPage := &models.Page{
		Title:      defaultPageTitle,
		Slug:       defaultPageSlug,
		Content:    defaultPageContent,
		OrderIndex: 0,
	}

	if err := db.DB(ctx).CreateProject(ctx, project, defaultPage); err != nil {
		return nil, err
	}

	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/projects/" + project.ProjectID.String(),
		Response:   toProjectRsp(project),
	}, nil
}

// listProjects lists the caller's projects, most recently updated first.
// An optional limit query parameter caps the result.
func listProjects(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, httpx.ErrInvalidRequest("invalid limit")
		}
		limit = n
	}

	projects, err := db.DB(ctx).ListProjects(ctx, limit)
	if err != nil {
		return nil, err
	}

	rsp := make([]*projectRsp, 0, len(projects))
	for _, p := range projects {
		rsp = append(rsp, toProjectRsp(p))
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}
	project, apperr := db.DB(ctx).GetProject(ctx, projectID)
	if apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   toProjectRsp(project),
	}, nil
}

func updateProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}

	req := &projectReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	project, apperr := db.DB(ctx).GetProject(ctx, projectID)
	if apperr != nil {
		return nil, apperr
	}

	project.Name = req.Name
	project.Description = req.Description
	project.Domain = req.Domain
	project.Subdomain = req.Subdomain
	if req.IsPublished != nil {
		project.IsPublished = *req.IsPublished
	}
	if req.ThemeSettings != nil {
		project.ThemeSettings = themeSettingsColumn(req.ThemeSettings)
	}

	if apperr := db.DB(ctx).UpdateProject(ctx, project); apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   toProjectRsp(project),
	}, nil
}

func deleteProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}
	if apperr := db.DB(ctx).DeleteProject(ctx, projectID); apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"status": "deleted"},
	}, nil
}

type duplicateProjectReq struct {
	Name string `json:"name" validate:"max=128"`
}

// duplicateProject copies a project and all its pages. The copy starts
// unpublished regardless of the source's publish state.
func duplicateProject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}

	req := &duplicateProjectReq{}
	if r.Body != nil && r.ContentLength > 0 {
		if err := httpx.GetRequestData(r, req); err != nil {
			return nil, err
		}
		if err := validate.Struct(req); err != nil {
			return nil, httpx.ErrInvalidRequest(err.Error())
		}
	}

	name := req.Name
	if name == "" {
		src, apperr := db.DB(ctx).GetProject(ctx, projectID)
		if apperr != nil {
			return nil, apperr
		}
		name = src.Name + duplicateNameSuffix
	}

	dup, apperr := db.DB(ctx).DuplicateProject(ctx, projectID, name)
	if apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/projects/" + dup.ProjectID.String(),
		Response:   toProjectRsp(dup),
	}, nil
}
