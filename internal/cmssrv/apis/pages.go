package apis

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

func pageIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "pageID"))
	if err != nil {
		return uuid.Nil, httpx.ErrInvalidRequest("invalid page id")
	}
	return id, nil
}

// slugify derives a URL slug from a page title. Lowercase alphanumerics
// with single hyphens between words.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// createPage adds a page to a project. The slug defaults to the
// slugified title; the order index is appended after the project's
// current maximum.
func createPage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}

	req := &pageReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	slug := req.Slug
	if slug == "" {
		slug = slugify(req.Title)
	}
	if slug == "" {
		return nil, httpx.ErrInvalidRequest("unable to derive a slug from the title")
	}

	page := &models.Page{
		ProjectID:       projectID,
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}
	// An omitted order index appends; an explicit one, zero included,
	// is taken as given.
	page.OrderIndex = models.OrderAppend
	if req.OrderIndex != nil {
		page.OrderIndex = *req.OrderIndex
	}

	if apperr := db.DB(ctx).CreatePage(ctx, page); apperr != nil {
		return nil, apperr
	}

	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/pages/" + page.PageID.String(),
		Response:   toPageRsp(page),
	}, nil
}

// listPages lists a project's pages ordered by order_index.
func listPages(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}
	pages, apperr := db.DB(ctx).ListPagesByProject(ctx, projectID)
	if apperr != nil {
		return nil, apperr
	}

	rsp := make([]*pageRsp, 0, len(pages))
	for _, p := range pages {
		rsp = append(rsp, toPageRsp(p))
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getPage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	pageID, err := pageIDParam(r)
	if err != nil {
		return nil, err
	}
	page, apperr := db.DB(ctx).GetPage(ctx, pageID)
	if apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   toPageRsp(page),
	}, nil
}

// updatePage persists all editable fields and bumps updated_at.
func updatePage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	pageID, err := pageIDParam(r)
	if err != nil {
		return nil, err
	}

	req := &pageReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	page, apperr := db.DB(ctx).GetPage(ctx, pageID)
	if apperr != nil {
		return nil, apperr
	}

	page.Title = req.Title
	if req.Slug != "" {
		page.Slug = req.Slug
	}
	page.Content = req.Content
	page.MetaDescription = req.MetaDescription
	page.MetaKeywords = req.MetaKeywords
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}
	if req.OrderIndex != nil {
		page.OrderIndex = *req.OrderIndex
	}

	if apperr := db.DB(ctx).UpdatePage(ctx, page); apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   toPageRsp(page),
	}, nil
}

// deletePage removes a page. Deleting a project's last remaining page
// is rejected with a conflict.
func deletePage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	pageID, err := pageIDParam(r)
	if err != nil {
		return nil, err
	}
	if apperr := db.DB(ctx).DeletePage(ctx, pageID); apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"status": "deleted"},
	}, nil
}

type reorderPagesReq struct {
	PageIDs []string `json:"page_ids" validate:"required,min=1"`
}

// reorderPages rewrites a project's page ordering to match the request.
func reorderPages(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}

	req := &reorderPagesReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest(err.Error())
	}

	pageIDs := make([]uuid.UUID, 0, len(req.PageIDs))
	for _, s := range req.PageIDs {
		id, goerr := uuid.Parse(s)
		if goerr != nil {
			return nil, httpx.ErrInvalidRequest("invalid page id: " + s)
		}
		pageIDs = append(pageIDs, id)
	}

	if apperr := db.DB(ctx).ReorderPages(ctx, projectID, pageIDs); apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"status": "reordered"},
	}, nil
}
