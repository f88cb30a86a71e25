package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// listTemplates lists the shared template catalog.
func listTemplates(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	templates, apperr := db.DB(ctx).ListTemplates(ctx)
	if apperr != nil {
		return nil, apperr
	}

	rsp := make([]*templateRsp, 0, len(templates))
	for _, t := range templates {
		rsp = append(rsp, toTemplateRsp(t))
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

func getTemplate(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	templateID, goerr := uuid.Parse(chi.URLParam(r, "templateID"))
	if goerr != nil {
		return nil, httpx.ErrInvalidRequest("invalid template id")
	}
	template, apperr := db.DB(ctx).GetTemplate(ctx, templateID)
	if apperr != nil {
		return nil, apperr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   toTemplateRsp(template),
	}, nil
}
