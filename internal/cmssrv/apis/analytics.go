package apis

import (
	"net/http"

	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// listProjectAnalytics lists events recorded for one project.
func listProjectAnalytics(r *http.Request) (*httpx.Response, error) {
	projectID, err := projectIDParam(r)
	if err != nil {
		return nil, err
	}
	return analyticsResponse(r, projectID)
}

// listAllAnalytics lists events across every project the caller owns.
func listAllAnalytics(r *http.Request) (*httpx.Response, error) {
	return analyticsResponse(r, uuid.Nil)
}

func analyticsResponse(r *http.Request, projectID uuid.UUID) (*httpx.Response, error) {
	ctx := r.Context()

	events, apperr := db.DB(ctx).ListAnalyticsEvents(ctx, projectID)
	if apperr != nil {
		return nil, apperr
	}

	rsp := make([]*analyticsEventRsp, 0, len(events))
	for _, e := range events {
		rsp = append(rsp, toAnalyticsEventRsp(e))
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}
