package postgresql

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dberror"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

const analyticsColumns = `e.event_id, e.project_id, e.event_type, e.page_path, e.referrer, e.user_agent, e.created_at`

// ListAnalyticsEvents lists events for one of the caller's projects, or
// across all of them when projectID is the nil UUID. Newest first.
func (s *Store) ListAnalyticsEvents(ctx context.Context, projectID uuid.UUID) ([]*models.AnalyticsEvent, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + analyticsColumns + `
		FROM analytics_events e JOIN projects pr ON pr.project_id = e.project_id
		WHERE pr.user_id = $1
	`
	args := []any{userID}
	if projectID != uuid.Nil {
		if _, err := s.GetProject(ctx, projectID); err != nil {
			return nil, err
		}
		query += ` AND e.project_id = $2`
		args = append(args, projectID)
	}
	query += ` ORDER BY e.created_at DESC;`

	rows, errDb := s.conn().QueryContext(ctx, query, args...)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list analytics events")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	events := []*models.AnalyticsEvent{}
	for rows.Next() {
		e := &models.AnalyticsEvent{}
		errDb := rows.Scan(&e.EventID, &e.ProjectID, &e.EventType, &e.PagePath,
			&e.Referrer, &e.UserAgent, &e.CreatedAt)
		if errDb != nil {
			return nil, dberror.ErrDatabase.Err(errDb)
		}
		events = append(events, e)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return events, nil
}
