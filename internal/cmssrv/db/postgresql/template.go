package postgresql

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dberror"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

const templateColumns = `template_id, name, description, category, content, preview_url, created_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	err := row.Scan(&t.TemplateID, &t.Name, &t.Description, &t.Category,
		&t.Content, &t.PreviewURL, &t.CreatedAt)
	return t, err
}

// ListTemplates lists the template catalog. Templates are shared across
// users, so no user scoping applies.
func (s *Store) ListTemplates(ctx context.Context) ([]*models.Template, apperrors.Error) {
	query := `SELECT ` + templateColumns + ` FROM templates ORDER BY category, name;`
	rows, errDb := s.conn().QueryContext(ctx, query)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list templates")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		t, errDb := scanTemplate(rows)
		if errDb != nil {
			return nil, dberror.ErrDatabase.Err(errDb)
		}
		templates = append(templates, t)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return templates, nil
}

// GetTemplate retrieves a template by ID.
func (s *Store) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, apperrors.Error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE template_id = $1;`
	t, errDb := scanTemplate(s.conn().QueryRowContext(ctx, query, templateID))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("template not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to get template")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return t, nil
}
