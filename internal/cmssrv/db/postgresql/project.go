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

const projectColumns = `project_id, user_id, name, description, domain, subdomain, is_published, theme_settings, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	p := &models.Project{}
	err := row.Scan(&p.ProjectID, &p.UserID, &p.Name, &p.Description, &p.Domain,
		&p.Subdomain, &p.IsPublished, &p.ThemeSettings, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateProject inserts a new project together with its default page in
// a single transaction. A project owns at least one page from birth.
func (s *Store) CreateProject(ctx context.Context, project *models.Project, defaultPage *models.Page) (err apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}
	project.UserID = userID

	projectID := project.ProjectID
	if projectID == uuid.Nil {
		projectID = uuid.New()
	}

	tx, errdb := s.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	query := `
		INSERT INTO projects (project_id, user_id, name, description, domain, subdomain, theme_settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING project_id, is_published, created_at, updated_at;
	`
	errDb := tx.QueryRowContext(ctx, query, projectID, userID, project.Name,
		project.Description, project.Domain, project.Subdomain, project.ThemeSettings).
		Scan(&project.ProjectID, &project.IsPublished, &project.CreatedAt, &project.UpdatedAt)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Str("name", project.Name).Msg("failed to insert project")
		return dberror.ErrDatabase.Err(errDb)
	}
	project.UserID = userID

	defaultPage.ProjectID = project.ProjectID
	err = s.createPageWithTransaction(ctx, defaultPage, tx)
	if err != nil {
		return err
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetProject retrieves a project owned by the calling user.
func (s *Store) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1 AND user_id = $2;`
	project, errDb := scanProject(s.conn().QueryRowContext(ctx, query, projectID, userID))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("project not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to get project")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return project, nil
}

// ListProjects lists the caller's projects, most recently updated first.
// A limit of 0 lists all.
func (s *Store) ListProjects(ctx context.Context, limit int) ([]*models.Project, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY updated_at DESC;`
	args := []any{userID}
	if limit > 0 {
		query = `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY updated_at DESC LIMIT $2;`
		args = append(args, limit)
	}

	rows, errDb := s.conn().QueryContext(ctx, query, args...)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list projects")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p, errDb := scanProject(rows)
		if errDb != nil {
			return nil, dberror.ErrDatabase.Err(errDb)
		}
		projects = append(projects, p)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return projects, nil
}

// UpdateProject updates the project's editable fields and bumps
// updated_at.
func (s *Store) UpdateProject(ctx context.Context, project *models.Project) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE projects
		SET name = $1, description = $2, domain = $3, subdomain = $4,
		    is_published = $5, theme_settings = $6, updated_at = now()
		WHERE project_id = $7 AND user_id = $8
		RETURNING updated_at;
	`
	errDb := s.conn().QueryRowContext(ctx, query, project.Name, project.Description,
		project.Domain, project.Subdomain, project.IsPublished, project.ThemeSettings,
		project.ProjectID, userID).Scan(&project.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("project not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to update project")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeleteProject removes the project. Pages cascade at the schema level.
func (s *Store) DeleteProject(ctx context.Context, projectID uuid.UUID) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	result, errDb := s.conn().ExecContext(ctx,
		`DELETE FROM projects WHERE project_id = $1 AND user_id = $2;`, projectID, userID)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to delete project")
		return dberror.ErrDatabase.Err(errDb)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return dberror.ErrNotFound.Msg("project not found")
	}
	return nil
}

// DuplicateProject copies a project and all of its pages inside one
// transaction. The copy and every copied page start unpublished; the
// original records are not touched.
func (s *Store) DuplicateProject(ctx context.Context, projectID uuid.UUID, name string) (dup *models.Project, err apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, errdb := s.conn().BeginTx(ctx, &sql.TxOptions{})
	if errdb != nil {
		log.Ctx(ctx).Error().Err(errdb).Msg("failed to start transaction")
		return nil, dberror.ErrDatabase.Err(errdb)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
				log.Ctx(ctx).Error().Err(rollbackErr).Msg("failed to rollback transaction")
			}
		}
	}()

	newID := uuid.New()
	query := `
		INSERT INTO projects (project_id, user_id, name, description, domain, subdomain, is_published, theme_settings)
		SELECT $1, user_id, $2, description, domain, subdomain, false, theme_settings
		FROM projects WHERE project_id = $3 AND user_id = $4
		RETURNING ` + projectColumns + `;
	`
	dup, errDb := scanProject(tx.QueryRowContext(ctx, query, newID, name, projectID, userID))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("project not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to duplicate project")
		return nil, dberror.ErrDatabase.Err(errDb)
	}

	pagesQuery := `
		INSERT INTO pages (page_id, project_id, title, slug, content, meta_description,
		                   meta_keywords, is_published, order_index, parent_id)
		SELECT gen_random_uuid(), $1, title, slug, content, meta_description,
		       meta_keywords, false, order_index, NULL
		FROM pages WHERE project_id = $2
		ORDER BY order_index;
	`
	if _, errDb := tx.ExecContext(ctx, pagesQuery, dup.ProjectID, projectID); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to copy pages")
		return nil, dberror.ErrDatabase.Err(errDb)
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return dup, nil
}
