package postgresql

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dberror"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/models"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

const pageColumns = `page_id, project_id, title, slug, content, meta_description, meta_keywords, is_published, order_index, parent_id, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	var parentID sql.NullString
	err := row.Scan(&p.PageID, &p.ProjectID, &p.Title, &p.Slug, &p.Content,
		&p.MetaDescription, &p.MetaKeywords, &p.IsPublished, &p.OrderIndex,
		&parentID, &p.CreatedAt, &p.UpdatedAt)
	if err == nil && parentID.Valid {
		p.ParentID, _ = uuid.Parse(parentID.String)
	}
	return p, err
}

// createPageWithTransaction inserts a page inside an existing
// transaction. Used by CreateProject for the default page.
func (s *Store) createPageWithTransaction(ctx context.Context, page *models.Page, tx *sql.Tx) apperrors.Error {
	pageID := page.PageID
	if pageID == uuid.Nil {
		pageID = uuid.New()
	}
	var parentID any
	if page.ParentID != uuid.Nil {
		parentID = page.ParentID
	}

	query := `
		INSERT INTO pages (page_id, project_id, title, slug, content, meta_description,
		                   meta_keywords, is_published, order_index, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (project_id, slug) DO NOTHING
		RETURNING page_id, created_at, updated_at;
	`
	errDb := tx.QueryRowContext(ctx, query, pageID, page.ProjectID, page.Title, page.Slug,
		page.Content, page.MetaDescription, page.MetaKeywords, page.IsPublished,
		page.OrderIndex, parentID).
		Scan(&page.PageID, &page.CreatedAt, &page.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrAlreadyExists.Msg("a page with this slug already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("slug", page.Slug).Msg("failed to insert page")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// CreatePage inserts a page into a project owned by the calling user.
// When no order index is set, the page is appended after the project's
// current maximum.
func (s *Store) CreatePage(ctx context.Context, page *models.Page) (err apperrors.Error) {
	if _, err := s.GetProject(ctx, page.ProjectID); err != nil {
		return err
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

	if page.OrderIndex == models.OrderAppend {
		errDb := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(order_index) + 1, 0) FROM pages WHERE project_id = $1;`,
			page.ProjectID).Scan(&page.OrderIndex)
		if errDb != nil {
			log.Ctx(ctx).Error().Err(errDb).Msg("failed to compute order index")
			return dberror.ErrDatabase.Err(errDb)
		}
	}

	if err = s.createPageWithTransaction(ctx, page, tx); err != nil {
		return err
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetPage retrieves a page whose project is owned by the calling user.
func (s *Store) GetPage(ctx context.Context, pageID uuid.UUID) (*models.Page, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + prefixedPageColumns + `
		FROM pages p JOIN projects pr ON pr.project_id = p.project_id
		WHERE p.page_id = $1 AND pr.user_id = $2;
	`
	page, errDb := scanPage(s.conn().QueryRowContext(ctx, query, pageID, userID))
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("page not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to get page")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return page, nil
}

const prefixedPageColumns = `p.page_id, p.project_id, p.title, p.slug, p.content, p.meta_description, p.meta_keywords, p.is_published, p.order_index, p.parent_id, p.created_at, p.updated_at`

// ListPagesByProject lists a project's pages ordered by order_index.
func (s *Store) ListPagesByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Page, apperrors.Error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Ownership check first so a foreign project reports not-found
	// rather than an empty list.
	var owned bool
	errDb := s.conn().QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM projects WHERE project_id = $1 AND user_id = $2);`,
		projectID, userID).Scan(&owned)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to check project ownership")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	if !owned {
		return nil, dberror.ErrNotFound.Msg("project not found")
	}

	query := `SELECT ` + pageColumns + ` FROM pages WHERE project_id = $1 ORDER BY order_index;`
	rows, errDb := s.conn().QueryContext(ctx, query, projectID)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to list pages")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	defer rows.Close()

	pages := []*models.Page{}
	for rows.Next() {
		p, errDb := scanPage(rows)
		if errDb != nil {
			return nil, dberror.ErrDatabase.Err(errDb)
		}
		pages = append(pages, p)
	}
	if errDb := rows.Err(); errDb != nil {
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return pages, nil
}

// UpdatePage persists all editable fields and bumps updated_at.
func (s *Store) UpdatePage(ctx context.Context, page *models.Page) apperrors.Error {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return err
	}

	query := `
		UPDATE pages p
		SET title = $1, slug = $2, content = $3, meta_description = $4,
		    meta_keywords = $5, is_published = $6, order_index = $7, updated_at = now()
		FROM projects pr
		WHERE p.page_id = $8 AND pr.project_id = p.project_id AND pr.user_id = $9
		RETURNING p.updated_at;
	`
	errDb := s.conn().QueryRowContext(ctx, query, page.Title, page.Slug, page.Content,
		page.MetaDescription, page.MetaKeywords, page.IsPublished, page.OrderIndex,
		page.PageID, userID).Scan(&page.UpdatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrNotFound.Msg("page not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to update page")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// DeletePage removes a page unless it is the last one remaining in its
// project, which is rejected with ErrLastPage.
func (s *Store) DeletePage(ctx context.Context, pageID uuid.UUID) (err apperrors.Error) {
	page, err := s.GetPage(ctx, pageID)
	if err != nil {
		return err
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

	// Lock the sibling set so concurrent deletes cannot drop the
	// project below one page. The lock happens in the subquery;
	// aggregates cannot carry FOR UPDATE directly.
	var count int
	errDb := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT 1 FROM pages WHERE project_id = $1 FOR UPDATE) AS locked;`,
		page.ProjectID).Scan(&count)
	if errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to count pages")
		return dberror.ErrDatabase.Err(errDb)
	}
	if count <= 1 {
		err = dberror.ErrLastPage
		return err
	}

	if _, errDb := tx.ExecContext(ctx, `DELETE FROM pages WHERE page_id = $1;`, pageID); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to delete page")
		return dberror.ErrDatabase.Err(errDb)
	}

	if errDb := tx.Commit(); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to commit transaction")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// ReorderPages rewrites order_index to match the given page ID order.
func (s *Store) ReorderPages(ctx context.Context, projectID uuid.UUID, pageIDs []uuid.UUID) apperrors.Error {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return err
	}

	ids := make([]string, len(pageIDs))
	for i, id := range pageIDs {
		ids[i] = id.String()
	}

	query := `
		UPDATE pages SET order_index = u.ord - 1, updated_at = now()
		FROM unnest($1::uuid[]) WITH ORDINALITY AS u(id, ord)
		WHERE pages.page_id = u.id AND pages.project_id = $2;
	`
	if _, errDb := s.conn().ExecContext(ctx, query, pq.Array(ids), projectID); errDb != nil {
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to reorder pages")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}
