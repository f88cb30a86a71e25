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

// CreateUser inserts a new user. Returns ErrAlreadyExists when the email
// is taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) apperrors.Error {
	userID := user.UserID
	if userID == uuid.Nil {
		userID = uuid.New()
	}

	query := `
		INSERT INTO users (user_id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
		RETURNING user_id, created_at;
	`
	errDb := s.conn().QueryRowContext(ctx, query, userID, user.Email, user.PasswordHash).
		Scan(&user.UserID, &user.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return dberror.ErrAlreadyExists.Msg("user already exists")
		}
		log.Ctx(ctx).Error().Err(errDb).Str("email", user.Email).Msg("failed to insert user")
		return dberror.ErrDatabase.Err(errDb)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, apperrors.Error) {
	user := &models.User{}
	query := `
		SELECT user_id, email, password_hash, created_at
		FROM users WHERE user_id = $1;
	`
	errDb := s.conn().QueryRowContext(ctx, query, userID).
		Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to get user")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by login email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, apperrors.Error) {
	user := &models.User{}
	query := `
		SELECT user_id, email, password_hash, created_at
		FROM users WHERE email = $1;
	`
	errDb := s.conn().QueryRowContext(ctx, query, email).
		Scan(&user.UserID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errDb != nil {
		if errDb == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("user not found")
		}
		log.Ctx(ctx).Error().Err(errDb).Msg("failed to get user by email")
		return nil, dberror.ErrDatabase.Err(errDb)
	}
	return user, nil
}
