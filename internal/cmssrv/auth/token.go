package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/cmssrv/config"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

const tokenAudience = "sitesmithsrv"

// CreateSessionToken mints a signed session token for the user in ctx.
func CreateSessionToken(ctx context.Context) (string, time.Time, apperrors.Error) {
	uc := cmscommon.GetUserContext(ctx)
	if uc == nil || uc.UserID == uuid.Nil {
		return "", time.Time{}, ErrTokenGeneration.Msg("no user in context")
	}

	tokenDuration, goerr := config.Config().Auth.GetTokenValidity()
	if goerr != nil {
		log.Ctx(ctx).Error().Err(goerr).Msg("unable to parse token duration")
		return "", time.Time{}, ErrTokenGeneration.MsgErr("unable to parse token duration", goerr)
	}

	now := time.Now()
	tokenExpiry := now.Add(tokenDuration)

	claims := jwt.MapClaims{
		"sub":   uc.UserID.String(),
		"email": uc.Email,
		"iss":   config.Config().ServerHostName + ":" + config.Config().ServerPort,
		"aud":   []string{tokenAudience},
		"exp":   jwt.NewNumericDate(tokenExpiry),
		"iat":   jwt.NewNumericDate(now),
		"nbf":   jwt.NewNumericDate(now.Add(-2 * time.Minute)), // 2-minute skew buffer
		"jti":   uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, goerr := token.SignedString([]byte(config.Config().Auth.SigningSecret))
	if goerr != nil {
		log.Ctx(ctx).Error().Err(goerr).Msg("unable to sign token")
		return "", time.Time{}, ErrTokenGeneration.MsgErr("unable to sign token", goerr)
	}

	return tokenString, tokenExpiry, nil
}

// ValidateToken verifies a session token and returns ctx with the
// authenticated user attached.
func ValidateToken(ctx context.Context, tokenString string) (context.Context, apperrors.Error) {
	token, goerr := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken.Msg("unexpected signing method")
		}
		return []byte(config.Config().Auth.SigningSecret), nil
	},
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuer(config.Config().ServerHostName+":"+config.Config().ServerPort),
		jwt.WithExpirationRequired(),
	)
	if goerr != nil || !token.Valid {
		log.Ctx(ctx).Debug().Err(goerr).Msg("token validation failed")
		return ctx, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, ErrInvalidToken.Msg("unable to parse claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return ctx, ErrInvalidToken.Msg("missing sub claim")
	}
	userID, goerr := uuid.Parse(sub)
	if goerr != nil {
		return ctx, ErrInvalidToken.Msg("invalid sub claim")
	}
	email, _ := claims["email"].(string)

	uc := &cmscommon.UserContext{
		UserID: userID,
		Email:  email,
	}
	return cmscommon.WithUserContext(ctx, uc), nil
}
