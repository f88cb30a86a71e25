package auth

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db"
	"github.com/sitesmith/sitesmith/internal/common/httpx"
	"golang.org/x/crypto/bcrypt"
)

var validate = validator.New()

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userRsp struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type loginRsp struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userRsp   `json:"user"`
}

// LoginUser verifies the email/password pair and mints a session token.
// A successful login publishes a signed-in event to the user's session
// feeds.
func LoginUser(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	req := &loginReq{}
	if err := httpx.GetRequestData(r, req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, ErrInvalidRequest.Msg("email and password are required")
	}

	user, err := db.DB(ctx).GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Indistinguishable from a wrong password so login probes learn
		// nothing about registered emails.
		log.Ctx(ctx).Debug().Str("email", req.Email).Msg("login for unknown email")
		return nil, ErrInvalidCredentials
	}

	if goerr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); goerr != nil {
		log.Ctx(ctx).Debug().Str("email", req.Email).Msg("password mismatch")
		return nil, ErrInvalidCredentials
	}

	uc := &cmscommon.UserContext{
		UserID: user.UserID,
		Email:  user.Email,
	}
	ctx = cmscommon.WithUserContext(ctx, uc)

	token, tokenExpiry, err := CreateSessionToken(ctx)
	if err != nil {
		return nil, err
	}

	publishSessionEvent(uc.UserID, cmscommon.SessionSignedIn)

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &loginRsp{
			Token:     token,
			ExpiresAt: tokenExpiry,
			User: userRsp{
				UserID: user.UserID.String(),
				Email:  user.Email,
			},
		},
	}, nil
}

// LogoutUser emits a signed-out event. Tokens are stateless, so there is
// nothing to revoke server-side; all of the user's open consoles observe
// the transition through their session feeds.
func LogoutUser(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	uc := cmscommon.GetUserContext(ctx)
	if uc == nil {
		return nil, httpx.ErrUnAuthorized()
	}

	publishSessionEvent(uc.UserID, cmscommon.SessionSignedOut)

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   map[string]string{"status": "signed_out"},
	}, nil
}

// GetSession reports the user behind the presented token.
func GetSession(r *http.Request) (*httpx.Response, error) {
	uc := cmscommon.GetUserContext(r.Context())
	if uc == nil {
		return nil, httpx.ErrUnAuthorized()
	}

	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &userRsp{
			UserID: uc.UserID.String(),
			Email:  uc.Email,
		},
	}, nil
}
