package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-bank-payments/internal/domain"
	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-petr/pet-bank-payments/pkg/web"
)

// Authorization header and context keys.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

// Authorization header errors.
var (
	ErrAuthHeaderNotFound  = errorspkg.New("AUTH_HEADER_NOT_FOUND", "authorization header is not provided")
	ErrBadAuthHeaderFormat = errorspkg.New("BAD_AUTH_HEADER_FORMAT", "invalid authorization header format")
	ErrUnsupportedAuthType = errorspkg.New("UNSUPPORTED_AUTH_TYPE", "unsupported authorization type")
)

// Verifier resolves an access token into the calling principal.
//
//go:generate mockgen -source auth.go -destination auth_mock.go -package middleware
type Verifier interface {
	Verify(ctx context.Context, token string) (domain.Principal, error)
}

// AddAuthorization sets the authorization header of the request.
func AddAuthorization(r *http.Request, authType, token string) {
	r.Header.Set(AuthHeaderKey, authType+" "+token)
}

// AuthMiddleware authenticates the request before any handler runs.
func AuthMiddleware(v Verifier) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		authHeader := gctx.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrAuthHeaderNotFound))
			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrBadAuthHeaderFormat))
			return
		}

		if strings.ToLower(fields[0]) != AuthTypeBearer {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(ErrUnsupportedAuthType))
			return
		}

		principal, err := v.Verify(gctx.Request.Context(), fields[1])
		if err != nil {
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))
			return
		}

		gctx.Set(AuthPayloadKey, principal)
		gctx.Next()
	}
}

// Principal returns the caller authenticated by AuthMiddleware.
func Principal(gctx *gin.Context) domain.Principal {
	return gctx.MustGet(AuthPayloadKey).(domain.Principal)
}

// BearerToken returns the raw access token of the request.
func BearerToken(gctx *gin.Context) string {
	fields := strings.Fields(gctx.GetHeader(AuthHeaderKey))
	if len(fields) < 2 {
		return ""
	}

	return fields[1]
}
