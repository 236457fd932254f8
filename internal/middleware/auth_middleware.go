package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oguzk/campdir/internal/app/auth"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/repositories"
	"github.com/oguzk/campdir/internal/pkg/apperrors"
	pkgauth "github.com/oguzk/campdir/internal/pkg/auth"
)

const identityKey = "identity"

// AuthMiddleware resolves request credentials into an Identity
type AuthMiddleware struct {
	jwtService *pkgauth.JWTService
	userRepo   *repositories.UserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *pkgauth.JWTService, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// Authenticate validates the bearer token and loads the subject from
// storage. A valid token for a deleted user is rejected; the token is
// a reference to the subject, not a snapshot of it.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := pkgauth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(authFailureMessage(err)))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(authFailureMessage(err)))
			return
		}

		user, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) || errors.Is(err, apperrors.ErrResourceNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("token subject no longer exists"))
				return
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, auth.Identity{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

// IdentityFromContext returns the Identity placed by Authenticate.
// The second value is false on routes that skipped authentication.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	ident, ok := v.(auth.Identity)
	return ident, ok
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrTokenMissing):
		return "authorization header missing"
	case errors.Is(err, apperrors.ErrTokenMalformed):
		return "malformed authorization token"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return "token has expired"
	default:
		return "invalid authorization token"
	}
}
