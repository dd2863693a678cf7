package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/agri-advisor/internal/domain/farmer"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

const sessionClaimsKey = "session_claims"

// optionalSessionMiddleware validates a bearer token when one is sent. Anonymous requests pass through.
func optionalSessionMiddleware(svc farmer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeInvalidToken, "invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateSession(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if apperrors.IsCode(err, apperrors.CodeInvalidToken) {
				abortWithError(c, NewHTTPError(http.StatusUnauthorized, apperrors.CodeInvalidToken, apperrors.MessageOf(err), err))
				return
			}
			abortWithError(c, domainError(err))
			return
		}
		c.Set(sessionClaimsKey, claims)
		c.Next()
	}
}

func sessionClaims(c *gin.Context) (farmer.Claims, bool) {
	value, ok := c.Get(sessionClaimsKey)
	if !ok {
		return farmer.Claims{}, false
	}
	claims, ok := value.(farmer.Claims)
	return claims, ok
}

// ensureSessionOwner rejects requests whose bearer token belongs to a different farmer.
func ensureSessionOwner(c *gin.Context, userID string) bool {
	claims, ok := sessionClaims(c)
	if !ok || userID == "" || claims.UserID == strings.TrimSpace(userID) {
		return true
	}
	abortWithError(c, NewHTTPError(http.StatusForbidden, apperrors.CodeForbidden, "session does not belong to this user", nil))
	return false
}
