package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
)

const (
	ContextUserID    = "userID"
	ContextCompanyID = "companyID"
	ContextUserRole  = "userRole"

	// HeaderActiveRole lets a user act under a lower role than the token grants.
	HeaderActiveRole = "X-Active-Role"
)

// AuthMiddleware validates the bearer token and stores the acting identity.
// companyId is optional; admins and customers may have none.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		rawRole, _ := claims["role"].(string)
		role, err := domain.ParseRole(rawRole)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_role"})
			return
		}

		if active := c.GetHeader(HeaderActiveRole); active != "" {
			switched, err := domain.ParseRole(active)
			if err != nil || !role.CanSwitchTo(switched) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role_switch_not_allowed"})
				return
			}
			role = switched
		}

		var companyID uint
		if v, ok := claims["companyId"].(float64); ok {
			companyID = uint(v)
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextCompanyID, companyID)
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// RoleContext reads the identity stored by AuthMiddleware.
func RoleContext(c *gin.Context) domain.RoleContext {
	return domain.RoleContext{
		Role:      c.MustGet(ContextUserRole).(domain.Role),
		UserID:    c.MustGet(ContextUserID).(uint),
		CompanyID: c.GetUint(ContextCompanyID),
	}
}
