package middleware

import (
	"strings"

	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/pkg/jwt"
	"shelfwise/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try to get token from cookie first
		accessToken = c.Cookies("access_token")

		// 2. If not in cookie, try Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set member info in context
		c.Locals("memberID", claims.MemberID)
		c.Locals("memberNo", claims.MemberNo)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireCapability authorizes the request against the role capability
// table. All permission checks go through here; handlers never compare
// role strings themselves.
func RequireCapability(cap domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		if !domain.Can(domain.Role(role), cap) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}

		return c.Next()
	}
}

// CurrentMemberID reads the authenticated member ID set by AuthMiddleware
func CurrentMemberID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("memberID").(uint)
	return id, ok
}

// CurrentRole reads the authenticated member role set by AuthMiddleware
func CurrentRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals("role").(string)
	return domain.Role(role)
}

// IsSelfOrAdmin reports whether the authenticated member may act on the
// target member's resources
func IsSelfOrAdmin(c *fiber.Ctx, targetID uint) bool {
	selfID, _ := CurrentMemberID(c)
	return domain.IsSelfOrAdmin(CurrentRole(c), selfID, targetID)
}
