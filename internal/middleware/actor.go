package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fairhub-io/fairhub-api/internal/service"
	"github.com/fairhub-io/fairhub-api/internal/utils"
)

// RequireAdmin guards a route group so only SuperAdmin or SubAdmin actors may
// pass. The resolved actor kind is stored in Locals for downstream handlers.
func RequireAdmin(resolver service.ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := service.SessionClaims{}
		if v := c.Locals("user_id"); v != nil {
			if id, ok := v.(uint); ok {
				claims.SubjectID = id
			}
		}
		if v := c.Locals("user_role"); v != nil {
			if role, ok := v.(string); ok {
				claims.Role = role
			}
		}

		actor, err := resolver.Resolve(c.UserContext(), claims)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
			}
			if errors.Is(err, service.ErrActorNotFound) {
				return utils.Fail(c, fiber.StatusNotFound, "actor not found", nil)
			}
			return utils.Fail(c, fiber.StatusInternalServerError, "failed to resolve actor", nil)
		}

		if !actor.IsAdmin() {
			return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
		}

		c.Locals("actor_kind", actor.Kind)
		return c.Next()
	}
}
