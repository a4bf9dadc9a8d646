package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/domain"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// RequireScope ensures the authenticated principal holds the given scope.
// Write tokens satisfy read requirements.
func RequireScope(required domain.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.Scope.Allows(required) {
			return apperrors.NewForbidden("insufficient scope")
		}
		return c.Next()
	}
}
