package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/storage-service/internal/api/dto"
	"github.com/spec-kit/storage-service/internal/domain"
	"github.com/spec-kit/storage-service/internal/service"
	apperrors "github.com/spec-kit/storage-service/pkg/util"
)

// TokenHandler exposes the OAuth2 password-grant token endpoint.
type TokenHandler struct {
	auth *service.AuthService
}

// NewTokenHandler constructs handler.
func NewTokenHandler(authService *service.AuthService) *TokenHandler {
	return &TokenHandler{auth: authService}
}

// Issue handles POST /token. Credentials arrive form-encoded; an optional
// expires_in query parameter (seconds) overrides the default lifetime.
func (h *TokenHandler) Issue(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		return apperrors.NewUnauthorized("username and password required")
	}

	scope := domain.ScopeWrite
	if requested := c.FormValue("scope"); requested != "" {
		scope = domain.Scope(requested)
		if !domain.ValidScope(scope) {
			return apperrors.NewUnprocessable("unknown scope", "scope")
		}
	}

	var ttl time.Duration
	if raw := c.Query("expires_in"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return apperrors.NewUnprocessable("expires_in must be a positive integer", "expires_in")
		}
		ttl = time.Duration(seconds) * time.Second
	}

	token, meta, err := h.auth.Login(c.Context(), c.IP(), username, password, scope, ttl)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(meta.ExpiresAt.Sub(meta.IssuedAt).Seconds()),
		ExpiresAt:   meta.ExpiresAt,
	})
}
