package v1

import (
	"net/http"
	"strings"

	"github.com/andreyxaxa/LocalStoreConnect/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const claimsKey = "claims"

// authRequired accepts "Authorization: Bearer <token>" and stores the verified claims in Locals.
func (r *V1) authRequired(ctx *fiber.Ctx) error {
	header := ctx.Get(fiber.HeaderAuthorization)

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return errorResponse(ctx, http.StatusUnauthorized, "unauthorized")
	}

	claims, err := r.cred.VerifyToken(token)
	if err != nil {
		r.logger.Debug("restapi - v1 - authRequired: %v", err)

		return errorResponse(ctx, http.StatusUnauthorized, "unauthorized")
	}

	ctx.Locals(claimsKey, claims)

	return ctx.Next()
}

// caller returns the account id of the authenticated request.
func caller(ctx *fiber.Ctx) (uuid.UUID, bool) {
	claims, ok := ctx.Locals(claimsKey).(dto.Claims)
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
