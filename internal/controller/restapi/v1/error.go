package v1

import (
	"errors"
	"net/http"

	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/response"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/types/errs"
	"github.com/gofiber/fiber/v2"
)

func errorResponse(ctx *fiber.Ctx, code int, msg string) error {
	return ctx.Status(code).JSON(response.Error{Error: msg})
}

// fail answers err with a generic message for its class. The full chain is only logged.
func (r *V1) fail(ctx *fiber.Ctx, err error, where string) error {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return errorResponse(ctx, http.StatusBadRequest, "invalid or missing fields")
	case errors.Is(err, errs.ErrDuplicate):
		return errorResponse(ctx, http.StatusConflict, "account already exists")
	case errors.Is(err, errs.ErrRecordNotFound):
		return errorResponse(ctx, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrInvalidCredentials), errors.Is(err, errs.ErrUnauthorized):
		return errorResponse(ctx, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, errs.ErrForbidden):
		return errorResponse(ctx, http.StatusForbidden, "forbidden")
	case errors.Is(err, errs.ErrUnsupportedMedia):
		return errorResponse(ctx, http.StatusUnsupportedMediaType, "unsupported file type")
	}

	r.logger.Error(err, where)

	if errors.Is(err, errs.ErrStorageUnavailable) {
		return errorResponse(ctx, http.StatusInternalServerError, "storage problems")
	}

	return errorResponse(ctx, http.StatusInternalServerError, "internal server error")
}

// parseBody decodes and validates the JSON body into dst.
func (r *V1) parseBody(ctx *fiber.Ctx, dst any) error {
	if err := ctx.BodyParser(dst); err != nil {
		return errors.Join(errs.ErrValidation, err)
	}

	if err := r.v.Struct(dst); err != nil {
		return errors.Join(errs.ErrValidation, err)
	}

	return nil
}
