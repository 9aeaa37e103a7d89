package v1

import (
	"net/http"

	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
)

// @Summary 	Create category
// @Description Shrinks the icon to a 128x128 thumbnail, uploads it to S3 and stores the category
// @Tags 		category
// @Accept 		mpfd
// @Produce 	json
// @Param 		name 	formData string true "Category name"
// @Param 		iconUrl formData file 	true "Icon image(jpg, png, gif)"
// @Success 	201 {object} response.Data
// @Failure 	400 {object} response.Error "Missing name or icon"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/category/create [post]
func (r *V1) createCategory(ctx *fiber.Ctx) error {
	icon, fe := r.formFile(ctx, "iconUrl", iconRule)
	if fe != nil {
		return errorResponse(ctx, fe.Code, fe.Message)
	}

	category, err := r.cat.Create(ctx.UserContext(), ctx.FormValue("name"), icon)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - createCategory")
	}

	return ctx.Status(http.StatusCreated).JSON(response.Data{Message: "Category created successfully!", Data: category})
}

// @Summary 	List categories
// @Tags 		category
// @Produce 	json
// @Success 	200 {object} response.Data
// @Router 		/category [get]
func (r *V1) listCategories(ctx *fiber.Ctx) error {
	categories, err := r.cat.List(ctx.UserContext())
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - listCategories")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: categories})
}
