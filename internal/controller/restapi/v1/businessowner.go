package v1

import (
	"net/http"

	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/request"
	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// @Summary 	Register business owner
// @Description Creates the account with its business profile and returns a session token
// @Tags 		businessowner
// @Accept 		json
// @Produce 	json
// @Param 		request body request.Register true "Profile fields, at the top level or wrapped in user"
// @Success 	201 {object} response.Register
// @Failure 	400 {object} response.Error "Missing or invalid fields"
// @Failure 	409 {object} response.Error "Duplicate identity"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/businessowner/register [post]
func (r *V1) register(ctx *fiber.Ctx) error {
	var body request.Register
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - register")
	}

	session, err := r.cred.Register(ctx.UserContext(), body.Input())
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - register")
	}

	return ctx.Status(http.StatusCreated).JSON(response.Register{
		User:    response.User{BusinessOwner: session.Owner, Token: session.Token},
		Message: "User registered successfully.",
	})
}

// @Summary 	Log in
// @Tags 		businessowner
// @Accept 		json
// @Produce 	json
// @Param 		request body request.Login true "Username, email or phone number and password"
// @Success 	200 {object} response.Login
// @Failure 	400 {object} response.Error "Missing fields"
// @Failure 	401 {object} response.Error "Invalid credentials"
// @Router 		/businessowner/login [post]
func (r *V1) login(ctx *fiber.Ctx) error {
	var body request.Login
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - login")
	}

	session, err := r.cred.Authenticate(ctx.UserContext(), body.Identifier, body.Password)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - login")
	}

	return ctx.Status(http.StatusOK).JSON(response.Login{User: session.Owner, Token: session.Token})
}

// @Summary 	Upload profile picture
// @Tags 		businessowner
// @Accept 		mpfd
// @Produce 	json
// @Param 		userId formData string true "Account ID(uuid)"
// @Param 		file   formData file   true "Image file(jpg, png, gif, webp)"
// @Success 	200 {object} response.Upload
// @Failure 	400 {object} response.Error "Missing user id or file"
// @Failure 	404 {object} response.Error "Account not found"
// @Failure 	413 {object} response.Error "File too large"
// @Failure 	415 {object} response.Error "Unsupported format"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/businessowner/upload [post]
func (r *V1) uploadFile(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.FormValue("userId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "userId is required")
	}

	file, fe := r.formFile(ctx, "file", pictureRule)
	if fe != nil {
		return errorResponse(ctx, fe.Code, fe.Message)
	}

	url, err := r.prof.AttachFile(ctx.UserContext(), id, file)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - uploadFile")
	}

	return ctx.Status(http.StatusOK).JSON(response.Upload{Message: "File uploaded successfully.", FileURL: url})
}

// @Summary 	List business owners
// @Tags 		businessowner
// @Produce 	json
// @Success 	200 {object} response.Data
// @Router 		/businessowner [get]
func (r *V1) listOwners(ctx *fiber.Ctx) error {
	owners, err := r.prof.List(ctx.UserContext())
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - listOwners")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: owners})
}

// @Summary 	Get business owner
// @Tags 		businessowner
// @Produce 	json
// @Param 		id path string true "Account ID(uuid)"
// @Success 	200 {object} response.Data
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Account not found"
// @Router 		/businessowner/{id} [get]
func (r *V1) getOwner(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	owner, err := r.prof.Get(ctx.UserContext(), id)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - getOwner")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: owner})
}

// @Summary 	Update own profile
// @Tags 		businessowner
// @Accept 		json
// @Produce 	json
// @Security 	Bearer
// @Param 		id 		path string 		 true "Account ID(uuid)"
// @Param 		request body request.Profile true "Fields to change"
// @Success 	200 {object} response.Data
// @Failure 	400 {object} response.Error "Invalid fields"
// @Failure 	403 {object} response.Error "Not your account"
// @Failure 	404 {object} response.Error "Account not found"
// @Failure 	409 {object} response.Error "Duplicate identity"
// @Router 		/businessowner/{id} [put]
func (r *V1) updateOwner(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	if me, ok := caller(ctx); !ok || me != id {
		return errorResponse(ctx, http.StatusForbidden, "forbidden")
	}

	var body request.Profile
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - updateOwner")
	}

	owner, err := r.prof.Update(ctx.UserContext(), id, body.Input())
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - updateOwner")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: owner})
}
