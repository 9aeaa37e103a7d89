package v1

import (
	"net/http"

	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/request"
	"github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// @Summary 	Save post
// @Description Creates or replaces the draft of the creator in the category. Inline images are uploaded first
// @Tags 		post
// @Accept 		json
// @Produce 	json
// @Security 	Bearer
// @Param 		request body request.CreatePost true "Post"
// @Success 	201 {object} response.Data "Draft created"
// @Success 	200 {object} response.Data "Draft updated"
// @Failure 	400 {object} response.Error "Invalid fields"
// @Failure 	403 {object} response.Error "Creator is not the caller"
// @Failure 	500 {object} response.Error "Internal"
// @Router 		/post/create [post]
func (r *V1) createPost(ctx *fiber.Ctx) error {
	var body request.CreatePost
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - createPost")
	}

	creatorID := uuid.MustParse(body.CreatorID)
	if me, ok := caller(ctx); !ok || me != creatorID {
		return errorResponse(ctx, http.StatusForbidden, "forbidden")
	}

	post, created, err := r.post.UpsertDraft(ctx.UserContext(), creatorID, uuid.MustParse(body.CategoryID), body.Data, body.Submitted)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - createPost")
	}

	if created {
		return ctx.Status(http.StatusCreated).JSON(response.Data{Message: "Post created", Data: post})
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Message: "Post updated", Data: post})
}

// @Summary 	Filter posts
// @Tags 		post
// @Accept 		json
// @Produce 	json
// @Security 	Bearer
// @Param 		request body request.PostFilter true "Filter"
// @Success 	200 {object} response.Data
// @Failure 	400 {object} response.Error "Invalid filter"
// @Router 		/post [post]
func (r *V1) filterPosts(ctx *fiber.Ctx) error {
	var body request.PostFilter
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - filterPosts")
	}

	posts, err := r.post.ListByFilter(ctx.UserContext(), body.Filter())
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - filterPosts")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: posts})
}

// @Summary 	Delete post
// @Description Deletes the post and its images. Images that could not be deleted are reported and released later
// @Tags 		post
// @Accept 		json
// @Produce 	json
// @Security 	Bearer
// @Param 		request body request.DeletePost true "Post ID"
// @Success 	200 {object} response.DeletePost
// @Failure 	403 {object} response.Error "Not your post"
// @Failure 	404 {object} response.Error "Post not found"
// @Failure 	500 {object} response.DeletePost "Post deleted, some images were not"
// @Router 		/post/delete [post]
func (r *V1) deletePost(ctx *fiber.Ctx) error {
	var body request.DeletePost
	if err := r.parseBody(ctx, &body); err != nil {
		return r.fail(ctx, err, "restapi - v1 - deletePost")
	}

	id := uuid.MustParse(body.PostID)

	post, err := r.post.Get(ctx.UserContext(), id)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - deletePost")
	}

	if me, ok := caller(ctx); !ok || me != post.CreatorID {
		return errorResponse(ctx, http.StatusForbidden, "forbidden")
	}

	res, err := r.post.DeleteDraft(ctx.UserContext(), id)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - deletePost")
	}

	resp := response.DeletePost{DeletedCount: res.Deleted, FailedKeys: res.FailedKeys}
	if len(res.FailedKeys) > 0 {
		return ctx.Status(http.StatusInternalServerError).JSON(resp)
	}

	return ctx.Status(http.StatusOK).JSON(resp)
}

// @Summary 	Posts of a creator
// @Tags 		post
// @Produce 	json
// @Security 	Bearer
// @Param 		userId path string true "Creator ID(uuid)"
// @Success 	200 {object} response.Data
// @Failure 	400 {object} response.Error "Invalid ID"
// @Router 		/post/user/{userId} [get]
func (r *V1) postsByUser(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	posts, err := r.post.ListByCreator(ctx.UserContext(), id)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - postsByUser")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: posts})
}

// @Summary 	Get post
// @Tags 		post
// @Produce 	json
// @Security 	Bearer
// @Param 		postId path string true "Post ID(uuid)"
// @Success 	200 {object} response.Data
// @Failure 	400 {object} response.Error "Invalid ID"
// @Failure 	404 {object} response.Error "Post not found"
// @Router 		/post/{postId} [get]
func (r *V1) getPost(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("postId"))
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "invalid id")
	}

	post, err := r.post.Get(ctx.UserContext(), id)
	if err != nil {
		return r.fail(ctx, err, "restapi - v1 - getPost")
	}

	return ctx.Status(http.StatusOK).JSON(response.Data{Data: post})
}
