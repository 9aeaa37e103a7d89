package v1

import (
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func NewRoutes(api fiber.Router, uc UseCases, l logger.Interface, maxFileSize int64) {
	r := &V1{
		cred:        uc.Credential,
		prof:        uc.Profile,
		post:        uc.Post,
		cat:         uc.Category,
		logger:      l,
		v:           validator.New(validator.WithRequiredStructEnabled()),
		maxFileSize: maxFileSize,
	}

	owners := api.Group("/businessowner")
	{
		owners.Post("/register", r.register)
		owners.Post("/login", r.login)
		owners.Post("/upload", r.uploadFile)
		owners.Get("/", r.listOwners)
		owners.Get("/:id", r.getOwner)
		owners.Put("/:id", r.authRequired, r.updateOwner)
	}

	categories := api.Group("/category")
	{
		categories.Post("/create", r.createCategory)
		categories.Get("/", r.listCategories)
	}

	posts := api.Group("/post", r.authRequired)
	{
		posts.Post("/create", r.createPost)
		posts.Post("/delete", r.deletePost)
		posts.Post("/", r.filterPosts)
		posts.Get("/user/:userId", r.postsByUser)
		posts.Get("/:postId", r.getPost)
	}
}
