package restapi

import (
	"github.com/andreyxaxa/LocalStoreConnect/config"
	v1 "github.com/andreyxaxa/LocalStoreConnect/internal/controller/restapi/v1"
	"github.com/andreyxaxa/LocalStoreConnect/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// @title LocalStoreConnect
// @version 1.0.0
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func NewRouter(app *fiber.App, cfg *config.Config, uc v1.UseCases, l logger.Interface) {
	// Swagger
	if cfg.Swagger.Enabled {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	// Routers
	api := app.Group("/api")
	{
		v1.NewRoutes(api, uc, l, cfg.Upload.MaxFileSize)
	}
}
