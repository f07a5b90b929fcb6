package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/mall-service/internal/api/http/handlers"
	"github.com/spec-kit/mall-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Users             *handlers.UsersHandler
	Categories        *handlers.CategoryHandler
	Products          *handlers.ProductHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The session middleware resolves the
// current user everywhere; manage routes additionally require login and the
// administrator role.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	portal := app.Group("/portal/user", cfg.SessionMiddleware.Handle)
	portal.Post("/register", cfg.Users.Register)
	portal.Post("/login", cfg.Users.Login)
	portal.Post("/logout", cfg.Users.Logout)
	portal.Post("/check-valid", cfg.Users.CheckValid)
	portal.Post("/forget/question", cfg.Users.ForgetGetQuestion)
	portal.Post("/forget/answer", cfg.Users.ForgetCheckAnswer)
	portal.Post("/forget/reset", cfg.Users.ForgetResetPassword)

	portalAuthed := portal.Group("", auth.RequireLogin())
	portalAuthed.Get("/info", cfg.Users.UserInfo)
	portalAuthed.Get("/detail", cfg.Users.GetInformation)
	portalAuthed.Post("/password/reset", cfg.Users.ResetPassword)
	portalAuthed.Post("/update", cfg.Users.UpdateInformation)

	manage := app.Group("/manage", cfg.SessionMiddleware.Handle, auth.RequireLogin(), auth.RequireAdmin())
	manage.Post("/category", cfg.Categories.Add)
	manage.Put("/category/name", cfg.Categories.Rename)
	manage.Get("/category/children", cfg.Categories.Children)
	manage.Get("/category/deep", cfg.Categories.Deep)

	manage.Post("/product/save", cfg.Products.Save)
	manage.Put("/product/sale-status", cfg.Products.SetSaleStatus)
	manage.Get("/product/:id", cfg.Products.Detail)
}
