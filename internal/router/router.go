// Package router builds the echo instance: middleware chain, error
// handler and every route.
package router

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/usergroups/internal/handler"
	"github.com/deppfellow/usergroups/internal/middleware"
	"github.com/deppfellow/usergroups/internal/server"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Global.Recover(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:          "usergroups",
			Subsystem:          "http",
			Registerer:         s.Metrics,
			StatusCodeResolver: middleware.ResponseStatus,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(router, s, h)
	registerUserRoutes(router, h)
	registerGroupRoutes(router, h)

	return router
}

func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	users := r.Group("/users")

	users.GET("", handler.Handle(h.User.Handler, h.User.ListUsers, http.StatusOK))
	users.POST("", handler.Handle(h.User.Handler, h.User.CreateUser, http.StatusOK))
	users.GET("/filter", handler.Handle(h.User.Handler, h.User.FilterUsersByName, http.StatusOK))
	users.GET("/filter/email", handler.Handle(h.User.Handler, h.User.FilterUsersByEmail, http.StatusOK))
	users.PUT("/statuses", handler.Handle(h.User.Handler, h.User.UpdateUserStatuses, http.StatusOK))
	users.PUT("/:id/email", handler.Handle(h.User.Handler, h.User.UpdateUserEmail, http.StatusOK))
	users.DELETE("/:userId/groups/:groupId", handler.Handle(h.Group.Handler, h.Group.RemoveUserFromGroup, http.StatusOK))
}

func registerGroupRoutes(r *echo.Echo, h *handler.Handlers) {
	groups := r.Group("/groups")

	groups.GET("/:id", handler.Handle(h.Group.Handler, h.Group.GetGroup, http.StatusOK))
}
