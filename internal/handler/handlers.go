// Package handler is the HTTP entry point for business logic.
//
// It binds and validates requests through the validation package, calls
// the service layer and writes the result. Errors are returned to the
// global error handler, which turns them into JSON responses.
package handler

import (
	"github.com/deppfellow/usergroups/internal/server"
	"github.com/deppfellow/usergroups/internal/service"
)

// Handlers groups all HTTP handlers.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	User    *UserHandler
	Group   *GroupHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
		Group:   NewGroupHandler(s, services.Group),
	}
}
