package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/server"
	"github.com/deppfellow/usergroups/internal/service"
)

type UserHandler struct {
	Handler
	service *service.UserService
}

func NewUserHandler(s *server.Server, svc *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *UserHandler) ListUsers(c echo.Context, req *ListUsersRequest) (UserList, error) {
	return h.service.ListUsers(c.Request().Context(), req.Limit, req.Offset)
}

func (h *UserHandler) FilterUsersByName(c echo.Context, req *FilterUsersByNameRequest) (UserList, error) {
	return h.service.FindUsersByName(c.Request().Context(), req.Name)
}

func (h *UserHandler) FilterUsersByEmail(c echo.Context, req *FilterUsersByEmailRequest) (UserList, error) {
	return h.service.FindUsersByEmail(c.Request().Context(), req.Email)
}

func (h *UserHandler) CreateUser(c echo.Context, req *CreateUserRequest) (*model.User, error) {
	return h.service.CreateUser(c.Request().Context(), req.Name, req.Email)
}

func (h *UserHandler) UpdateUserEmail(c echo.Context, req *UpdateUserEmailRequest) (*model.UserEmail, error) {
	return h.service.UpdateUserEmail(c.Request().Context(), req.ID, req.Email)
}

func (h *UserHandler) UpdateUserStatuses(c echo.Context, req *UpdateUserStatusesRequest) (MessageResponse, error) {
	if err := h.service.UpdateUserStatuses(c.Request().Context(), *req); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "User statuses updated successfully"}, nil
}

// UserList lets list responses report their size to New Relic.
type UserList []model.User

func (u UserList) Len() int { return len(u) }
