package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/server"
	"github.com/deppfellow/usergroups/internal/service"
)

type GroupHandler struct {
	Handler
	service *service.GroupService
}

func NewGroupHandler(s *server.Server, svc *service.GroupService) *GroupHandler {
	return &GroupHandler{
		Handler: NewHandler(s),
		service: svc,
	}
}

func (h *GroupHandler) GetGroup(c echo.Context, req *GetGroupRequest) (*model.Group, error) {
	return h.service.GetGroup(c.Request().Context(), req.ID)
}

func (h *GroupHandler) RemoveUserFromGroup(c echo.Context, req *RemoveUserFromGroupRequest) (MessageResponse, error) {
	if err := h.service.RemoveUserFromGroup(c.Request().Context(), req.UserID, req.GroupID); err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "User removed from group successfully"}, nil
}
