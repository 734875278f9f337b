package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/usergroups/internal/model"
	"github.com/deppfellow/usergroups/internal/validation"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
)

// MessageResponse is the body of endpoints that only confirm success.
type MessageResponse struct {
	Message string `json:"message"`
}

type ListUsersRequest struct {
	Limit  int `query:"limit" validate:"min=0"`
	Offset int `query:"offset" validate:"min=0"`
}

// Bind applies the defaults before reading the optional query params.
func (r *ListUsersRequest) Bind(c echo.Context) error {
	r.Limit, r.Offset = DefaultLimit, DefaultOffset
	return echo.QueryParamsBinder(c).
		Int("limit", &r.Limit).
		Int("offset", &r.Offset).
		BindError()
}

func (r *ListUsersRequest) Validate() error {
	return validation.Struct(r)
}

type FilterUsersByNameRequest struct {
	Name string `query:"name" validate:"required,notblank"`
}

func (r *FilterUsersByNameRequest) Validate() error {
	return validation.Struct(r)
}

type FilterUsersByEmailRequest struct {
	Email string `query:"email" validate:"required,notblank"`
}

func (r *FilterUsersByEmailRequest) Validate() error {
	return validation.Struct(r)
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email" validate:"required,notblank"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.Struct(r)
}

type UpdateUserEmailRequest struct {
	ID    int64  `param:"id" json:"-"`
	Email string `json:"email" validate:"required,notblank"`
}

func (r *UpdateUserEmailRequest) Bind(c echo.Context) error {
	if err := echo.PathParamsBinder(c).MustInt64("id", &r.ID).BindError(); err != nil {
		return err
	}
	return (&echo.DefaultBinder{}).BindBody(c, r)
}

func (r *UpdateUserEmailRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateUserStatusesRequest is a bare JSON array of {id, status}.
type UpdateUserStatusesRequest []model.UserStatusUpdate

func (r *UpdateUserStatusesRequest) Validate() error {
	if len(*r) == 0 {
		return validation.CustomValidationErrors{
			{Field: "statuses", Message: "must contain at least one item"},
		}
	}
	return validation.Var([]model.UserStatusUpdate(*r), "dive")
}

type RemoveUserFromGroupRequest struct {
	UserID  int64 `param:"userId"`
	GroupID int64 `param:"groupId"`
}

func (r *RemoveUserFromGroupRequest) Bind(c echo.Context) error {
	return echo.PathParamsBinder(c).
		MustInt64("userId", &r.UserID).
		MustInt64("groupId", &r.GroupID).
		BindError()
}

func (r *RemoveUserFromGroupRequest) Validate() error {
	return nil
}

type GetGroupRequest struct {
	ID int64 `param:"id"`
}

func (r *GetGroupRequest) Bind(c echo.Context) error {
	return echo.PathParamsBinder(c).MustInt64("id", &r.ID).BindError()
}

func (r *GetGroupRequest) Validate() error {
	return nil
}
