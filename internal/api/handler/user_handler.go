package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

// UserHandler serves the member directory to any signed-in user.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type listMembersQuery struct {
	Sort  string `query:"sort"  validate:"omitempty,oneof=id email username createdAt"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

type directoryData struct {
	Users []domain.UserView    `json:"users"`
	Stats ports.DirectoryStats `json:"stats"`
}

// List returns every user as a public projection.
//
// @Summary      List members
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        sort   query     string  false  "id, email, username or createdAt"
// @Param        order  query     string  false  "asc or desc"
// @Success      200    {object}  Response
// @Failure      400    {object}  Response
// @Failure      401    {object}  Response
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	var q listMembersQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	users, err := h.userService.ListUsers(c.Request().Context(), ports.SortOption{
		Field: q.Sort,
		Desc:  q.Order == "desc",
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", Data{
		"users": domain.Views(users),
		"total": len(users),
	})
}

// Directory returns the member list newest first with its summary.
//
// @Summary      Member directory
// @Tags         users
// @Produce      json
// @Success      200  {object}  Response
// @Failure      302  "Redirect to /login when anonymous"
// @Router       /users [get]
func (h *UserHandler) Directory(c echo.Context) error {
	dir, err := h.userService.Directory(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", directoryData{
		Users: domain.Views(dir.Users),
		Stats: dir.Stats,
	})
}
