package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/api/metrics"
	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type listUsersQuery struct {
	Role   string `query:"role"   validate:"omitempty,max=64"`
	Active string `query:"active"`
	Search string `query:"search" validate:"omitempty,max=180"`
}

type userIDParam struct {
	ID int64 `param:"id" validate:"gt=0"`
}

type userFieldsRequest struct {
	Email     *string  `json:"email"`
	Username  *string  `json:"username"`
	Password  *string  `json:"password"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Roles     []string `json:"roles"`
	IsActive  *bool    `json:"isActive"`
}

func (r userFieldsRequest) toFields() ports.UserFields {
	return ports.UserFields{
		Email:     r.Email,
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Roles:     r.Roles,
		IsActive:  r.IsActive,
	}
}

type rolesRequest struct {
	Roles json.RawMessage `json:"roles" swaggertype:"array,string"`
}

// roles returns the requested role list, or nil when roles is absent or not
// an array of strings.
func (r rolesRequest) roles() []string {
	var roles []string
	if len(r.Roles) == 0 || json.Unmarshal(r.Roles, &roles) != nil {
		return nil
	}
	return roles
}

// parseBool accepts 1, true, on and yes (any case) as true; anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

func (h *AdminHandler) userID(c echo.Context) (int64, error) {
	var p userIDParam
	if err := bindPath(c, &p); err != nil {
		return 0, domain.NewError(domain.ErrUserNotFound, "User not found")
	}
	return p.ID, nil
}

// ListUsers returns users filtered by role, active flag and search term.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role    query     string  false  "Role the user must hold"
// @Param        active  query     string  false  "Active flag (true/false)"
// @Param        search  query     string  false  "Substring of email, username or full name"
// @Success      200     {object}  Response
// @Failure      401     {object}  Response
// @Failure      403     {object}  Response
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	var q listUsersQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	filter := ports.UserFilter{Role: q.Role, Search: q.Search}
	if c.QueryParams().Has("active") {
		active := parseBool(q.Active)
		filter.Active = &active
	}

	users, err := h.adminService.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", Data{
		"users": domain.Views(users),
		"total": len(users),
	})
}

// GetUser returns a single user.
//
// @Summary      Get user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	user, err := h.adminService.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", Data{"user": user.View()})
}

// CreateUser creates a user with chosen roles and active flag.
//
// @Summary      Create user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userFieldsRequest  true  "User fields"
// @Success      201   {object}  Response
// @Failure      400   {object}  Response
// @Failure      409   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req userFieldsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.CreateUser(c.Request().Context(), req.toFields())
	if err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("create").Inc()
	return respond(c, http.StatusCreated, "User created successfully", Data{"user": user.View()})
}

// UpdateUser changes the provided fields of a user.
//
// @Summary      Update user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      userFieldsRequest  true  "Fields to change"
// @Success      200   {object}  Response
// @Failure      404   {object}  Response
// @Failure      409   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	var req userFieldsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.UpdateUser(c.Request().Context(), id, req.toFields())
	if err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("update").Inc()
	return respond(c, http.StatusOK, "User updated successfully", Data{"user": user.View()})
}

// DeleteUser permanently removes a user other than the caller.
//
// @Summary      Delete user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := h.userID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), actor.UserID, id); err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("delete").Inc()
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// ActivateUser sets isActive=true.
//
// @Summary      Activate user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/admin/users/{id}/activate [post]
func (h *AdminHandler) ActivateUser(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	user, err := h.adminService.ActivateUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("activate").Inc()
	return respond(c, http.StatusOK, "User activated successfully", Data{"user": user.View()})
}

// DeactivateUser sets isActive=false on a user other than the caller.
//
// @Summary      Deactivate user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  Response
// @Failure      403  {object}  Response
// @Failure      404  {object}  Response
// @Router       /api/admin/users/{id}/deactivate [post]
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	actor, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := h.userID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.DeactivateUser(c.Request().Context(), actor.UserID, id)
	if err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("deactivate").Inc()
	return respond(c, http.StatusOK, "User deactivated successfully", Data{"user": user.View()})
}

// UpdateRoles replaces the role set of a user.
//
// @Summary      Replace roles
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "User ID"
// @Param        body  body      rolesRequest  true  "New role set"
// @Success      200   {object}  Response
// @Failure      400   {object}  Response
// @Failure      404   {object}  Response
// @Router       /api/admin/users/{id}/roles [put]
func (h *AdminHandler) UpdateRoles(c echo.Context) error {
	id, err := h.userID(c)
	if err != nil {
		return err
	}
	var req rolesRequest
	if c.Request().ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}

	user, err := h.adminService.UpdateRoles(c.Request().Context(), id, req.roles())
	if err != nil {
		return err
	}
	metrics.AdminActionsTotal.WithLabelValues("roles").Inc()
	return respond(c, http.StatusOK, "User roles updated successfully", Data{"user": user.View()})
}

// Stats returns user counts.
//
// @Summary      User statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.adminService.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", Data{"stats": stats})
}
