package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// AdminHandler handles administrator management. Every route is admin-only.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func adminAccount(a *domain.Admin) *domain.Account { return &a.Account }

// Register creates another administrator.
//
// @Summary      Register an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerRequest  true  "Administrator details"
// @Success      201   {object}  adminResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /admin/register [post]
func (h *AdminHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	admin, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		EmailAddress:  req.EmailAddress,
		Password:      req.Password,
		UserImage:     req.UserImage,
	})
	if err != nil {
		return err
	}
	metrics.AccountsRegisteredTotal.WithLabelValues(string(domain.RoleAdmin)).Inc()

	return c.JSON(http.StatusCreated, adminResponse{
		Message:       "Administrator successfully created",
		Administrator: newAccountView(&admin.Account),
	})
}

// Profile returns the calling administrator.
//
// @Summary      View own administrator profile
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/profile [get]
func (h *AdminHandler) Profile(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	admin, err := h.service.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Administrator: newAccountView(&admin.Account)})
}

// Search lists administrators, optionally filtered by name, contact or email.
//
// @Summary      Search administrators
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  adminSearchResponse
// @Failure      404     {object}  errorResponse
// @Router       /admin/search [get]
func (h *AdminHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("search"))

	admins, err := h.service.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}
	if term != "" && len(admins) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no administrator found matching %q", term))
	}

	return c.JSON(http.StatusOK, adminSearchResponse{
		Count:          len(admins),
		SearchTerm:     searchTerm(term),
		Administrators: newAccountViews(admins, adminAccount),
	})
}

// Update edits an administrator. Name, contact and email are required;
// password and image are optional.
//
// @Summary      Update an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Administrator id"
// @Param        body  body      updateAccountRequest  true  "New values"
// @Success      200   {object}  adminResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/update/{id} [put]
func (h *AdminHandler) Update(c echo.Context) error {
	var req updateAccountRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	admin, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{
		Message:       "Administrator successfully updated",
		Administrator: newAccountView(&admin.Account),
	})
}

// Delete removes an administrator and records an employee history entry.
//
// @Summary      Delete an administrator
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true   "Administrator id"
// @Param        body  body      releaseRequest  false  "Release details"
// @Success      200   {object}  releaseResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/delete/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	var req releaseRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	entry, err := h.service.Release(c.Request().Context(), c.Param("id"), ports.ReleaseInput{
		Occupation:  req.Occupation,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	metrics.EmployeeHistoryRecordsTotal.Inc()

	return c.JSON(http.StatusOK, releaseResponse{
		Message: "Administrator successfully deleted",
		History: newHistoryView(entry),
	})
}

func (r updateAccountRequest) toInput() ports.UpdateAccountInput {
	return ports.UpdateAccountInput{
		FullName:      r.FullName,
		ContactNumber: r.ContactNumber,
		EmailAddress:  r.EmailAddress,
		Password:      r.Password,
		UserImage:     r.UserImage,
	}
}
