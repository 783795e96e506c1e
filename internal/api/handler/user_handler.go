package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/api/metrics"
	"github.com/eventhall/booking-api/internal/core/domain"
	"github.com/eventhall/booking-api/internal/core/ports"
)

// UserHandler handles customer accounts. Users manage their own record; the
// search endpoint is for administrators.
type UserHandler struct {
	service ports.AccountService[*domain.User]
}

func NewUserHandler(service ports.AccountService[*domain.User]) *UserHandler {
	return &UserHandler{service: service}
}

func userAccount(u *domain.User) *domain.Account { return &u.Account }

// Register creates a customer account. It is public.
//
// @Summary      Register a user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		EmailAddress:  req.EmailAddress,
		Password:      req.Password,
		UserImage:     req.UserImage,
	})
	if err != nil {
		return err
	}
	metrics.AccountsRegisteredTotal.WithLabelValues(string(domain.RoleUser)).Inc()

	return c.JSON(http.StatusCreated, userResponse{
		Message: "User successfully registered",
		User:    newAccountView(&user.Account),
	})
}

// Profile returns the calling user.
//
// @Summary      View own user profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{User: newAccountView(&user.Account)})
}

// Update applies a partial edit to the calling user's record.
//
// @Summary      Update own user profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /user/update [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		Message: "User successfully updated",
		User:    newAccountView(&user.Account),
	})
}

// Delete removes the calling user's account.
//
// @Summary      Delete own user account
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      404  {object}  errorResponse
// @Router       /user/delete [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := principalID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Delete(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResponse{
		Message: "User account successfully deleted",
		User:    newAccountView(&user.Account),
	})
}

// Search lists users, optionally filtered by name, contact or email.
//
// @Summary      Search users
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  userSearchResponse
// @Router       /user/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("search"))

	users, err := h.service.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userSearchResponse{
		Count:      len(users),
		Total:      len(users),
		SearchTerm: searchTerm(term),
		Users:      newAccountViews(users, userAccount),
	})
}
