package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/core/ports"
)

// PackageHandler handles the service-package catalog. Every route is
// admin-only.
type PackageHandler struct {
	service ports.PackageService
}

func NewPackageHandler(service ports.PackageService) *PackageHandler {
	return &PackageHandler{service: service}
}

func (r packageRequest) toInput() ports.PackageInput {
	return ports.PackageInput{
		Name:             r.Name,
		Features:         r.Features,
		GeneralPrice:     r.GeneralPrice,
		PromotionalPrice: r.PromotionalPrice,
		IsActive:         r.IsActive,
	}
}

// Create adds a package to the catalog.
//
// @Summary      Create a package
// @Tags         package
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      packageRequest  true  "Package details"
// @Success      201   {object}  packageResponse
// @Failure      400   {object}  errorResponse
// @Router       /package/create [post]
func (h *PackageHandler) Create(c echo.Context) error {
	var req packageRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, packageResponse{
		Message: "Package successfully created",
		Package: newPackageView(p),
	})
}

// List returns the whole catalog, newest first.
//
// @Summary      View packages
// @Tags         package
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  packageListResponse
// @Failure      404  {object}  errorResponse
// @Router       /package/view-packages [get]
func (h *PackageHandler) List(c echo.Context) error {
	pkgs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "no packages found")
	}

	views := make([]packageView, 0, len(pkgs))
	for _, p := range pkgs {
		views = append(views, newPackageView(p))
	}
	return c.JSON(http.StatusOK, packageListResponse{Count: len(views), Packages: views})
}

// Update replaces a package's fields.
//
// @Summary      Update a package
// @Tags         package
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Package id"
// @Param        body  body      packageRequest  true  "Package details"
// @Success      200   {object}  packageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /package/update/{id} [put]
func (h *PackageHandler) Update(c echo.Context) error {
	var req packageRequest
	if err := bindPayload(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, packageResponse{
		Message: "Package successfully updated",
		Package: newPackageView(p),
	})
}

// Delete removes a package.
//
// @Summary      Delete a package
// @Tags         package
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Package id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /package/delete/{id} [delete]
func (h *PackageHandler) Delete(c echo.Context) error {
	p, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: p.Name + " package successfully deleted"})
}
