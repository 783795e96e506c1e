package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventhall/booking-api/internal/core/ports"
)

// HistoryHandler serves the employee history audit trail.
type HistoryHandler struct {
	service ports.HistoryService
}

func NewHistoryHandler(service ports.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// Search lists released administrators, most recent first.
//
// @Summary      Search employee history
// @Tags         history
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Search term"
// @Success      200     {object}  historySearchResponse
// @Failure      404     {object}  errorResponse
// @Router       /history/employee-history [get]
// @Router       /admin/employee-history [get]
func (h *HistoryHandler) Search(c echo.Context) error {
	term := strings.TrimSpace(c.QueryParam("search"))

	entries, err := h.service.Search(c.Request().Context(), term)
	if err != nil {
		return err
	}
	if term != "" && len(entries) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no employee found matching %q", term))
	}

	views := make([]historyView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newHistoryView(e))
	}
	return c.JSON(http.StatusOK, historySearchResponse{
		Count:      len(views),
		SearchTerm: searchTerm(term),
		Employees:  views,
	})
}
