package history

import (
	"errors"

	"stock-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves cycle history.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the history routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/history")
	group.Get("/", h.HandleList)
	group.Get("/:cycle_id/report", h.HandleReport)
}

// HandleList lists recent cycles.
// @Summary List Cycles
// @Description Returns the most recent cycles, newest first.
// @Tags history
// @Produce json
// @Param limit query int false "Maximum number of cycles"
// @Success 200 {array} CycleRun
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.Recent(c.Context(), c.QueryInt("limit", DefaultListLimit))
	if err != nil {
		l.Error("Failed to list cycles", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []CycleRun{}
	}
	return c.JSON(runs)
}

// HandleReport returns the archived report of a cycle.
// @Summary Get Cycle Report
// @Description Returns the full JSON report archived for a cycle.
// @Tags history
// @Produce json
// @Param cycle_id path string true "Cycle ID"
// @Success 200 {object} report.Report
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /history/{cycle_id}/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("cycle_id")

	r, found, err := h.service.Report(c.Context(), id)
	switch {
	case errors.Is(err, ErrNotArchived):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Failed to load report", zap.String("cycle_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	case !found:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "cycle not found"})
	}
	return c.JSON(r)
}
