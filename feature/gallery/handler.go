package gallery

import (
	"errors"

	"media-manager/core/logger"
	"media-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OpenRequest is the body of POST /media/views.
type OpenRequest struct {
	Set   string `json:"set"`
	Order string `json:"order"`
	// Limit caps the view; negative is unbounded, absent is DefaultLimit.
	Limit *int `json:"limit"`
}

// Handler handles HTTP requests for media sets and views.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the gallery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/media")
	group.Get("/count", h.HandleCount)
	group.Post("/views", h.HandleOpenView)
	group.Get("/views/:id", h.HandleGetView)
	group.Delete("/views/:id", h.HandleCloseView)
	group.Post("/refresh", h.HandleRefresh)
}

// HandleCount returns the item count of a set.
// @Summary Set Count
// @Description Returns the number of items in a set. known is false while the count is being recomputed.
// @Tags gallery
// @Produce json
// @Param set query string false "Set name (all, camera)"
// @Success 200 {object} CountReport "Count"
// @Failure 404 {object} map[string]string "Unknown set"
// @Router /media/count [get]
func (h *Handler) HandleCount(c *fiber.Ctx) error {
	report, err := h.service.Count(c.Context(), c.Query("set"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleOpenView opens a view.
// @Summary Open View
// @Description Opens a live, ordered and capped view on a set. Contents load asynchronously.
// @Tags gallery
// @Accept json
// @Produce json
// @Param request body OpenRequest true "View parameters"
// @Success 201 {object} ViewReport "Opened view"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown set"
// @Router /media/views [post]
func (h *Handler) HandleOpenView(c *fiber.Ctx) error {
	var req OpenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	limit := DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	report, err := h.service.OpenView(c.Context(), req.Set, req.Order, limit)
	if err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("View opened",
		zap.String("view", report.ID),
		zap.String("set", report.Set),
		zap.String("order", report.Order),
		zap.Int("limit", report.Limit))
	return c.Status(fiber.StatusCreated).JSON(report)
}

// HandleGetView returns the contents of a view.
// @Summary Get View
// @Description Returns the current contents of an open view.
// @Tags gallery
// @Produce json
// @Param id path string true "View ID"
// @Success 200 {object} ViewReport "View"
// @Failure 404 {object} map[string]string "Unknown view"
// @Router /media/views/{id} [get]
func (h *Handler) HandleGetView(c *fiber.Ctx) error {
	report, err := h.service.View(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

// HandleCloseView releases a view.
// @Summary Close View
// @Description Releases an open view and cancels its pending work.
// @Tags gallery
// @Param id path string true "View ID"
// @Success 204 "Released"
// @Failure 404 {object} map[string]string "Unknown view"
// @Router /media/views/{id} [delete]
func (h *Handler) HandleCloseView(c *fiber.Ctx) error {
	if err := h.service.CloseView(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRefresh reconciles a set now.
// @Summary Refresh Set
// @Description Recomputes the count and reconciles every view of a set with the index without waiting for a change notification.
// @Tags gallery
// @Produce json
// @Param set query string false "Set name (all, camera)"
// @Success 202 {object} map[string]string "Accepted"
// @Failure 404 {object} map[string]string "Unknown set"
// @Router /media/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	if err := h.service.Refresh(c.Context(), c.Query("set")); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "refreshing"})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownSet), errors.Is(err, ErrUnknownView):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrUnknownOrder):
		status = fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrReleased):
		status = fiber.StatusGone
	default:
		logger.WithRayID(h.service.logger, c).Error("Gallery request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
