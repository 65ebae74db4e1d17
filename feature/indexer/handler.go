package indexer

import (
	"errors"

	"media-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for index scans.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the indexer routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/index")
	group.Post("/scan", h.HandleScanBucket)
	group.Post("/scan/dir", h.HandleScanDir)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleScanBucket scans the storage bucket.
// @Summary Scan Bucket
// @Description Lists media objects under a prefix of the storage bucket and reconciles the index with them.
// @Tags indexer
// @Produce json
// @Param prefix query string false "Object key prefix"
// @Success 200 {object} ScanReport "Scan Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /index/scan [post]
func (h *Handler) HandleScanBucket(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	prefix := c.Query("prefix")
	l.Info("Starting bucket scan", zap.String("prefix", prefix))

	report, err := h.service.ScanBucket(c.Context(), prefix)
	if err != nil {
		l.Error("Bucket scan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleScanDir scans the configured directory.
// @Summary Scan Directory
// @Description Walks the configured watch directory and reconciles the index with its media files.
// @Tags indexer
// @Produce json
// @Success 200 {object} ScanReport "Scan Report"
// @Failure 400 {object} map[string]string "No directory configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /index/scan/dir [post]
func (h *Handler) HandleScanDir(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting directory scan", zap.String("root", h.service.Root()))

	report, err := h.service.ScanDir(c.Context())
	if errors.Is(err, ErrNoDirectory) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Directory scan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the index table schema.
// @Summary Check Index Schema
// @Description Reports the required media index columns that are missing from the configured table.
// @Tags indexer
// @Produce json
// @Success 200 {object} map[string]interface{} "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /index/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	status := "ok"
	if len(missing) > 0 {
		status = "incomplete"
	}
	return c.JSON(fiber.Map{
		"table":   h.service.table,
		"status":  status,
		"missing": missing,
	})
}
