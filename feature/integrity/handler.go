package integrity

import (
	"errors"
	"net/url"

	"page-store/core/logger"
	"page-store/feature/pages"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/:session/:file", h.HandleDocumentCheck)
}

// HandleDocumentCheck reports the stored pages of one document.
func (h *Handler) HandleDocumentCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	sessionID, err := uuid.Parse(c.Params("session"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid session id"})
	}
	fileName, err := url.PathUnescape(c.Params("file"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid file name"})
	}

	report, err := h.service.CheckDocument(c.UserContext(), sessionID, fileName)
	if err != nil {
		l.Error("Document check failed", zap.Error(err))
		status := fiber.StatusBadGateway
		if errors.Is(err, pages.ErrInvalidArgument) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":   statusOf(report),
		"complete": report.Complete(),
		"report":   report,
	})
}

func statusOf(r *Report) string {
	switch {
	case r.Count == 0:
		return "empty"
	case r.Complete() && len(r.Foreign) == 0:
		return "ok"
	}
	return "incomplete"
}
