package pages

import (
	"bytes"
	"errors"
	"net/url"
	"strings"

	"page-store/core/codec"
	"page-store/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MetadataHeaderPrefix marks request headers copied into object metadata on upload.
const MetadataHeaderPrefix = "X-Page-Meta-"

// Handler exposes a Manager over HTTP.
type Handler struct {
	manager *Manager
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{manager: manager, logger: logger}
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/pages")
	// Fiber's Get also answers HEAD, so the explicit HEAD route goes first.
	group.Head("/*", h.HandleExists)
	group.Get("/", h.HandleList)
	group.Get("/*", h.HandleGet)
	group.Put("/*", h.HandleUpload)
	group.Delete("/*", h.HandleDelete)
}

// HandleList lists keys under an optional prefix.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	prefix := c.Query("prefix")
	maxKeys := c.QueryInt("max_keys", 0)

	keys, err := h.manager.List(c.UserContext(), prefix, maxKeys)
	if err != nil {
		l.Error("List failed", zap.String("prefix", prefix), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"prefix": prefix,
		"count":  len(keys),
		"keys":   keys,
	})
}

// HandleGet streams the stored JPEG bytes of a page.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	key, err := keyParam(c)
	if err != nil {
		return respondError(c, err)
	}

	data, err := h.manager.Get(c.UserContext(), key)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Get failed", zap.String("key", key), zap.Error(err))
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, codec.ContentType)
	return c.Send(data)
}

// HandleExists answers 200 when the page is stored and 404 otherwise.
func (h *Handler) HandleExists(c *fiber.Ctx) error {
	key, err := keyParam(c)
	if err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	exists, err := h.manager.Exists(c.UserContext(), key)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Exists failed", zap.String("key", key), zap.Error(err))
		return c.SendStatus(statusFor(err))
	}
	if !exists {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleUpload stores the request body, any supported image format, as a JPEG page.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	key, err := keyParam(c)
	if err != nil {
		return respondError(c, err)
	}

	// Fiber reuses the body buffer once the handler returns.
	body := bytes.Clone(c.Body())
	stored, err := h.manager.UploadSingle(c.UserContext(), key, body, metadataFromHeaders(c))
	if err != nil {
		l.Error("Upload failed", zap.String("key", key), zap.Error(err))
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"key": stored})
}

// HandleDelete removes a page.
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	key, err := keyParam(c)
	if err != nil {
		return respondError(c, err)
	}

	deleted, err := h.manager.Delete(c.UserContext(), key)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Delete failed", zap.String("key", key), zap.Error(err))
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"key": key, "deleted": deleted})
}

func keyParam(c *fiber.Ctx) (string, error) {
	raw := c.Params("*")
	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", newError(KindInvalidArgument, "http", raw, err)
	}
	if strings.TrimSpace(key) == "" {
		return "", invalidArgument("http", "", "key cannot be empty")
	}
	return key, nil
}

func metadataFromHeaders(c *fiber.Ctx) map[string]string {
	var meta map[string]string
	for name, values := range c.GetReqHeaders() {
		if len(values) == 0 || len(name) <= len(MetadataHeaderPrefix) ||
			!strings.EqualFold(name[:len(MetadataHeaderPrefix)], MetadataHeaderPrefix) {
			continue
		}
		if meta == nil {
			meta = make(map[string]string)
		}
		meta[strings.ToLower(name[len(MetadataHeaderPrefix):])] = values[0]
	}
	return meta
}

// statusFor maps an error Kind to an HTTP status.
func statusFor(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindTransfer, KindDeletion, KindList:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	var perr *Error
	if errors.As(err, &perr) {
		body["kind"] = perr.Kind.String()
	}
	return c.Status(statusFor(err)).JSON(body)
}
