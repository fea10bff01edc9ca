package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/secops-service/internal/auth"
	"github.com/spec-kit/secops-service/internal/repository"
	"github.com/spec-kit/secops-service/internal/service"
)

// RecordsHandler exposes CRUD for one record kind.
type RecordsHandler[T any, P repository.EntityPtr[T]] struct {
	service *service.RecordService[T, P]
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler[T any, P repository.EntityPtr[T]](svc *service.RecordService[T, P]) *RecordsHandler[T, P] {
	return &RecordsHandler[T, P]{service: svc}
}

func actorID(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return identity.ID
	}
	return ""
}

// List GET /.
func (h *RecordsHandler[T, P]) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

// Get GET /:id.
func (h *RecordsHandler[T, P]) Get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Create POST /.
func (h *RecordsHandler[T, P]) Create(c *fiber.Ctx) error {
	record, err := h.service.Create(c.UserContext(), actorID(c), c.Body())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(record)
}

// Update PUT|PATCH /:id.
func (h *RecordsHandler[T, P]) Update(c *fiber.Ctx) error {
	record, err := h.service.Update(c.UserContext(), actorID(c), c.Params("id"), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(record)
}

// Delete DELETE /:id.
func (h *RecordsHandler[T, P]) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actorID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
