package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/application/usecase"
)

// ServiceCodeHandler consulta da tabela LC 116/2003 (somente leitura).
type ServiceCodeHandler struct {
	uc *usecase.ServiceCodeUseCase
}

// NewServiceCodeHandler constrói o handler.
func NewServiceCodeHandler(uc *usecase.ServiceCodeUseCase) *ServiceCodeHandler {
	return &ServiceCodeHandler{uc: uc}
}

// List GET /api/service-codes?limit=100&offset=0
func (h *ServiceCodeHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}
	list, err := h.uc.List(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// GetByCode GET /api/service-codes/:code
func (h *ServiceCodeHandler) GetByCode(c *fiber.Ctx) error {
	sc, err := h.uc.Get(c.Context(), c.Params("code"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(sc)
}
