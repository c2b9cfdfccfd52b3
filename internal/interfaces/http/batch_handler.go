package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
)

// BatchHandler emissão em massa a partir de linhas de planilha já tipadas.
type BatchHandler struct {
	uc *billing.BatchIssueUseCase
}

// NewBatchHandler constrói o handler.
func NewBatchHandler(uc *billing.BatchIssueUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Run godoc
// @Summary      Emitir NFS-e em lote
// @Description  Processa as linhas sequencialmente; a falha de uma linha não
// @Description  interrompe as demais. A resposta traz o desfecho por linha.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchIssueRequest  true  "linhas do lote"
// @Success      200   {object}  dto.BatchIssueResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/invoices/batch [post]
func (h *BatchHandler) Run(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BatchIssueRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.Run(c.Context(), companyID, in.Rows)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
