package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
)

// writeDomainError traduz os erros de domínio do fluxo de notas fiscais para
// respostas HTTP. Os handlers de cadastro simples mapeiam inline; este helper
// existe porque o fluxo de emissão compartilha um conjunto grande de erros.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "não autorizado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dados inválidos"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "a nota fiscal não permite esta operação no status atual"})
	case errors.Is(err, domain.ErrJustificationTooShort):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "JUSTIFICATION_TOO_SHORT", Message: "a justificativa de cancelamento deve ter ao menos 15 caracteres"})
	case errors.Is(err, domain.ErrConfirmationRequired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: "mudança para PRODUCTION exige confirmed=true"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "operação em conflito com o estado atual da nota"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "recurso duplicado"})
	case errors.Is(err, domain.ErrGatewayUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "GATEWAY_UNAVAILABLE", Message: "o gateway fiscal não respondeu; consulte o status mais tarde"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
