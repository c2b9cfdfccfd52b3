package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
)

// FiscalConfigHandler configuração fiscal do tenant: ambiente (sandbox ou
// produção) e credenciais do gateway. Restrito ao papel admin no router.
type FiscalConfigHandler struct {
	uc *billing.FiscalConfigUseCase
}

// NewFiscalConfigHandler constrói o handler.
func NewFiscalConfigHandler(uc *billing.FiscalConfigUseCase) *FiscalConfigHandler {
	return &FiscalConfigHandler{uc: uc}
}

// Get GET /api/fiscal-config
func (h *FiscalConfigHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	cfg, err := h.uc.Get(c.Context(), companyID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(cfg)
}

// SetEnvironment godoc
// @Summary      Trocar o ambiente de emissão
// @Description  PRODUCTION exige confirmed=true: muda o efeito legal de todas
// @Description  as emissões seguintes. Notas já emitidas mantêm o ambiente
// @Description  carimbado na emissão.
// @Tags         fiscal-config
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetEnvironmentRequest  true  "environment, confirmed"
// @Success      200   {object}  dto.FiscalConfigResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/fiscal-config/environment [put]
func (h *FiscalConfigHandler) SetEnvironment(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SetEnvironmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cfg, err := h.uc.SetEnvironment(c.Context(), companyID, in.Environment, in.Confirmed)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(cfg)
}

// UpdateCredentials PUT /api/fiscal-config/credentials
func (h *FiscalConfigHandler) UpdateCredentials(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateCredentialsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	cfg, err := h.uc.UpdateCredentials(c.Context(), companyID, in.GatewayToken, in.MunicipalRegistration, in.RPSSeries)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(cfg)
}
