package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
)

// InvoiceHandler ciclo de vida da NFS-e de um lançamento: emissão, consulta
// de status, cancelamento, artefatos e espelho (protegido).
type InvoiceHandler struct {
	issue     *billing.IssueInvoiceUseCase
	reconcile *billing.ReconcileUseCase
	cancel    *billing.CancelInvoiceUseCase
	artifacts *billing.ArtifactUseCase
	espelho   *billing.EspelhoUseCase
}

// NewInvoiceHandler constrói o handler.
func NewInvoiceHandler(
	issue *billing.IssueInvoiceUseCase,
	reconcile *billing.ReconcileUseCase,
	cancel *billing.CancelInvoiceUseCase,
	artifacts *billing.ArtifactUseCase,
	espelho *billing.EspelhoUseCase,
) *InvoiceHandler {
	return &InvoiceHandler{
		issue:     issue,
		reconcile: reconcile,
		cancel:    cancel,
		artifacts: artifacts,
		espelho:   espelho,
	}
}

// Issue godoc
// @Summary      Emitir NFS-e para um lançamento
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "id do lançamento"
// @Param        body  body  dto.IssueInvoiceRequest true  "service_code"
// @Success      200   {object}  dto.InvoiceStatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/invoice [post]
func (h *InvoiceHandler) Issue(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	var in dto.IssueInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.issue.Issue(c.Context(), companyID, id, billing.IssueInput{
		ServiceCode: in.ServiceCode,
		Description: in.Description,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(statusResponse(out))
}

// Refresh consulta o gateway e sincroniza o status de uma nota em
// processamento. Idempotente para notas em estado terminal.
// POST /api/transactions/:id/invoice/refresh
func (h *InvoiceHandler) Refresh(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.reconcile.Refresh(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(statusResponse(out))
}

// Cancel godoc
// @Summary      Cancelar uma NFS-e emitida
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "id do lançamento"
// @Param        body  body  dto.CancelInvoiceRequest true  "justification (mín. 15 caracteres)"
// @Success      200   {object}  dto.InvoiceStatusResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id}/invoice/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.cancel.Cancel(c.Context(), companyID, c.Params("id"), in.Justification)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(statusResponse(out))
}

// Artifact devolve a URL transitória do PDF ou XML oficial da nota.
// GET /api/transactions/:id/invoice/artifact?format=pdf|xml
func (h *InvoiceHandler) Artifact(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	format := c.Query("format", billing.FormatPDF)
	out, err := h.artifacts.Get(c.Context(), companyID, c.Params("id"), format)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Espelho gera e devolve o PDF do espelho da nota (sem valor fiscal).
// GET /api/transactions/:id/invoice/espelho
func (h *InvoiceHandler) Espelho(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	pdf, err := h.espelho.Generate(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="espelho-nfse.pdf"`)
	return c.Send(pdf)
}

// statusResponse projeta o desfecho de emissão no DTO de resposta.
func statusResponse(out *billing.IssueOutcome) *dto.InvoiceStatusResponse {
	return &dto.InvoiceStatusResponse{
		TransactionID:      out.TransactionID,
		InvoiceStatus:      string(out.Status),
		InvoiceNumber:      out.Number,
		InvoiceEnvironment: string(out.Environment),
		InvoiceKey:         out.Key,
		Rejection:          out.Rejection,
	}
}
