package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
)

// FBRHandler validación local, validación en FBR y envío.
type FBRHandler struct {
	uc *billing.SubmissionUseCase
}

// NewFBRHandler construye el handler.
func NewFBRHandler(uc *billing.SubmissionUseCase) *FBRHandler {
	return &FBRHandler{uc: uc}
}

func (h *FBRHandler) parseDraft(c *fiber.Ctx) (*dto.InvoiceDraftRequest, error) {
	var in dto.InvoiceDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate godoc
// @Summary      Validar borrador localmente
// @Tags         fbr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceDraftRequest  true  "borrador"
// @Success      200   {object}  dto.ValidationResponse
// @Router       /api/fbr/validate [post]
func (h *FBRHandler) Validate(c *fiber.Ctx) error {
	in, err := h.parseDraft(c)
	if err != nil {
		return badBody(c)
	}
	draft, err := billing.DraftFromRequest(*in)
	if err != nil {
		return respondError(c, err)
	}
	res := h.uc.Validate(draft)
	out := dto.ValidationResponse{Valid: res.Valid()}
	if !out.Valid {
		out.Errors = billing.ToFieldErrors(res.Errors)
	}
	return c.JSON(out)
}

// DryRun godoc
// @Summary      Validar borrador contra FBR (sin registrar)
// @Tags         fbr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceDraftRequest  true  "borrador"
// @Success      200   {object}  dto.DryRunResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/fbr/validate-invoice [post]
func (h *FBRHandler) DryRun(c *fiber.Ctx) error {
	in, err := h.parseDraft(c)
	if err != nil {
		return badBody(c)
	}
	draft, err := billing.DraftFromRequest(*in)
	if err != nil {
		return respondError(c, err)
	}
	resp, err := h.uc.DryRun(c.Context(), draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.DryRunResponse{Accepted: true, Mock: resp.Mock, Gateway: resp})
}

// Submit godoc
// @Summary      Enviar factura a FBR y registrarla
// @Tags         fbr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceDraftRequest  true  "borrador"
// @Success      201   {object}  dto.SubmissionResponse
// @Success      200   {object}  dto.SubmissionResponse  "ya registrada"
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/fbr/post-invoice [post]
func (h *FBRHandler) Submit(c *fiber.Ctx) error {
	in, err := h.parseDraft(c)
	if err != nil {
		return badBody(c)
	}
	draft, err := billing.DraftFromRequest(*in)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.Submit(c.Context(), GetUserID(c), draft)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusCreated
	if res.AlreadyRecorded {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(dto.SubmissionResponse{
		InvoiceID:       res.InvoiceID,
		Mock:            res.Mock,
		AlreadyRecorded: res.AlreadyRecorded,
		Invoice:         billing.ToInvoiceResponse(res.Invoice),
		Gateway:         res.Gateway,
	})
}
