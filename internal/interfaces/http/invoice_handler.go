package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// InvoiceHandler facturas registradas, facturas locales y PDF.
type InvoiceHandler struct {
	invoices *billing.InvoiceUseCase
	pdf      *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf}
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        page    query  int     false  "página (desde 1)"
// @Param        limit   query  int     false  "tamaño de página (máx. 100)"
// @Param        status  query  string  false  "Pending | Paid | Overdue"
// @Param        from    query  string  false  "fecha desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "fecha hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.InvoiceListResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	filter := repository.InvoiceFilter{UserID: GetUserID(c), Status: c.Query("status")}
	for _, q := range []struct {
		key string
		dst **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(q.key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(billing.DateLayout, raw)
		if err != nil {
			return respondError(c, &domain.ValidationError{Fields: []domain.FieldError{{Field: q.key, Message: "fecha inválida, use YYYY-MM-DD"}}})
		}
		*q.dst = &t
	}
	out, err := h.invoices.List(c.Context(), filter, c.QueryInt("page", repository.DefaultPage), c.QueryInt("limit", repository.DefaultLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateLocal godoc
// @Summary      Crear factura local (Pending, sin FBR)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InvoiceDraftRequest  true  "borrador"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) CreateLocal(c *fiber.Ctx) error {
	var in dto.InvoiceDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	draft, err := billing.DraftFromRequest(in)
	if err != nil {
		return respondError(c, err)
	}
	inv, err := h.invoices.CreateLocal(c.Context(), GetUserID(c), draft)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// GetByID godoc
// @Summary      Detalle de factura
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "id"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.invoices.Get(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                           true  "id"
// @Param        body  body  dto.UpdateInvoiceStatusRequest  true  "status"
// @Success      200   {object}  dto.InvoiceResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.invoices.UpdateStatus(c.Context(), GetUserID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Security     BearerAuth
// @Param        id   path  string  true  "id"
// @Success      204
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.Context(), GetUserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF godoc
// @Summary      Descargar PDF de factura
// @Tags         invoices
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "id"
// @Success      200  {file}  binary
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.DownloadInvoicePDF(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

// Dashboard godoc
// @Summary      Contadores y últimas facturas del usuario
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *InvoiceHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.invoices.Dashboard(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
