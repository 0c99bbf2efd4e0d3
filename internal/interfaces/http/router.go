package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fbr-invoicing/internal/application/admin"
	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	InvoiceUC    *billing.InvoiceUseCase
	SubmissionUC *billing.SubmissionUseCase
	PDFUC        *billing.PDFUseCase
	CustomerUC   *billing.CustomerUseCase
	ProductUC    *billing.ProductUseCase
	AdminUC      *admin.UseCase
	SecureCookie bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.AuthUC)

	// Auth: register y login son públicos
	authHandler := NewAuthHandler(deps.AuthUC, deps.SecureCookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Put("/me", requireAuth, authHandler.UpdateProfile)

	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	api.Get("/dashboard", requireAuth, invoiceHandler.Dashboard)

	customers := api.Group("/customers", requireAuth)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	invoices := api.Group("/invoices", requireAuth)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.CreateLocal)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// FBR Digital Invoicing
	fbrGroup := api.Group("/fbr", requireAuth)
	fbrHandler := NewFBRHandler(deps.SubmissionUC)
	fbrGroup.Post("/validate", fbrHandler.Validate)
	fbrGroup.Post("/validate-invoice", fbrHandler.DryRun)
	fbrGroup.Post("/post-invoice", fbrHandler.Submit)

	adminGroup := api.Group("/admin", requireAuth, RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Delete("/users/:id", adminHandler.DeleteUser)
	adminGroup.Post("/users/:id/recompute-stats", adminHandler.RecomputeStats)
	adminGroup.Post("/reconcile", adminHandler.Reconcile)
}
