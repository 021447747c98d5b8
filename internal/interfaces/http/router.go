package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nagacare/health-admin-api/internal/application/auth"
	"github.com/nagacare/health-admin-api/internal/application/inventory"
	"github.com/nagacare/health-admin-api/internal/application/resident"
	"github.com/nagacare/health-admin-api/internal/domain/entity"
	"github.com/nagacare/health-admin-api/pkg/logger"
	"github.com/nagacare/health-admin-api/pkg/metrics"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Sessions     SessionResolver
	MedicationUC *inventory.MedicationUseCase
	DistributeUC *inventory.DistributeUseCase
	ScanUC       *resident.ScanUseCase
	Metrics      *metrics.Metrics
	Cookie       CookieConfig
	Log          *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")
	requireSession := AuthMiddleware(deps.Sessions, deps.Cookie.Name)
	workersOnly := RequireRole(entity.RoleWorkers)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Cookie, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", requireSession, authHandler.Logout)
	authGroup.Get("/me", requireSession, authHandler.Me)

	// Medications. Static paths are registered before /:id.
	medHandler := NewMedicationHandler(deps.MedicationUC, log)
	invHandler := NewInventoryHandler(deps.DistributeUC, deps.MedicationUC, deps.Metrics, log)
	meds := api.Group("/medications", requireSession)
	meds.Get("/", medHandler.List)
	meds.Get("/report", medHandler.Report)
	meds.Get("/history", invHandler.History)
	meds.Post("/distribution", workersOnly, invHandler.Distribute)
	meds.Get("/:id", medHandler.GetByID)
	meds.Post("/", workersOnly, medHandler.Create)
	meds.Put("/:id", workersOnly, medHandler.Update)

	// Scanner and residents
	scanHandler := NewScannerHandler(deps.ScanUC, deps.Metrics, log)
	api.Post("/scanner/scan", requireSession, scanHandler.Scan)
	api.Get("/residents/:id", requireSession, scanHandler.GetResident)
}
