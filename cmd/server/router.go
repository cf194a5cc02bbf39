package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marchukov/upkeep-api/internal/api"
	apiMiddleware "github.com/marchukov/upkeep-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	machineHandler := api.NewMachineHandler(app.machineService)
	planHandler := api.NewPlanHandler(app.planService)
	checklistHandler := api.NewChecklistHandler(app.checklistService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Machine registry
		r.Post("/machines", machineHandler.CreateMachine)
		r.Get("/machines", machineHandler.ListMachines)
		r.Get("/machines/{id}", machineHandler.GetMachine)
		r.Delete("/machines/{id}", machineHandler.DeleteMachine)

		// Maintenance plans
		r.Post("/plans", planHandler.AssignPlan)
		r.Post("/plans/preview", planHandler.PreviewPlan)
		r.Get("/plans", planHandler.ListPlans)
		r.Get("/plans/{id}", planHandler.GetPlan)
		r.Patch("/plans/{id}/status", planHandler.UpdatePlanStatus)
		r.Delete("/plans/{id}", planHandler.DeletePlan)
		r.Get("/plans/{id}/items", checklistHandler.ListPlanItems)

		// Checklist items
		r.Get("/items/{id}", checklistHandler.GetItem)
		r.Patch("/items/{id}", checklistHandler.UpdateItem)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
