package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/sgcalidad/plan-mejora/internal/auth"
	"github.com/sgcalidad/plan-mejora/internal/plan"
	"github.com/sgcalidad/plan-mejora/internal/reporte"
	"github.com/sgcalidad/plan-mejora/internal/seguimiento"
	"github.com/sgcalidad/plan-mejora/internal/transport/middleware"
	"github.com/sgcalidad/plan-mejora/internal/transport/swagger"
	"github.com/sgcalidad/plan-mejora/internal/user"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	planHandler *plan.Handler,
	seguimientoHandler *seguimiento.Handler,
	userHandler *user.Handler,
	reporteHandler *reporte.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Token issuance is the only unauthenticated operation.
		r.Post("/auth/token", authHandler.Token)

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/auth/me", authHandler.Me)

			pr.Route("/planes", func(plr chi.Router) {
				plr.Get("/", planHandler.List)
				plr.Post("/", planHandler.Create)

				plr.Route("/{planID}", func(ir chi.Router) {
					ir.Get("/", planHandler.Get)
					ir.Put("/", planHandler.Update)
					ir.Delete("/", planHandler.Delete)

					ir.Post("/enviar-revision", planHandler.EnviarRevision)
					ir.Post("/observacion", planHandler.AgregarObservacion)
					ir.Post("/estado", planHandler.CambiarEstado)

					ir.Get("/seguimientos", seguimientoHandler.ListByPlan)
					ir.Post("/seguimientos", seguimientoHandler.Create)
					ir.Put("/seguimientos/{seguimientoID}", seguimientoHandler.Update)
					ir.Delete("/seguimientos/{seguimientoID}", seguimientoHandler.Delete)
				})
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", userHandler.List)
				ur.Post("/", userHandler.Create)
				ur.Patch("/{userID}/role", userHandler.UpdateRole)
				ur.Patch("/{userID}/password", userHandler.ResetPassword)
				ur.Patch("/{userID}/perm", userHandler.UpdatePerm)
				ur.Delete("/{userID}", userHandler.Delete)
			})

			pr.Route("/reportes", func(rr chi.Router) {
				rr.Get("/", reporteHandler.List)
				rr.Get("/latest", reporteHandler.Latest)
				rr.Post("/", reporteHandler.Create)
			})
		})
	})
}
