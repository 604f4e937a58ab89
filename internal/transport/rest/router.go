package rest

import (
	"database/sql"
	"log/slog"

	"cashbook/internal/auth"
	"cashbook/internal/category"
	"cashbook/internal/recognition"
	"cashbook/internal/stats"
	"cashbook/internal/transaction"
	"cashbook/internal/transport/middleware"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes mounts the full API under /api. Everything past the
// auth endpoints runs behind the session middleware.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	allowedOrigins string,
	authHandler *auth.Handler,
	transactionHandler *transaction.Handler,
	categoryHandler *category.Handler,
	statsHandler *stats.Handler,
	recognitionHandler *recognition.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/logout", authHandler.Logout)

			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/me", authHandler.Me)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/transactions", func(tr chi.Router) {
				tr.Get("/", transactionHandler.ListTransactions)
				tr.Post("/", transactionHandler.CreateTransaction)
				tr.Post("/batch", transactionHandler.CreateBatch)
				tr.Patch("/{id}", transactionHandler.UpdateTransaction)
				tr.Delete("/{id}", transactionHandler.DeleteTransaction)
			})

			pr.Route("/categories", func(cr chi.Router) {
				cr.Get("/", categoryHandler.GetCategories)
				cr.Post("/", categoryHandler.CreateCategory)
				cr.Patch("/{id}", categoryHandler.UpdateCategory)
				cr.Delete("/{id}", categoryHandler.DeleteCategory)
			})

			pr.Get("/statistics", statsHandler.GetStatistics)
			pr.Post("/recognize", recognitionHandler.Recognize)
		})
	})
}
