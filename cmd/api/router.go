package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/ems-inventory/internal/authz"
	"github.com/crucial707/ems-inventory/internal/config"
	"github.com/crucial707/ems-inventory/internal/crypto"
	"github.com/crucial707/ems-inventory/internal/handlers"
	"github.com/crucial707/ems-inventory/internal/middleware"
	"github.com/crucial707/ems-inventory/internal/repo"
	"github.com/crucial707/ems-inventory/internal/service"
	"github.com/crucial707/ems-inventory/internal/validate"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, services, and handlers onto a chi router with
// the full middleware chain. Kept separate from main so integration tests can
// build the whole API against a sqlmock-backed DB.
func newRouter(database *sql.DB, cfg config.Config) (http.Handler, error) {
	cipher, err := crypto.New(cfg.EncryptionKey)
	if err != nil {
		return nil, err
	}

	userRepo := repo.NewUserRepo(database)
	itemRepo := repo.NewInventoryRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	gate := authz.New(auditRepo)
	roles := validate.NewRoles(cfg.ValidRoles)

	userSvc := service.NewUserService(userRepo, auditRepo, gate, cipher, roles)
	itemSvc := service.NewInventoryService(itemRepo, auditRepo, gate)
	auditSvc := service.NewAuditService(auditRepo, gate)
	alertSvc := service.NewAlertService(itemRepo, gate)

	authH := &handlers.AuthHandler{Users: userSvc, Secret: []byte(cfg.JWTSecret), ExpireHours: cfg.JWTExpireHours}
	userH := &handlers.UserHandler{Svc: userSvc}
	itemH := &handlers.InventoryHandler{Svc: itemSvc}
	auditH := &handlers.AuditHandler{Svc: auditSvc}
	alertsH := &handlers.AlertsHandler{Svc: alertSvc}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	loginLimiter := middleware.LoginRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(loginLimiter.Middleware)
		r.Post("/auth/login", authH.Login)
	})

	// Everything below requires a valid token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.JWT([]byte(cfg.JWTSecret)))

		r.Post("/auth/logout", authH.Logout)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", itemH.CreateItem)
			r.Get("/", itemH.ListItems)
			r.Get("/{name}", itemH.GetItem)
			r.Delete("/{name}", itemH.DeleteItem)
			r.Post("/{name}/increase", itemH.IncreaseItem)
			r.Post("/{name}/decrease", itemH.DecreaseItem)
			r.Put("/{name}/quantity", itemH.SetQuantity)
			r.Put("/{name}/expiration", itemH.SetExpiration)
			r.Put("/{name}/description", itemH.SetDescription)
			r.Put("/{name}/threshold", itemH.SetThreshold)
			r.Put("/{name}/category", itemH.SetCategory)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userH.CreateUser)
			r.Get("/", userH.ListUsers)
			r.Get("/{username}", userH.GetUser)
			r.Put("/{username}/role", userH.ChangeRole)
			r.Delete("/{username}", userH.DeleteUser)
		})

		r.Route("/me", func(r chi.Router) {
			r.Put("/password", userH.ChangeOwnPassword)
			r.Put("/username", userH.ChangeOwnUsername)
			r.Put("/email", userH.ChangeOwnEmail)
		})

		r.Route("/audit", func(r chi.Router) {
			r.Get("/", auditH.ListAudit)
			r.Get("/export", auditH.ExportAudit)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/expired", alertsH.Expired)
			r.Get("/low-stock", alertsH.LowStock)
		})
	})

	return r, nil
}
