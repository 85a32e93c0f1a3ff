package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/marketplace/docs"
	authhandlers "github.com/GlebRadaev/marketplace/internal/handlers/auth"
	balancehandlers "github.com/GlebRadaev/marketplace/internal/handlers/balance"
	itemshandlers "github.com/GlebRadaev/marketplace/internal/handlers/items"
	reportshandlers "github.com/GlebRadaev/marketplace/internal/handlers/reports"
	"github.com/GlebRadaev/marketplace/internal/service"
	"github.com/GlebRadaev/marketplace/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
}

type ItemsHandler interface {
	Browse(w http.ResponseWriter, r *http.Request)
	Categories(w http.ResponseWriter, r *http.Request)
	GetItem(w http.ResponseWriter, r *http.Request)
	CreateItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	DeleteItem(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
	MyItems(w http.ResponseWriter, r *http.Request)
	Purchases(w http.ResponseWriter, r *http.Request)
	Transactions(w http.ResponseWriter, r *http.Request)
}

type ReportsHandler interface {
	UserReport(w http.ResponseWriter, r *http.Request)
	MarketReport(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	BalanceHandler BalanceHandler
	ItemsHandler   ItemsHandler
	ReportsHandler ReportsHandler

	tokens   auth.TokenValidator
	sessions auth.SessionChecker
}

func New(s *service.Services, tokens auth.TokenValidator) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.IdentityService),
		BalanceHandler: balancehandlers.New(s.IdentityService),
		ItemsHandler:   itemshandlers.New(s.MarketService, s.IdentityService),
		ReportsHandler: reportshandlers.New(s.ReportService),
		tokens:         tokens,
		sessions:       s.IdentityService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	authenticated := func(r chi.Router) {
		r.Use(auth.AuthMiddleware(h.tokens), auth.SessionMiddleware(h.sessions))
	}

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			authenticated(r)
			r.Post("/logout", h.AuthHandler.Logout)
			r.Get("/me", h.AuthHandler.Me)
			r.Route("/balance", func(r chi.Router) {
				r.Get("/", h.BalanceHandler.GetBalance)
				r.Post("/deposit", h.BalanceHandler.Deposit)
			})
			r.Get("/items", h.ItemsHandler.MyItems)
			r.Get("/purchases", h.ItemsHandler.Purchases)
			r.Get("/transactions", h.ItemsHandler.Transactions)
			r.Get("/report", h.ReportsHandler.UserReport)
		})
	})

	r.Route("/api/items", func(r chi.Router) {
		r.With(auth.OptionalAuthMiddleware(h.tokens)).Get("/", h.ItemsHandler.Browse)
		r.Get("/categories", h.ItemsHandler.Categories)
		r.Get("/{id}", h.ItemsHandler.GetItem)

		r.Group(func(r chi.Router) {
			authenticated(r)
			r.Post("/", h.ItemsHandler.CreateItem)
			r.Patch("/{id}", h.ItemsHandler.UpdateItem)
			r.Delete("/{id}", h.ItemsHandler.DeleteItem)
			r.Post("/{id}/purchase", h.ItemsHandler.Purchase)
		})
	})

	r.Get("/api/reports/market", h.ReportsHandler.MarketReport)

	return r
}
