package handlers

import (
	"net/http"

	_ "github.com/avencore/investcore/docs"
	authhandlers "github.com/avencore/investcore/internal/handlers/auth"
	deposithandlers "github.com/avencore/investcore/internal/handlers/deposits"
	historyhandlers "github.com/avencore/investcore/internal/handlers/history"
	investmenthandlers "github.com/avencore/investcore/internal/handlers/investments"
	withdrawalhandlers "github.com/avencore/investcore/internal/handlers/withdrawals"
	"github.com/avencore/investcore/internal/service"
	"github.com/avencore/investcore/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type DepositHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ViewStatus(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
}

type InvestmentHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	SettleMaturity(w http.ResponseWriter, r *http.Request)
	TotalInvested(w http.ResponseWriter, r *http.Request)
	Details(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type HistoryHandler interface {
	Combined(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler       AuthHandler
	DepositHandler    DepositHandler
	InvestmentHandler InvestmentHandler
	WithdrawalHandler WithdrawalHandler
	HistoryHandler    HistoryHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:       authhandlers.New(s.AuthService),
		DepositHandler:    deposithandlers.New(s.DepositService),
		InvestmentHandler: investmenthandlers.New(s.InvestmentService),
		WithdrawalHandler: withdrawalhandlers.New(s.WithdrawalService),
		HistoryHandler:    historyhandlers.New(s.HistoryService),
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
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/deposits", func(r chi.Router) {
				r.Post("/", h.DepositHandler.Create)
				r.Get("/{transactionID}", h.DepositHandler.ViewStatus)
			})
			r.Route("/investments", func(r chi.Router) {
				r.Post("/", h.InvestmentHandler.Start)
				r.Get("/", h.InvestmentHandler.History)
				r.Post("/maturity", h.InvestmentHandler.SettleMaturity)
				r.Get("/total", h.InvestmentHandler.TotalInvested)
			})
			r.Route("/withdrawals", func(r chi.Router) {
				r.Post("/", h.WithdrawalHandler.Request)
				r.Get("/", h.WithdrawalHandler.History)
			})
			r.Get("/history", h.HistoryHandler.Combined)
		})
	})
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware, auth.AdminMiddleware)
		r.Route("/deposits", func(r chi.Router) {
			r.Get("/pending", h.DepositHandler.ListPending)
			r.Post("/decide", h.DepositHandler.Decide)
		})
		r.Route("/investments", func(r chi.Router) {
			r.Get("/pending", h.InvestmentHandler.ListPending)
			r.Get("/{investmentID}", h.InvestmentHandler.Details)
			r.Patch("/{investmentID}/approve", h.InvestmentHandler.Approve)
			r.Patch("/{investmentID}/reject", h.InvestmentHandler.Reject)
		})
		r.Route("/withdrawals", func(r chi.Router) {
			r.Get("/pending", h.WithdrawalHandler.ListPending)
			r.Get("/{withdrawalID}", h.WithdrawalHandler.Get)
			r.Patch("/{withdrawalID}/approve", h.WithdrawalHandler.Approve)
			r.Patch("/{withdrawalID}/reject", h.WithdrawalHandler.Reject)
		})
	})

	return r
}
