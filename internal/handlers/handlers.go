package handlers

import (
	"net/http"

	_ "github.com/GlebRadaev/fedha/docs"
	authhandlers "github.com/GlebRadaev/fedha/internal/handlers/auth"
	depositshandlers "github.com/GlebRadaev/fedha/internal/handlers/deposits"
	loanshandlers "github.com/GlebRadaev/fedha/internal/handlers/loans"
	membershandlers "github.com/GlebRadaev/fedha/internal/handlers/members"
	reportshandlers "github.com/GlebRadaev/fedha/internal/handlers/reports"
	"github.com/GlebRadaev/fedha/internal/service"
	"github.com/GlebRadaev/fedha/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type MemberHandler interface {
	AddMember(w http.ResponseWriter, r *http.Request)
	ListMembers(w http.ResponseWriter, r *http.Request)
	GetMember(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	AddContribution(w http.ResponseWriter, r *http.Request)
	SetExitNotice(w http.ResponseWriter, r *http.Request)
	Eligibility(w http.ResponseWriter, r *http.Request)
}

type LoanHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Repay(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type DepositHandler interface {
	Accrue(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type ReportHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	CSV(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler    AuthHandler
	MemberHandler  MemberHandler
	LoanHandler    LoanHandler
	DepositHandler DepositHandler
	ReportHandler  ReportHandler
	TokenValidator auth.TokenValidator
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		MemberHandler:  membershandlers.New(s.MemberService),
		LoanHandler:    loanshandlers.New(s.LoanService),
		DepositHandler: depositshandlers.New(s.AccrualService),
		ReportHandler:  reportshandlers.New(s.ReportService),
		TokenValidator: s.TokenValidator,
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

	r.Route("/api", func(r chi.Router) {
		r.Route("/operators", func(r chi.Router) {
			r.Post("/register", h.AuthHandler.Register)
			r.Post("/login", h.AuthHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.TokenValidator))
			r.Route("/members", func(r chi.Router) {
				r.Post("/", h.MemberHandler.AddMember)
				r.Get("/", h.MemberHandler.ListMembers)
				r.Get("/summary", h.MemberHandler.Summary)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.MemberHandler.GetMember)
					r.Post("/contributions", h.MemberHandler.AddContribution)
					r.Put("/exit-notice", h.MemberHandler.SetExitNotice)
					r.Get("/eligibility", h.MemberHandler.Eligibility)
				})
			})
			r.Route("/loans", func(r chi.Router) {
				r.Post("/", h.LoanHandler.Apply)
				r.Get("/", h.LoanHandler.List)
				r.Get("/{id}", h.LoanHandler.Get)
				r.Post("/{id}/repayments", h.LoanHandler.Repay)
			})
			r.Route("/deposits", func(r chi.Router) {
				r.Post("/accrue", h.DepositHandler.Accrue)
				r.Get("/current", h.DepositHandler.Current)
				r.Get("/", h.DepositHandler.History)
			})
			r.Route("/reports/{kind}", func(r chi.Router) {
				r.Get("/", h.ReportHandler.Generate)
				r.Get("/csv", h.ReportHandler.CSV)
				r.Post("/export", h.ReportHandler.Export)
			})
		})
	})

	return r
}
