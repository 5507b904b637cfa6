package http

import (
	"net/http"

	"github.com/funfans/funfans-api/internal/application/identity"
	"github.com/funfans/funfans-api/internal/application/notification"
	"github.com/funfans/funfans-api/internal/application/profile"
	"github.com/funfans/funfans-api/internal/application/session"
	"github.com/funfans/funfans-api/internal/application/support"
	"github.com/funfans/funfans-api/internal/config"
	"github.com/funfans/funfans-api/internal/domain"
	"github.com/funfans/funfans-api/internal/transport/http/handler"
	appmiddleware "github.com/funfans/funfans-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	notifSvc := notification.NewService(deps.Mailer)
	identitySvc := identity.NewService(identity.ServiceDeps{
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		CodeRepo:        deps.VerificationRepo,
		Dispatcher:      notifSvc,
		Signer:          deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenDur,
	})
	sessionSvc := session.NewService(deps.SessionRepo, deps.UserRepo, deps.JWTProvider, cfg.RefreshTokenDur)
	supportSvc := support.NewService(deps.SupportRepo)
	profileSvc := profile.NewService(deps.ProfileRepo)

	healthH := handler.NewHealthHandler()
	sendEmailH := handler.NewSendEmailHandler(notifSvc)
	authH := handler.NewAuthHandler(identitySvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	supportH := handler.NewSupportHandler(supportSvc)
	profileH := handler.NewProfileHandler(profileSvc)

	// The dispatch endpoint manages its own CORS: the preflight must return
	// 204 with a fixed header set before any body parsing, so it sits outside
	// the cors middleware that guards /v1.
	r.Options("/send-email", sendEmailH.Preflight)
	r.Post("/send-email", sendEmailH.Dispatch)

	r.Route("/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)
		r.Post("/auth/signup", authH.SignUp)
		r.Post("/auth/signup/confirm", authH.ConfirmSignUp)
		r.Post("/auth/signin", authH.SignIn)
		r.Post("/auth/reset-password", authH.ResetPassword)
		r.Post("/auth/reset-password/confirm", authH.ConfirmResetPassword)
		r.Post("/sessions/refresh", sessionH.Refresh)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Get("/profile", profileH.Get)
			r.Post("/email-change/request", authH.RequestEmailChange)
			r.Post("/email-change/confirm", authH.ConfirmEmailChange)
			r.Post("/support-messages", supportH.Create)
			r.Get("/support-messages/mine", supportH.ListMine)

			// Staff-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Get("/support-messages", supportH.ListAll)
			})
		})
	})

	return r
}
