package handler

import (
	"log/slog"
	"net/http"

	"github.com/anbu-app/anbu/internal/metrics"
	"github.com/anbu-app/anbu/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Authenticator     middleware.Authenticator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// 監視
	HealthChecker   HealthChecker
	Metrics         middleware.HTTPRequestRecorder
	MetricsGatherer prometheus.Gatherer

	// サービス
	AuthService        AuthServiceInterface
	UserService        UserServiceInterface
	CategoryService    CategoryServiceInterface
	PersonaService     PersonaServiceInterface
	InteractionService InteractionServiceInterface
	NoteService        NoteServiceInterface
	RadarService       RadarServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	SecurityHeaders → Recovery → Logging → Metrics → CORS
//	  /api/auth/*: RateLimit(Auth)
//	  それ以外の/api/*: Auth → RateLimit(General)
//
// LoggerとMetricsがnilの場合、それぞれのミドルウェアは適用しない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	healthHandler := NewHealthHandler(deps.HealthChecker)
	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	categoryHandler := NewCategoryHandler(deps.CategoryService)
	personaHandler := NewPersonaHandler(deps.PersonaService)
	interactionHandler := NewInteractionHandler(deps.InteractionService)
	noteHandler := NewNoteHandler(deps.NoteService)
	radarHandler := NewRadarHandler(deps.RadarService)

	// --- 認証不要のルート ---

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// 登録・ログイン（クライアントIP別のレート制限）
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(deps.RateLimiter.AuthMiddleware())

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/social", authHandler.SocialLogin)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.Authenticator))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateMe)
			r.Delete("/me", userHandler.Withdraw)
			r.Get("/{id}", userHandler.GetUser)
		})

		// カテゴリ管理
		r.Route("/api/categories", func(r chi.Router) {
			r.Post("/", categoryHandler.Create)
			r.Get("/", categoryHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", categoryHandler.Get)
				r.Put("/", categoryHandler.Update)
				r.Delete("/", categoryHandler.Delete)
			})
		})

		// ペルソナ管理
		r.Route("/api/personas", func(r chi.Router) {
			r.Post("/", personaHandler.Create)
			r.Get("/", personaHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", personaHandler.Get)
				r.Put("/", personaHandler.Update)
				r.Delete("/", personaHandler.Delete)
				r.Get("/detail", personaHandler.Detail)
				r.Get("/profile", personaHandler.GetProfile)
				r.Put("/profile", personaHandler.UpdateProfile)
			})
		})

		// やり取り記録
		r.Route("/api/interaction-logs", func(r chi.Router) {
			r.Post("/", interactionHandler.Create)
			r.Get("/", interactionHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", interactionHandler.Get)
				r.Put("/", interactionHandler.Update)
				r.Delete("/", interactionHandler.Delete)
			})
		})

		// ペルソナメモ
		r.Route("/api/persona-notes", func(r chi.Router) {
			r.Post("/", noteHandler.Create)
			r.Get("/", noteHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", noteHandler.Get)
				r.Put("/", noteHandler.Update)
				r.Delete("/", noteHandler.Delete)
			})
		})

		// 関係温度レーダー
		r.Get("/api/radar", radarHandler.Get)
	})

	return r
}
