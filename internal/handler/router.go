package handler

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/contentgrid/internal/middleware"
	"github.com/hitoshi/contentgrid/internal/model"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
// RateLimiter、Metrics、MetricsHandler、Staticはnilの場合そのルートや機能を無効にする。
type RouterDeps struct {
	Facets FacetCollector
	Grid   GridQuerier
	Status StatusReporter

	Logger             *slog.Logger
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	Metrics            middleware.HTTPStatusRecorder
	MetricsHandler     http.Handler
	Static             fs.FS
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Recovery → Logging → Metrics → SecurityHeaders → CORS → RateLimit
//
// /health と /metrics はレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", http.MethodGet)
		middleware.WriteErrorResponse(w, model.NewMethodNotAllowedError(r.Method))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteErrorResponse(w, model.NewNotFoundError(r.URL.Path))
	})

	contentHandler := NewContentHandler(deps.Facets, deps.Grid)
	statusHandler := NewStatusHandler(deps.Status)

	r.Get("/health", statusHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	if deps.Static != nil {
		r.Method(http.MethodGet, "/static/*", http.StripPrefix("/static/", http.FileServerFS(deps.Static)))
	}

	// 上流APIを呼び出すルート
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware())
		}
		r.Get("/filters", contentHandler.Filters)
		r.Get("/grid", contentHandler.Grid)
		r.Get("/diag", statusHandler.Diag)
	})

	return r
}
