// Package app はcontentgridの依存関係の組み立てと起動モードを提供する。
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/contentgrid/internal/config"
	"github.com/hitoshi/contentgrid/internal/facet"
	"github.com/hitoshi/contentgrid/internal/grid"
	"github.com/hitoshi/contentgrid/internal/handler"
	"github.com/hitoshi/contentgrid/internal/logger"
	"github.com/hitoshi/contentgrid/internal/metrics"
	"github.com/hitoshi/contentgrid/internal/middleware"
	"github.com/hitoshi/contentgrid/internal/normalize"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/security"
	"github.com/hitoshi/contentgrid/internal/status"
	"github.com/hitoshi/contentgrid/web"
)

// Init はアプリケーションの初期化を行う。
// 設定を読み込み、設定されたレベルでJSON構造化ログをセットアップする。
// トークンやDB IDが未設定でもエラーにはしない。
func Init(w io.Writer, configFile string) (*config.Config, error) {
	// 設定読み込み前にログを使えるようにする
	logger.SetupDefault(w, slog.LevelInfo)

	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// Services はリクエスト処理に使うドメインサービス一式。
type Services struct {
	Facets  *facet.Collector
	Grid    *grid.Service
	Status  *status.Service
	Metrics *metrics.Collector
}

// NewServices はNotionクライアントと各サービスを組み立てる。
// httpClientがnilの場合はSSRF対策済みのクライアントを使う。
func NewServices(cfg *config.Config, httpClient *http.Client, log *slog.Logger, reg prometheus.Registerer) *Services {
	guard := security.NewURLGuard()
	if httpClient == nil {
		httpClient = guard.NewSafeClient(cfg.UpstreamTimeout)
	}

	collector := metrics.NewCollector(reg)
	client := notion.NewClient(httpClient, log, notion.Options{
		BaseURL:  cfg.APIBaseURL,
		Token:    cfg.Token,
		Version:  cfg.APIVersion,
		Observer: collector,
	})
	normalizer := normalize.NewNormalizer(security.NewTextSanitizer(), guard)

	return &Services{
		Facets:  facet.NewCollector(client, cfg, log, collector),
		Grid:    grid.NewService(client, cfg, normalizer, log),
		Status:  status.NewService(client, cfg, log),
		Metrics: collector,
	}
}

// NewHandler は全エンドポイントを持つHTTPハンドラーを組み立てる。
// 返されるstopはレートリミッターのバックグラウンド処理を停止する。
func NewHandler(cfg *config.Config, httpClient *http.Client, log *slog.Logger) (http.Handler, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := NewServices(cfg, httpClient, log, reg)
	rlConfig := middleware.DefaultRateLimiterConfig(cfg.RateLimitPerMinute)
	rlConfig.TrustedProxies = cfg.TrustedProxies
	rl := middleware.NewRateLimiter(rlConfig)

	router := handler.NewRouter(&handler.RouterDeps{
		Facets:             svc.Facets,
		Grid:               svc.Grid,
		Status:             svc.Status,
		Logger:             log,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rl,
		Metrics:            svc.Metrics,
		MetricsHandler:     metrics.Handler(reg),
		Static:             web.Static(),
	})
	return router, rl.Stop
}

// runServe はAPIサーバーモードで起動する。
// ctxがキャンセルされる（SIGINT/SIGTERM）とグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	slog.Info("starting application",
		slog.String("port", cfg.ServerPort),
		slog.Bool("has_token", cfg.HasToken()),
		slog.Bool("has_content_db", cfg.HasContentDB()),
		slog.Bool("has_clients_db", cfg.Databases.Clients != ""),
		slog.Bool("has_projects_db", cfg.Databases.Projects != ""),
	)
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		slog.Warn("required configuration is missing; data endpoints will return 400",
			slog.Any("missing", missing),
		)
	}

	router, stopLimiter := NewHandler(cfg, nil, slog.Default())
	defer stopLimiter()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runDiag はスキーマ検出の診断結果をJSONでoutに書き出す。
func runDiag(ctx context.Context, cfg *config.Config, out io.Writer) error {
	svc := NewServices(cfg, nil, slog.Default(), prometheus.NewRegistry())
	report := svc.Status.Diag(ctx)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write diag report: %w", err)
	}
	if !report.OK {
		return fmt.Errorf("diag failed: %s", report.Error)
	}
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// プロセスの生存確認のため、/health のokフィールドではなくHTTPステータスのみを見る。
func runHealthcheck(ctx context.Context, port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
