// Package status は接続確認（/health）とスキーマ検出の診断（/diag）を提供する。
package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/contentgrid/internal/config"
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/schema"
)

// SchemaSource はスキーマ取得のみを行うNotion APIの操作。
type SchemaSource interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
}

// envKeys は/healthのenvに出力する論理名と設定キーの対応。
var envKeys = map[string]string{
	"token":      config.KeyToken,
	"contentDb":  config.KeyContentDB,
	"clientsDb":  config.KeyClientsDB,
	"projectsDb": config.KeyProjectsDB,
}

// Service は設定と上流への疎通を報告する。
type Service struct {
	source SchemaSource
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(source SchemaSource, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		source: source,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Health は設定の有無を報告し、トークンとDB IDが揃っていればスキーマ取得を1回試みる。
// 上流の失敗はエラーとして返さず、Errorsに積む。
func (s *Service) Health(ctx context.Context) *model.HealthReport {
	report := &model.HealthReport{
		HasToken: s.cfg.HasToken(),
		HasDB:    s.cfg.HasContentDB(),
		Env:      make(map[string]string, len(envKeys)),
		Now:      s.now().UTC(),
		Errors:   []string{},
	}
	for name, key := range envKeys {
		report.Env[name] = s.cfg.Sources[key]
	}

	if !report.HasToken || !report.HasDB {
		return report
	}

	if _, err := s.source.RetrieveDatabase(ctx, s.cfg.Databases.Content); err != nil {
		s.logger.Warn("ヘルスチェックでスキーマの取得に失敗しました",
			slog.String("database_id", s.cfg.Databases.Content),
			slog.String("error", err.Error()),
		)
		report.Errors = append(report.Errors, err.Error())
		return report
	}

	report.OK = true
	return report
}

// Diag はコンテンツDBのスキーマと論理フィールドの解決結果を報告する。
func (s *Service) Diag(ctx context.Context) *model.DiagReport {
	report := &model.DiagReport{
		HaveEnv:     s.cfg.HasToken() && s.cfg.HasContentDB(),
		ContentDBID: s.cfg.Databases.Content,
		Schema:      map[string]string{},
		Resolved:    schema.Detect(nil).Map(),
	}
	if !report.HaveEnv {
		report.Error = model.NewConfigMissingError(s.cfg.MissingRequired()...).Message
		return report
	}

	db, err := s.source.RetrieveDatabase(ctx, s.cfg.Databases.Content)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	props := db.Schema()
	for name, meta := range props {
		report.Schema[name] = string(meta.Type)
	}

	fields := schema.Detect(props)
	report.Resolved = fields.Map()
	report.PlatformType = typeName(fields.PlatformType)
	report.StatusType = typeName(fields.StatusType)
	report.OK = true
	return report
}

func typeName(t notion.PropertyType) *string {
	if t == "" {
		return nil
	}
	s := string(t)
	return &s
}
