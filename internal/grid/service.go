package grid

import (
	"context"
	"log/slog"

	"github.com/hitoshi/contentgrid/internal/config"
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/normalize"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/schema"
)

// Source はグリッド取得が利用するNotion APIの操作。
type Source interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) (*notion.QueryResponse, error)
}

// Service はコンテンツDBから1ページ分のグリッドを取得する。
type Service struct {
	source     Source
	cfg        *config.Config
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(source Source, cfg *config.Config, normalizer *normalize.Normalizer, logger *slog.Logger) *Service {
	return &Service{
		source:     source,
		cfg:        cfg,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Query はスキーマを検出してからフィルタ付きクエリを1回発行する。
// スキーマの取得に失敗した場合は任意プロパティなしとして続行する。
func (s *Service) Query(ctx context.Context, req model.GridRequest) (*model.GridPage, error) {
	if missing := s.cfg.MissingRequired(); len(missing) > 0 {
		return nil, model.NewConfigMissingError(missing...)
	}
	dbID := s.cfg.Databases.Content

	var props notion.Schema
	db, err := s.source.RetrieveDatabase(ctx, dbID)
	if err != nil {
		s.logger.Warn("スキーマの取得に失敗したため任意プロパティなしで続行します",
			slog.String("database_id", dbID),
			slog.String("error", err.Error()),
		)
	} else {
		props = db.Schema()
	}
	fields := schema.Detect(props)

	pageSize := ClampPageSize(req.PageSize, s.cfg.GridDefaultPageSize, s.cfg.GridMaxPageSize)
	query := BuildQuery(fields, req.Selection, pageSize, req.Cursor)

	resp, err := s.source.QueryDatabase(ctx, dbID, query)
	if err != nil {
		return nil, model.NewUpstreamError(err.Error())
	}

	page := &model.GridPage{
		Posts: s.normalizer.Records(resp.Results, fields),
	}
	if resp.HasMore && resp.NextCursor != nil && *resp.NextCursor != "" {
		page.NextCursor = resp.NextCursor
	}
	return page, nil
}
