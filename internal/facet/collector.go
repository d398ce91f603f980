// Package facet はフィルタUIに表示する選択肢（ファセット）を収集する。
package facet

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/hitoshi/contentgrid/internal/config"
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/normalize"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/schema"
)

// defaultMaxPages はコンテンツDBをスキャンするページ数の上限。
const defaultMaxPages = 10

// UntitledName はタイトルが空のルックアップレコードの表示名。
const UntitledName = "Untitled"

// プロジェクトDBでクライアントへのリレーションを探すプロパティ名。
// スキーマ解決は行わず、この順で最初に値のあるものを使う。
var projectClientRelations = []string{"Client", "Main"}

// Source はファセット収集が利用するNotion APIの操作。
type Source interface {
	RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error)
	QueryDatabase(ctx context.Context, databaseID string, req notion.QueryRequest) (*notion.QueryResponse, error)
}

// PagesRecorder はスキャンしたページ数を記録する。
type PagesRecorder interface {
	RecordFacetPagesScanned(pages int)
}

// Collector はコンテンツDBをスキャンしてファセットを組み立てる。
// リクエスト間で状態を共有しない。
type Collector struct {
	source   Source
	cfg      *config.Config
	logger   *slog.Logger
	recorder PagesRecorder
	locale   language.Tag
}

// NewCollector はCollectorの新しいインスタンスを生成する。
// recorderはnilでもよい。
func NewCollector(source Source, cfg *config.Config, logger *slog.Logger, recorder PagesRecorder) *Collector {
	tag, err := language.Parse(cfg.FacetSortLocale)
	if err != nil {
		tag = language.Und
	}
	return &Collector{
		source:   source,
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		locale:   tag,
	}
}

// scanResult はコンテンツDBのスキャンで見つかった値の集合。
type scanResult struct {
	owners    map[string]string
	clientIDs map[string]struct{}
	projIDs   map[string]struct{}
	statuses  map[string]struct{}
	platforms map[string]struct{}
}

func newScanResult() *scanResult {
	return &scanResult{
		owners:    make(map[string]string),
		clientIDs: make(map[string]struct{}),
		projIDs:   make(map[string]struct{}),
		statuses:  make(map[string]struct{}),
		platforms: make(map[string]struct{}),
	}
}

// Collect はファセットを収集する。
// 必須設定が未設定の場合のみエラーを返し、上流の個別の失敗は該当ファセットを空にして続行する。
func (c *Collector) Collect(ctx context.Context) (*model.Facets, error) {
	if missing := c.cfg.MissingRequired(); len(missing) > 0 {
		return nil, model.NewConfigMissingError(missing...)
	}
	contentDB := c.cfg.Databases.Content

	var props notion.Schema
	db, err := c.source.RetrieveDatabase(ctx, contentDB)
	if err != nil {
		c.logger.Warn("スキーマの取得に失敗しました",
			slog.String("database_id", contentDB),
			slog.String("error", err.Error()),
		)
	} else {
		props = db.Schema()
	}
	fields := schema.Detect(props)

	scanned := c.scan(ctx, contentDB, fields)

	// ステータスとプラットフォームはスキーマの選択肢とスキャン結果の和集合
	if fields.Status != "" {
		for _, name := range props[fields.Status].OptionNames() {
			scanned.statuses[name] = struct{}{}
		}
	}
	if fields.Platform != "" {
		for _, name := range props[fields.Platform].OptionNames() {
			scanned.platforms[name] = struct{}{}
		}
	}

	facets := &model.Facets{
		Platforms: keys(scanned.platforms),
		Statuses:  keys(scanned.statuses),
		Owners:    make([]model.Person, 0, len(scanned.owners)),
		Clients:   c.resolveClients(ctx, scanned.clientIDs),
		Projects:  c.resolveProjects(ctx, scanned.projIDs),
	}
	for id, name := range scanned.owners {
		facets.Owners = append(facets.Owners, model.Person{ID: id, Name: name})
	}

	c.sort(facets)
	return facets, nil
}

// scan はコンテンツDBを上限ページ数までスキャンし、使用中の値を集める。
// 途中で失敗した場合は空の結果を返す。
func (c *Collector) scan(ctx context.Context, databaseID string, f schema.Fields) *scanResult {
	result := newScanResult()
	if f.Owners == "" && f.Client == "" && f.Project == "" && f.Status == "" && f.Platform == "" {
		return result
	}

	maxPages := c.cfg.FacetMaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	cursor := ""
	pages := 0
	defer func() {
		if c.recorder != nil {
			c.recorder.RecordFacetPagesScanned(pages)
		}
	}()

	for pages < maxPages {
		resp, err := c.source.QueryDatabase(ctx, databaseID, notion.QueryRequest{
			StartCursor: cursor,
			PageSize:    notion.MaxPageSize,
		})
		if err != nil {
			c.logger.Warn("ファセット用のスキャンに失敗しました",
				slog.String("database_id", databaseID),
				slog.Int("page", pages),
				slog.String("error", err.Error()),
			)
			return newScanResult()
		}
		pages++

		for _, p := range resp.Results {
			for _, owner := range normalize.Owners(p, f.Owners) {
				result.owners[owner.ID] = owner.Name
			}
			for _, id := range normalize.RelationIDs(p, f.Client) {
				result.clientIDs[id] = struct{}{}
			}
			for _, id := range normalize.RelationIDs(p, f.Project) {
				result.projIDs[id] = struct{}{}
			}
			if s := normalize.Status(p, f.Status); s != nil {
				result.statuses[*s] = struct{}{}
			}
			for _, name := range normalize.Platforms(p, f.Platform) {
				result.platforms[name] = struct{}{}
			}
		}

		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	c.logger.Debug("ファセット用のスキャンが完了しました",
		slog.String("database_id", databaseID),
		slog.Int("pages", pages),
		slog.Int("owners", len(result.owners)),
	)
	return result
}

// resolveClients はクライアントIDを表示名に解決する。
// クライアントDBが未設定の場合はIDをそのまま名前として使う。
func (c *Collector) resolveClients(ctx context.Context, wanted map[string]struct{}) []model.LookupEntity {
	clients := make([]model.LookupEntity, 0, len(wanted))
	if len(wanted) == 0 {
		return clients
	}

	if c.cfg.Databases.Clients == "" {
		for id := range wanted {
			clients = append(clients, model.LookupEntity{ID: id, Name: id})
		}
		return clients
	}

	pages, err := c.lookup(ctx, c.cfg.Databases.Clients, wanted)
	if err != nil {
		return clients
	}
	for _, p := range pages {
		clients = append(clients, model.LookupEntity{ID: p.ID, Name: displayName(p)})
	}
	return clients
}

// resolveProjects はプロジェクトIDを表示名と関連クライアントに解決する。
func (c *Collector) resolveProjects(ctx context.Context, wanted map[string]struct{}) []model.Project {
	projects := make([]model.Project, 0, len(wanted))
	if len(wanted) == 0 {
		return projects
	}

	if c.cfg.Databases.Projects == "" {
		for id := range wanted {
			projects = append(projects, model.Project{ID: id, Name: id, ClientIDs: []string{}})
		}
		return projects
	}

	pages, err := c.lookup(ctx, c.cfg.Databases.Projects, wanted)
	if err != nil {
		return projects
	}
	for _, p := range pages {
		projects = append(projects, model.Project{
			ID:        p.ID,
			Name:      displayName(p),
			ClientIDs: projectClientIDs(p),
		})
	}
	return projects
}

// lookup はルックアップDBを最後までページングし、wantedに含まれるページのみを返す。
// 同じIDのページは1回だけ返す。同じカーソルが繰り返された場合はそこで打ち切る。
func (c *Collector) lookup(ctx context.Context, databaseID string, wanted map[string]struct{}) ([]notion.Page, error) {
	var found []notion.Page
	seen := make(map[string]struct{}, len(wanted))
	visited := make(map[string]struct{})
	cursor := ""
	for {
		resp, err := c.source.QueryDatabase(ctx, databaseID, notion.QueryRequest{
			StartCursor: cursor,
			PageSize:    notion.MaxPageSize,
		})
		if err != nil {
			c.logger.Warn("ルックアップDBのクエリに失敗しました",
				slog.String("database_id", databaseID),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		for _, p := range resp.Results {
			if _, ok := wanted[p.ID]; !ok {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			found = append(found, p)
		}
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			return found, nil
		}
		next := *resp.NextCursor
		if _, loop := visited[next]; loop || next == cursor {
			c.logger.Warn("ルックアップDBのカーソルが繰り返されたため打ち切ります",
				slog.String("database_id", databaseID),
				slog.String("cursor", next),
			)
			return found, nil
		}
		visited[next] = struct{}{}
		cursor = next
	}
}

func displayName(p notion.Page) string {
	if name := normalize.Title(p, ""); name != "" {
		return name
	}
	return UntitledName
}

func projectClientIDs(p notion.Page) []string {
	for _, name := range projectClientRelations {
		if ids := normalize.RelationIDs(p, name); len(ids) > 0 {
			return ids
		}
	}
	return []string{}
}

// sort はすべてのファセットをロケールに従って並べ替える。
// 表示名が同じ場合はIDで順序を決める。
func (c *Collector) sort(f *model.Facets) {
	col := collate.New(c.locale, collate.IgnoreCase)

	slices.SortFunc(f.Platforms, col.CompareString)
	slices.SortFunc(f.Statuses, col.CompareString)
	slices.SortFunc(f.Owners, func(a, b model.Person) int {
		if r := col.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(f.Clients, func(a, b model.LookupEntity) int {
		if r := col.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(f.Projects, func(a, b model.Project) int {
		if r := col.CompareString(a.Name, b.Name); r != 0 {
			return r
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
