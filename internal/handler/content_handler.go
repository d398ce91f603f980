package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/contentgrid/internal/model"
)

// FacetCollector はフィルタ選択肢を収集するサービスのインターフェース。
type FacetCollector interface {
	Collect(ctx context.Context) (*model.Facets, error)
}

// GridQuerier はグリッドを1ページ取得するサービスのインターフェース。
type GridQuerier interface {
	Query(ctx context.Context, req model.GridRequest) (*model.GridPage, error)
}

// ContentHandler はフィルタとグリッドのHTTPハンドラー。
type ContentHandler struct {
	facets FacetCollector
	grid   GridQuerier
}

// NewContentHandler はContentHandlerを生成する。
func NewContentHandler(facets FacetCollector, grid GridQuerier) *ContentHandler {
	return &ContentHandler{facets: facets, grid: grid}
}

// filtersResponse は /filters のレスポンス。
type filtersResponse struct {
	OK        bool                 `json:"ok"`
	Platforms []string             `json:"platforms"`
	Statuses  []string             `json:"statuses"`
	Owners    []model.Person       `json:"owners"`
	Clients   []model.LookupEntity `json:"clients"`
	Projects  []model.Project      `json:"projects"`
}

// gridResponse は /grid のレスポンス。
type gridResponse struct {
	OK         bool                  `json:"ok"`
	NextCursor *string               `json:"next_cursor"`
	Posts      []model.ContentRecord `json:"posts"`
}

// Filters はフィルタUIの選択肢を返す。
// GET /filters
func (h *ContentHandler) Filters(w http.ResponseWriter, r *http.Request) {
	facets, err := h.facets.Collect(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, filtersResponse{
		OK:        true,
		Platforms: nonNil(facets.Platforms),
		Statuses:  nonNil(facets.Statuses),
		Owners:    nonNil(facets.Owners),
		Clients:   nonNil(facets.Clients),
		Projects:  nonNil(facets.Projects),
	})
}

// Grid はフィルタ済みのコンテンツを1ページ返す。
// GET /grid?pageSize&cursor&client&project&platform&owner&status
func (h *ContentHandler) Grid(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.grid.Query(r.Context(), model.GridRequest{
		PageSize:  parsePageSize(q),
		Cursor:    q.Get("cursor"),
		Selection: parseSelection(q),
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gridResponse{
		OK:         true,
		NextCursor: page.NextCursor,
		Posts:      nonNil(page.Posts),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
