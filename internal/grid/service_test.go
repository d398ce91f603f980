package grid

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitoshi/contentgrid/internal/config"
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/normalize"
	"github.com/hitoshi/contentgrid/internal/notion"
)

type fakeSource struct {
	schema     notion.Schema
	schemaErr  error
	resp       *notion.QueryResponse
	queryErr   error
	lastQuery  notion.QueryRequest
	queryCalls int
}

func (f *fakeSource) RetrieveDatabase(_ context.Context, id string) (*notion.Database, error) {
	if f.schemaErr != nil {
		return nil, f.schemaErr
	}
	return &notion.Database{ID: id, Properties: f.schema}, nil
}

func (f *fakeSource) QueryDatabase(_ context.Context, _ string, req notion.QueryRequest) (*notion.QueryResponse, error) {
	f.queryCalls++
	f.lastQuery = req
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.resp, nil
}

func newTestService(src Source, cfg *config.Config) *Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewService(src, cfg, normalize.NewNormalizer(nil, nil), logger)
}

func gridConfig() *config.Config {
	return &config.Config{
		Token:               "secret",
		Databases:           config.Databases{Content: "content"},
		GridDefaultPageSize: 12,
		GridMaxPageSize:     50,
	}
}

func TestService_Query_MissingConfig(t *testing.T) {
	cfg := gridConfig()
	cfg.Token = ""
	src := &fakeSource{}

	_, err := newTestService(src, cfg).Query(context.Background(), model.GridRequest{})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, 0, src.queryCalls)
}

func TestService_Query_ReturnsRecordsAndCursor(t *testing.T) {
	next := "cur-2"
	src := &fakeSource{
		schema: notion.Schema{
			"Name":   {Name: "Name", Type: notion.PropertyTypeTitle},
			"Status": {Name: "Status", Type: notion.PropertyTypeStatus},
		},
		resp: &notion.QueryResponse{
			Results: []notion.Page{{ID: "p1", Properties: map[string]notion.PropertyValue{
				"Name":   {Type: notion.PropertyTypeTitle, Title: []notion.RichText{{PlainText: "Hello"}}},
				"Status": {Type: notion.PropertyTypeStatus, Status: &notion.SelectOption{Name: "Live"}},
			}}},
			NextCursor: &next,
			HasMore:    true,
		},
	}

	page, err := newTestService(src, gridConfig()).Query(context.Background(), model.GridRequest{
		PageSize:  1000,
		Selection: model.Selection{Statuses: []string{"Live"}},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, src.lastQuery.PageSize)
	require.NotNil(t, src.lastQuery.Filter)
	assert.Len(t, src.lastQuery.Filter.And, 1)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Hello", page.Posts[0].Title)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "cur-2", *page.NextCursor)
}

func TestService_Query_LastPageHasNilCursor(t *testing.T) {
	src := &fakeSource{resp: &notion.QueryResponse{Results: nil, HasMore: false}}

	page, err := newTestService(src, gridConfig()).Query(context.Background(), model.GridRequest{})
	require.NoError(t, err)

	assert.Nil(t, page.NextCursor)
	assert.NotNil(t, page.Posts)
	assert.Equal(t, 12, src.lastQuery.PageSize)
}

func TestService_Query_SchemaFailureContinuesWithoutOptionalProps(t *testing.T) {
	src := &fakeSource{
		schemaErr: errors.New("forbidden"),
		resp:      &notion.QueryResponse{},
	}

	_, err := newTestService(src, gridConfig()).Query(context.Background(), model.GridRequest{
		Selection: model.Selection{Clients: []string{"c1"}},
	})
	require.NoError(t, err)

	assert.Nil(t, src.lastQuery.Filter)
	assert.Len(t, src.lastQuery.Sorts, 1)
}

func TestService_Query_UpstreamFailurePassesMessage(t *testing.T) {
	src := &fakeSource{queryErr: &notion.Error{Status: 400, Code: "validation_error", Message: "body failed validation"}}

	_, err := newTestService(src, gridConfig()).Query(context.Background(), model.GridRequest{})

	var apiErr *model.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.Status)
	assert.Equal(t, "body failed validation", apiErr.Message)
}
