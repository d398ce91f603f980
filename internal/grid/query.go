// Package grid はコンテンツグリッドのクエリ組み立てと取得を提供する。
package grid

import (
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/schema"
)

// ページサイズの既定値と絶対上限
const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

// ClampPageSize はページサイズを[1, max]に丸める。
// requestedが0（未指定）の場合はdefを使う。
func ClampPageSize(requested, def, max int) int {
	if max <= 0 || max > MaxPageSize {
		max = MaxPageSize
	}
	if def <= 0 {
		def = DefaultPageSize
	}
	n := requested
	if n == 0 {
		n = def
	}
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// BuildQuery は選択値と検出済みフィールドからクエリを組み立てる。
// スキーマに存在しないプロパティの条件は選択値があっても出力しない。
func BuildQuery(f schema.Fields, sel model.Selection, pageSize int, cursor string) notion.QueryRequest {
	var groups []notion.Filter

	add := func(prop string, values []string, predicate func(prop, value string) notion.Filter) {
		if prop == "" || len(values) == 0 {
			return
		}
		or := make([]notion.Filter, 0, len(values))
		for _, v := range values {
			or = append(or, predicate(prop, v))
		}
		if len(or) == 1 {
			groups = append(groups, or[0])
			return
		}
		groups = append(groups, notion.Filter{Or: or})
	}

	add(f.Client, sel.Clients, relationContains)
	add(f.Project, sel.Projects, relationContains)
	add(f.Platform, sel.Platforms, platformPredicate(f.PlatformType))
	add(f.Owners, sel.Owners, peopleContains)
	add(f.Status, sel.Statuses, statusPredicate(f.StatusType))

	for _, prop := range []string{f.Hidden, f.Archived} {
		if prop != "" {
			groups = append(groups, notChecked(prop))
		}
	}

	req := notion.QueryRequest{
		Sorts:       sorts(f),
		StartCursor: cursor,
		PageSize:    pageSize,
	}
	if len(groups) > 0 {
		req.Filter = &notion.Filter{And: groups}
	}
	return req
}

func sorts(f schema.Fields) []notion.Sort {
	var s []notion.Sort
	if f.Pinned != "" {
		s = append(s, notion.Sort{Property: f.Pinned, Direction: notion.SortDescending})
	}
	if f.Date != "" {
		s = append(s, notion.Sort{Property: f.Date, Direction: notion.SortDescending})
	}
	return append(s, notion.Sort{Timestamp: notion.TimestampCreatedTime, Direction: notion.SortDescending})
}

func relationContains(prop, id string) notion.Filter {
	return notion.Filter{Property: prop, Relation: &notion.TextCondition{Contains: id}}
}

func peopleContains(prop, id string) notion.Filter {
	return notion.Filter{Property: prop, People: &notion.TextCondition{Contains: id}}
}

// platformPredicate はプラットフォームの型に応じた条件を返す。
// 型が不明な場合はmulti_selectとして扱う。
func platformPredicate(t notion.PropertyType) func(prop, value string) notion.Filter {
	if t == notion.PropertyTypeSelect {
		return func(prop, value string) notion.Filter {
			return notion.Filter{Property: prop, Select: &notion.TextCondition{Equals: value}}
		}
	}
	return func(prop, value string) notion.Filter {
		return notion.Filter{Property: prop, MultiSelect: &notion.TextCondition{Contains: value}}
	}
}

// statusPredicate はステータスの型に応じた条件を返す。
// 型が不明な場合はstatusとして扱う。
func statusPredicate(t notion.PropertyType) func(prop, value string) notion.Filter {
	if t == notion.PropertyTypeSelect {
		return func(prop, value string) notion.Filter {
			return notion.Filter{Property: prop, Select: &notion.TextCondition{Equals: value}}
		}
	}
	return func(prop, value string) notion.Filter {
		return notion.Filter{Property: prop, Status: &notion.TextCondition{Equals: value}}
	}
}

// notChecked は「falseである、またはtrueでない」条件を返す。
// 値が未設定のページも表示対象に含める。
func notChecked(prop string) notion.Filter {
	f, t := false, true
	return notion.Filter{Or: []notion.Filter{
		{Property: prop, Checkbox: &notion.CheckboxCondition{Equals: &f}},
		{Property: prop, Checkbox: &notion.CheckboxCondition{DoesNotEqual: &t}},
	}}
}
