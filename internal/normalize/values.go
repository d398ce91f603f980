// Package normalize はNotionのプロパティ値をグリッド表示用の値に変換する。
//
// すべての関数は全域関数で、キーが空（未検出）の場合やプロパティが欠落・
// 型違いの場合もpanicせず、空文字列・空スライス・false・nilを返す。
package normalize

import (
	"strings"

	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/notion"
)

// UnknownPerson は名前もメールも取得できない担当者の表示名。
const UnknownPerson = "Unknown"

// Title はtitleプロパティのプレーンテキストを返す。
// keyが空の場合はページ内のtitle型プロパティを探す。
func Title(p notion.Page, key string) string {
	if v, ok := p.Property(key); ok {
		return notion.PlainText(v.Title)
	}
	for _, v := range p.Properties {
		if v.Type == notion.PropertyTypeTitle {
			return notion.PlainText(v.Title)
		}
	}
	return ""
}

// Date はdateプロパティの開始日時（ISO 8601）を返す。
// 日付を返すformulaとcreated_timeも受け付ける。
func Date(p notion.Page, key string) *string {
	v, ok := p.Property(key)
	if !ok {
		return nil
	}
	switch v.Type {
	case notion.PropertyTypeDate:
		if v.Date != nil && v.Date.Start != "" {
			return strPtr(v.Date.Start)
		}
	case notion.PropertyTypeFormula:
		if v.Formula != nil && v.Formula.Date != nil && v.Formula.Date.Start != "" {
			return strPtr(v.Formula.Date.Start)
		}
	case notion.PropertyTypeCreatedTime:
		if v.CreatedTime != "" {
			return strPtr(v.CreatedTime)
		}
	}
	return nil
}

// Status はstatus（またはselect）プロパティで選択されている名前を返す。
func Status(p notion.Page, key string) *string {
	v, ok := p.Property(key)
	if !ok {
		return nil
	}
	var opt *notion.SelectOption
	switch v.Type {
	case notion.PropertyTypeStatus:
		opt = v.Status
	case notion.PropertyTypeSelect:
		opt = v.Select
	}
	if opt == nil || opt.Name == "" {
		return nil
	}
	return strPtr(opt.Name)
}

// Owners はpeopleプロパティの担当者一覧を返す。
// 表示名は name → メールアドレス → "Unknown" の順で決める。
func Owners(p notion.Page, key string) []model.Person {
	v, ok := p.Property(key)
	if !ok || v.Type != notion.PropertyTypePeople {
		return []model.Person{}
	}
	owners := make([]model.Person, 0, len(v.People))
	for _, u := range v.People {
		if u.ID == "" {
			continue
		}
		owners = append(owners, model.Person{ID: u.ID, Name: PersonName(u)})
	}
	return owners
}

// PersonName はユーザーの表示名を返す。
func PersonName(u notion.User) string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if u.Person != nil {
		if email := strings.TrimSpace(u.Person.Email); email != "" {
			return email
		}
	}
	return UnknownPerson
}

// Platforms はmulti_select（またはselect）プロパティの選択肢名を返す。
func Platforms(p notion.Page, key string) []string {
	v, ok := p.Property(key)
	if !ok {
		return []string{}
	}
	switch v.Type {
	case notion.PropertyTypeMultiSelect:
		names := make([]string, 0, len(v.MultiSelect))
		for _, o := range v.MultiSelect {
			if o.Name != "" {
				names = append(names, o.Name)
			}
		}
		return names
	case notion.PropertyTypeSelect:
		if v.Select != nil && v.Select.Name != "" {
			return []string{v.Select.Name}
		}
	}
	return []string{}
}

// Checkbox はcheckboxプロパティの値を返す。
func Checkbox(p notion.Page, key string) bool {
	v, ok := p.Property(key)
	if !ok || v.Type != notion.PropertyTypeCheckbox {
		return false
	}
	return v.Checkbox
}

// RelationIDs はrelationプロパティが参照するページIDを返す。
func RelationIDs(p notion.Page, key string) []string {
	v, ok := p.Property(key)
	if !ok || v.Type != notion.PropertyTypeRelation {
		return []string{}
	}
	ids := make([]string, 0, len(v.Relation))
	for _, r := range v.Relation {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// FormulaText はformulaプロパティの文字列結果を返す。
// 結果が文字列でない、または空の場合はnil。
func FormulaText(p notion.Page, key string) *string {
	v, ok := p.Property(key)
	if !ok || v.Type != notion.PropertyTypeFormula || v.Formula == nil {
		return nil
	}
	if v.Formula.String == nil || strings.TrimSpace(*v.Formula.String) == "" {
		return nil
	}
	return strPtr(*v.Formula.String)
}

// Text はrich_text（またはtitle）プロパティのプレーンテキストを返す。
func Text(p notion.Page, key string) string {
	v, ok := p.Property(key)
	if !ok {
		return ""
	}
	switch v.Type {
	case notion.PropertyTypeRichText:
		return notion.PlainText(v.RichText)
	case notion.PropertyTypeTitle:
		return notion.PlainText(v.Title)
	}
	return ""
}

// Media はfilesプロパティのファイル参照を返す。
// プロパティがないか空の場合はページカバーを使う。
func Media(p notion.Page, key string) []model.MediaRef {
	refs := []model.MediaRef{}
	if v, ok := p.Property(key); ok && v.Type == notion.PropertyTypeFiles {
		for _, f := range v.Files {
			if ref, ok := mediaRef(f); ok {
				refs = append(refs, ref)
			}
		}
	}
	if len(refs) == 0 && p.Cover != nil {
		if ref, ok := mediaRef(*p.Cover); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func mediaRef(f notion.FileObject) (model.MediaRef, bool) {
	u := f.URL()
	if u == "" {
		return model.MediaRef{}, false
	}
	return model.MediaRef{Name: f.Name, URL: u, Kind: f.Type}, true
}

func strPtr(s string) *string {
	return &s
}
