package schema

import "github.com/hitoshi/contentgrid/internal/notion"

// Fields はコンテンツDBのスキーマから検出した論理フィールドのプロパティ名。
// 空文字列は「このワークスペースには存在しない」ことを表す。
type Fields struct {
	Title       string
	Date        string
	Status      string
	Owners      string
	Platform    string
	Pinned      string
	Hidden      string
	Archived    string
	Client      string
	Project     string
	ClientName  string
	ProjectName string
	Copy        string
	Media       string

	// StatusType と PlatformType はフィルタ条件の組み立てに使う実際の型。
	StatusType   notion.PropertyType
	PlatformType notion.PropertyType
}

// Detect はスキーマから全論理フィールドを解決する。
// schemaがnilの場合はすべて未検出になる。
func Detect(schema notion.Schema) Fields {
	f := Fields{
		Title:       TitleKey(schema),
		Date:        Resolve(schema, DateCandidates),
		Status:      Resolve(schema, StatusCandidates),
		Owners:      Resolve(schema, OwnerCandidates),
		Platform:    Resolve(schema, PlatformCandidates),
		Pinned:      Resolve(schema, PinnedCandidates),
		Hidden:      Resolve(schema, HiddenCandidates),
		Archived:    Resolve(schema, ArchivedCandidates),
		Client:      Resolve(schema, ClientCandidates),
		Project:     Resolve(schema, ProjectCandidates),
		ClientName:  Resolve(schema, ClientNameCandidates),
		ProjectName: Resolve(schema, ProjectNameCandidates),
		Copy:        Resolve(schema, CopyCandidates),
		Media:       Resolve(schema, MediaCandidates),
	}
	f.StatusType = TypeOf(schema, f.Status)
	f.PlatformType = TypeOf(schema, f.Platform)
	return f
}

// Map は論理フィールド名から解決済みプロパティ名へのマップを返す。
// 未検出のフィールドはnil。
func (f Fields) Map() map[string]*string {
	m := map[string]*string{
		"title":       nil,
		"date":        nil,
		"status":      nil,
		"owners":      nil,
		"platform":    nil,
		"pinned":      nil,
		"hidden":      nil,
		"archived":    nil,
		"client":      nil,
		"project":     nil,
		"clientName":  nil,
		"projectName": nil,
		"copy":        nil,
		"media":       nil,
	}
	set := func(key, name string) {
		if name != "" {
			n := name
			m[key] = &n
		}
	}
	set("title", f.Title)
	set("date", f.Date)
	set("status", f.Status)
	set("owners", f.Owners)
	set("platform", f.Platform)
	set("pinned", f.Pinned)
	set("hidden", f.Hidden)
	set("archived", f.Archived)
	set("client", f.Client)
	set("project", f.Project)
	set("clientName", f.ClientName)
	set("projectName", f.ProjectName)
	set("copy", f.Copy)
	set("media", f.Media)
	return m
}
