// Package schema はユーザーが自由に構成したNotionデータベースのスキーマから、
// 論理フィールドに対応するプロパティ名を検出する。
package schema

import "github.com/hitoshi/contentgrid/internal/notion"

// Candidates は論理フィールド1つに対して受け付けるプロパティ名の候補。
// 順序は命名の優先度を表し、先に現れた候補が勝つ。
type Candidates []string

// 論理フィールドごとの候補名
var (
	DateCandidates        = Candidates{"Publish Date", "Date", "Fecha", "Fecha de publicación", "Fecha publicación"}
	StatusCandidates      = Candidates{"Status", "Estado"}
	OwnerCandidates       = Candidates{"Owner", "Owners", "Responsable", "Responsables", "Assignee", "Person"}
	PlatformCandidates    = Candidates{"Platform", "Platforms", "Plataforma", "Plataformas"}
	PinnedCandidates      = Candidates{"Pinned", "Pin", "Fijado", "Destacado"}
	HiddenCandidates      = Candidates{"Hide", "Hidden", "Oculto", "Ocultar"}
	ArchivedCandidates    = Candidates{"Archived", "Archivado", "Archive"}
	ClientCandidates      = Candidates{"Client", "Clients", "Cliente", "Clientes"}
	ProjectCandidates     = Candidates{"Project", "Projects", "Proyecto", "Proyectos"}
	ClientNameCandidates  = Candidates{"ClientName", "Client Name", "Nombre Cliente"}
	ProjectNameCandidates = Candidates{"ProjectName", "Project Name", "Nombre Proyecto"}
	CopyCandidates        = Candidates{"Copy", "Caption", "Texto", "Copy Text"}
	MediaCandidates       = Candidates{"Attachment", "Attachments", "Media", "Files", "Image", "Imagen", "Archivos"}
)

// Resolve はcandidatesのうちschemaに存在する最初の名前を返す。
// 見つからない場合とschemaがnilの場合は空文字列を返す。
// 判定はcandidatesの順序に従い、schemaの順序には依存しない。
func Resolve(schema notion.Schema, candidates Candidates) string {
	if schema == nil {
		return ""
	}
	for _, name := range candidates {
		if _, ok := schema[name]; ok {
			return name
		}
	}
	return ""
}

// Has はnameがschemaに存在するかを返す。
func Has(schema notion.Schema, name string) bool {
	if schema == nil || name == "" {
		return false
	}
	_, ok := schema[name]
	return ok
}

// TypeOf はnameのプロパティ型を返す。存在しない場合は空文字列。
func TypeOf(schema notion.Schema, name string) notion.PropertyType {
	if !Has(schema, name) {
		return ""
	}
	return schema[name].Type
}

// TitleKey はtitle型のプロパティ名を返す。
// Notionのデータベースにはtitle型がちょうど1つ存在する。
func TitleKey(schema notion.Schema) string {
	if Has(schema, "Name") && schema["Name"].Type == notion.PropertyTypeTitle {
		return "Name"
	}
	for name, meta := range schema {
		if meta.Type == notion.PropertyTypeTitle {
			return name
		}
	}
	return ""
}
