package notion

// PropertyType はNotionプロパティの型タグ。
// PropertyValueとPropertyMetaはこの値で判別される。
type PropertyType string

const (
	PropertyTypeTitle       PropertyType = "title"
	PropertyTypeRichText    PropertyType = "rich_text"
	PropertyTypeDate        PropertyType = "date"
	PropertyTypeStatus      PropertyType = "status"
	PropertyTypeSelect      PropertyType = "select"
	PropertyTypeMultiSelect PropertyType = "multi_select"
	PropertyTypePeople      PropertyType = "people"
	PropertyTypeRelation    PropertyType = "relation"
	PropertyTypeFormula     PropertyType = "formula"
	PropertyTypeCheckbox    PropertyType = "checkbox"
	PropertyTypeFiles       PropertyType = "files"
	PropertyTypeURL         PropertyType = "url"
	PropertyTypeNumber      PropertyType = "number"
	PropertyTypeCreatedTime PropertyType = "created_time"
)

// RichText はリッチテキストの1要素。表示にはplain_textのみを使う。
type RichText struct {
	Type      string  `json:"type,omitempty"`
	PlainText string  `json:"plain_text"`
	Href      *string `json:"href,omitempty"`
}

// PlainText はリッチテキスト配列のplain_textを連結して返す。
func PlainText(rts []RichText) string {
	if len(rts) == 0 {
		return ""
	}
	if len(rts) == 1 {
		return rts[0].PlainText
	}
	var n int
	for _, rt := range rts {
		n += len(rt.PlainText)
	}
	buf := make([]byte, 0, n)
	for _, rt := range rts {
		buf = append(buf, rt.PlainText...)
	}
	return string(buf)
}

// SelectOption はstatus/select/multi_selectの選択肢。
type SelectOption struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Person はpeopleプロパティに含まれるユーザーのperson情報。
type Person struct {
	Email string `json:"email,omitempty"`
}

// User はpeopleプロパティの要素。
// 権限によってはnameやpersonが欠落する。
type User struct {
	Object    string  `json:"object,omitempty"`
	ID        string  `json:"id"`
	Type      string  `json:"type,omitempty"`
	Name      string  `json:"name,omitempty"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Person    *Person `json:"person,omitempty"`
}

// DateValue はdateプロパティの値。StartはISO 8601文字列。
type DateValue struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	TimeZone *string `json:"time_zone,omitempty"`
}

// RelationRef はrelationプロパティが参照するページ。
type RelationRef struct {
	ID string `json:"id"`
}

// FormulaValue はformulaプロパティの計算結果。
// Typeに応じて1つのフィールドだけが設定される。
type FormulaValue struct {
	Type    string     `json:"type"`
	String  *string    `json:"string,omitempty"`
	Number  *float64   `json:"number,omitempty"`
	Boolean *bool      `json:"boolean,omitempty"`
	Date    *DateValue `json:"date,omitempty"`
}

// FileURL はファイルの取得先URL。
type FileURL struct {
	URL        string `json:"url"`
	ExpiryTime string `json:"expiry_time,omitempty"`
}

// FileObject はfilesプロパティの要素またはページカバー。
// Typeが"file"ならFile、"external"ならExternalが設定される。
type FileObject struct {
	Name     string   `json:"name,omitempty"`
	Type     string   `json:"type"`
	File     *FileURL `json:"file,omitempty"`
	External *FileURL `json:"external,omitempty"`
}

// URL はType に応じたURLを返す。取得できない場合は空文字列。
func (f FileObject) URL() string {
	switch f.Type {
	case "file":
		if f.File != nil {
			return f.File.URL
		}
	case "external":
		if f.External != nil {
			return f.External.URL
		}
	}
	return ""
}

// PropertyValue はページ上のプロパティ値。Typeで判別されるタグ付き共用体で、
// Typeに対応するフィールドだけが意味を持つ。
type PropertyValue struct {
	ID          string         `json:"id,omitempty"`
	Type        PropertyType   `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
	Status      *SelectOption  `json:"status,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	People      []User         `json:"people,omitempty"`
	Relation    []RelationRef  `json:"relation,omitempty"`
	Formula     *FormulaValue  `json:"formula,omitempty"`
	Checkbox    bool           `json:"checkbox,omitempty"`
	Files       []FileObject   `json:"files,omitempty"`
	URL         *string        `json:"url,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	CreatedTime string         `json:"created_time,omitempty"`
}

// Page はデータベースの1レコード。
type Page struct {
	Object         string                   `json:"object,omitempty"`
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time,omitempty"`
	LastEditedTime string                   `json:"last_edited_time,omitempty"`
	URL            string                   `json:"url,omitempty"`
	Archived       bool                     `json:"archived,omitempty"`
	Cover          *FileObject              `json:"cover,omitempty"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// Property はnameのプロパティ値を返す。存在しない場合はfalse。
func (p Page) Property(name string) (PropertyValue, bool) {
	if name == "" || p.Properties == nil {
		return PropertyValue{}, false
	}
	v, ok := p.Properties[name]
	return v, ok
}

// OptionSet はstatus/select/multi_selectの選択肢定義。
type OptionSet struct {
	Options []SelectOption `json:"options"`
}

// PropertyMeta はデータベーススキーマ上のプロパティ定義。
type PropertyMeta struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Type        PropertyType `json:"type"`
	Status      *OptionSet   `json:"status,omitempty"`
	Select      *OptionSet   `json:"select,omitempty"`
	MultiSelect *OptionSet   `json:"multi_select,omitempty"`
}

// OptionNames はstatus/select/multi_select型の選択肢名を定義順に返す。
// それ以外の型ではnilを返す。
func (m PropertyMeta) OptionNames() []string {
	var set *OptionSet
	switch m.Type {
	case PropertyTypeStatus:
		set = m.Status
	case PropertyTypeSelect:
		set = m.Select
	case PropertyTypeMultiSelect:
		set = m.MultiSelect
	}
	if set == nil {
		return nil
	}
	names := make([]string, 0, len(set.Options))
	for _, o := range set.Options {
		if o.Name != "" {
			names = append(names, o.Name)
		}
	}
	return names
}

// Schema はプロパティ名からプロパティ定義へのマップ。
// nilは「プロパティが1つも存在しない」として扱う。
type Schema map[string]PropertyMeta

// Database はデータベースのメタデータ。
type Database struct {
	Object     string                  `json:"object,omitempty"`
	ID         string                  `json:"id"`
	Title      []RichText              `json:"title,omitempty"`
	Properties map[string]PropertyMeta `json:"properties"`
}

// Schema はデータベースのスキーマを返す。dがnilの場合はnilを返す。
func (d *Database) Schema() Schema {
	if d == nil {
		return nil
	}
	return Schema(d.Properties)
}

// TextCondition はstatus/select/multi_select/people/relationのフィルタ条件。
type TextCondition struct {
	Equals       string `json:"equals,omitempty"`
	DoesNotEqual string `json:"does_not_equal,omitempty"`
	Contains     string `json:"contains,omitempty"`
}

// CheckboxCondition はcheckboxのフィルタ条件。
// falseを送るためにポインタで保持する。
type CheckboxCondition struct {
	Equals       *bool `json:"equals,omitempty"`
	DoesNotEqual *bool `json:"does_not_equal,omitempty"`
}

// Filter はデータベースクエリのフィルタ。
// And/Orを使う複合フィルタか、Propertyと1つの条件を持つ単一フィルタのどちらか。
type Filter struct {
	And         []Filter           `json:"and,omitempty"`
	Or          []Filter           `json:"or,omitempty"`
	Property    string             `json:"property,omitempty"`
	Status      *TextCondition     `json:"status,omitempty"`
	Select      *TextCondition     `json:"select,omitempty"`
	MultiSelect *TextCondition     `json:"multi_select,omitempty"`
	People      *TextCondition     `json:"people,omitempty"`
	Relation    *TextCondition     `json:"relation,omitempty"`
	Checkbox    *CheckboxCondition `json:"checkbox,omitempty"`
}

// ソート方向とタイムスタンプソートのキー
const (
	SortAscending  = "ascending"
	SortDescending = "descending"

	TimestampCreatedTime    = "created_time"
	TimestampLastEditedTime = "last_edited_time"
)

// Sort はデータベースクエリのソート条件。
// PropertyかTimestampのどちらか一方を指定する。
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// QueryRequest はデータベースクエリのリクエストボディ。
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	Sorts       []Sort  `json:"sorts,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// QueryResponse はデータベースクエリのレスポンス。
// NextCursorは次ページがない場合nil。
type QueryResponse struct {
	Object     string  `json:"object,omitempty"`
	Results    []Page  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}
