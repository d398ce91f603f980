package normalize

import (
	"github.com/hitoshi/contentgrid/internal/model"
	"github.com/hitoshi/contentgrid/internal/notion"
	"github.com/hitoshi/contentgrid/internal/schema"
)

// Sanitizer は表示用テキストからHTMLを取り除く。
type Sanitizer interface {
	Sanitize(text string) string
}

// URLValidator はフロントエンドに渡すURLを検証する。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Normalizer はページをContentRecordに変換する。
type Normalizer struct {
	sanitizer Sanitizer
	validator URLValidator
}

// NewNormalizer はNormalizerを生成する。
// sanitizerとvalidatorはnilでもよく、その場合は何もしない。
func NewNormalizer(sanitizer Sanitizer, validator URLValidator) *Normalizer {
	return &Normalizer{sanitizer: sanitizer, validator: validator}
}

// Record はページを検出済みフィールドに従って正規化する。
func (n *Normalizer) Record(p notion.Page, f schema.Fields) model.ContentRecord {
	return model.ContentRecord{
		ID:          p.ID,
		URL:         p.URL,
		Title:       n.clean(Title(p, f.Title)),
		Date:        Date(p, f.Date),
		Pinned:      Checkbox(p, f.Pinned),
		Status:      Status(p, f.Status),
		Owners:      Owners(p, f.Owners),
		Platforms:   Platforms(p, f.Platform),
		Media:       n.safeMedia(Media(p, f.Media)),
		ClientIDs:   RelationIDs(p, f.Client),
		ProjectIDs:  RelationIDs(p, f.Project),
		ClientName:  FormulaText(p, f.ClientName),
		ProjectName: FormulaText(p, f.ProjectName),
		Copy:        n.clean(Text(p, f.Copy)),
		LastEdited:  p.LastEditedTime,
	}
}

// Records はページ一覧を正規化する。結果は空でもnilにならない。
func (n *Normalizer) Records(pages []notion.Page, f schema.Fields) []model.ContentRecord {
	records := make([]model.ContentRecord, 0, len(pages))
	for _, p := range pages {
		records = append(records, n.Record(p, f))
	}
	return records
}

func (n *Normalizer) clean(s string) string {
	if n.sanitizer == nil {
		return s
	}
	return n.sanitizer.Sanitize(s)
}

func (n *Normalizer) safeMedia(refs []model.MediaRef) []model.MediaRef {
	if n.validator == nil {
		return refs
	}
	safe := refs[:0]
	for _, r := range refs {
		if n.validator.ValidateURL(r.URL) == nil {
			safe = append(safe, r)
		}
	}
	return safe
}
