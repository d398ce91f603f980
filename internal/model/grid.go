package model

// Selection はグリッドのフィルタで選択された値の集合。
type Selection struct {
	Clients   []string
	Projects  []string
	Platforms []string
	Owners    []string
	Statuses  []string
}

// IsEmpty は何も選択されていない場合にtrueを返す。
func (s Selection) IsEmpty() bool {
	return len(s.Clients) == 0 && len(s.Projects) == 0 && len(s.Platforms) == 0 &&
		len(s.Owners) == 0 && len(s.Statuses) == 0
}

// GridRequest はグリッド取得リクエスト。
// PageSizeが0の場合はデフォルト値が使われる。
type GridRequest struct {
	PageSize  int
	Cursor    string
	Selection Selection
}

// GridPage はグリッド1ページ分の結果。
// NextCursorは次ページが存在しない場合nil。
type GridPage struct {
	Posts      []ContentRecord
	NextCursor *string
}

// Facets はフィルタUIに表示する選択肢の集合。
type Facets struct {
	Platforms []string
	Statuses  []string
	Owners    []Person
	Clients   []LookupEntity
	Projects  []Project
}
