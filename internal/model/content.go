package model

// Person は担当者（Notionのユーザー）を表す。
type Person struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MediaRef はカードのサムネイルに使うファイル参照。
type MediaRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// Kind は "file"（Notionホスト）または "external"。
	Kind string `json:"kind"`
}

// ContentRecord はコンテンツDBの1行をグリッド表示用に正規化したもの。
// リクエストごとに生成され、永続化されない。
type ContentRecord struct {
	ID          string     `json:"id"`
	URL         string     `json:"url,omitempty"`
	Title       string     `json:"title"`
	Date        *string    `json:"date"`
	Pinned      bool       `json:"pinned"`
	Status      *string    `json:"status"`
	Owners      []Person   `json:"owners"`
	Platforms   []string   `json:"platforms"`
	Media       []MediaRef `json:"media"`
	ClientIDs   []string   `json:"clientIds"`
	ProjectIDs  []string   `json:"projectIds"`
	ClientName  *string    `json:"clientName"`
	ProjectName *string    `json:"projectName"`
	Copy        string     `json:"copy"`
	LastEdited  string     `json:"lastEdited,omitempty"`
}

// LookupEntity はクライアントまたはプロジェクトのIDと表示名。
type LookupEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project はプロジェクトのIDと表示名、関連クライアントIDを保持する。
type Project struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	ClientIDs []string `json:"clientIds"`
}
