// Package web はフロントエンド向けの埋め込み静的ファイルを提供する。
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static は /static/ 配下で配信するファイルシステムを返す。
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
