package handler

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/contentgrid/internal/model"
)

// parseSelection はクエリパラメータからフィルタの選択値を読み取る。
// 同名パラメータの繰り返し、"[]"付きの名前、カンマ区切りのいずれも受け付ける。
func parseSelection(q url.Values) model.Selection {
	return model.Selection{
		Clients:   multiValue(q, "client"),
		Projects:  multiValue(q, "project"),
		Platforms: multiValue(q, "platform"),
		Owners:    multiValue(q, "owner"),
		Statuses:  multiValue(q, "status"),
	}
}

// multiValue はnameとname[]の値を結合し、空要素と重複を除いて出現順に返す。
func multiValue(q url.Values, name string) []string {
	raw := append(append([]string{}, q[name]...), q[name+"[]"]...)

	var out []string
	seen := make(map[string]struct{}, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, ok := seen[part]; ok {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}

// parsePageSize はpageSizeパラメータを読み取る。
// 未指定や数値でない場合は0（既定値を使う）を返す。
func parsePageSize(q url.Values) int {
	n, err := strconv.Atoi(strings.TrimSpace(q.Get("pageSize")))
	if err != nil {
		return 0
	}
	return n
}
