package handler

import (
	"net/url"
	"reflect"
	"testing"
)

func TestMultiValue(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"未指定", "", nil},
		{"単一", "client=a", []string{"a"}},
		{"繰り返し", "client=a&client=b", []string{"a", "b"}},
		{"[]付き", "client[]=a&client[]=b", []string{"a", "b"}},
		{"カンマ区切り", "client=a,b", []string{"a", "b"}},
		{"重複と空要素を除く", "client=a,,b&client[]=a&client=%20", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			if got := multiValue(q, "client"); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("multiValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePageSize(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 0},
		{"pageSize=5", 5},
		{"pageSize=1000", 1000},
		{"pageSize=abc", 0},
		{"pageSize=-2", -2},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := parsePageSize(q); got != tt.want {
			t.Errorf("parsePageSize(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
