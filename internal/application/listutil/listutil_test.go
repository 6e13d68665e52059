package listutil

import (
	"net/url"
	"slices"
	"testing"
)

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		query string
		want  PageParams
	}{
		{"", PageParams{Page: 1, PerPage: 0}},
		{"page=3&per_page=50", PageParams{Page: 3, PerPage: 50}},
		{"page=-2&per_page=7", PageParams{Page: 1, PerPage: 0}},
		{"page=abc&per_page=10", PageParams{Page: 1, PerPage: 10}},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := ParsePageParams(q); got != tt.want {
			t.Errorf("ParsePageParams(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name   string
		params PageParams
		total  int
		want   PageInfo
	}{
		{"unpaged", PageParams{Page: 1}, 7, PageInfo{Page: 1, PerPage: 7, Total: 7, TotalPages: 1}},
		{"empty", PageParams{Page: 1, PerPage: 10}, 0, PageInfo{Page: 1, PerPage: 10, Total: 0, TotalPages: 1}},
		{"partial last page", PageParams{Page: 3, PerPage: 10}, 25, PageInfo{Page: 3, PerPage: 10, Total: 25, TotalPages: 3}},
		{"clamped", PageParams{Page: 9, PerPage: 10}, 25, PageInfo{Page: 3, PerPage: 10, Total: 25, TotalPages: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewPageInfo(tt.params, tt.total); got != tt.want {
				t.Errorf("NewPageInfo = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page2 := Slice(items, NewPageInfo(PageParams{Page: 2, PerPage: 10}, len(items)))
	if !slices.Equal(page2, items) {
		t.Errorf("clamped page = %v, want all items", page2)
	}

	info := PageInfo{Page: 2, PerPage: 2, Total: 5, TotalPages: 3}
	if got := Slice(items, info); !slices.Equal(got, []int{3, 4}) {
		t.Errorf("page 2 = %v, want [3 4]", got)
	}
	info.Page = 3
	if got := Slice(items, info); !slices.Equal(got, []int{5}) {
		t.Errorf("page 3 = %v, want [5]", got)
	}

	if got := Slice[int](nil, NewPageInfo(PageParams{Page: 1}, 0)); got == nil || len(got) != 0 {
		t.Errorf("nil items = %v, want empty non-nil", got)
	}
}
