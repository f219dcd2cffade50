package listutil

import (
	"net/url"
	"testing"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name        string
		q           url.Values
		wantPage    int
		wantPerPage int
		wantSearch  string
	}{
		{"defaults", url.Values{}, 1, DefaultPerPage, ""},
		{"valid", url.Values{"page": {"3"}, "per_page": {"50"}, "q": {" 홍 "}}, 3, 50, "홍"},
		{"per_page not allowed", url.Values{"per_page": {"25"}}, 1, DefaultPerPage, ""},
		{"negative page", url.Values{"page": {"-1"}}, 1, DefaultPerPage, ""},
		{"garbage", url.Values{"page": {"x"}, "per_page": {"y"}}, 1, DefaultPerPage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseListParams(tt.q)
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage || p.Search != tt.wantSearch {
				t.Errorf("got %+v, want page=%d per_page=%d search=%q", p, tt.wantPage, tt.wantPerPage, tt.wantSearch)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		perPage    int
		total      int
		wantPages  int
		wantPage   int
		wantOffset int
		wantNext   bool
	}{
		{"basic", 1, 20, 85, 5, 1, 0, true},
		{"page2", 2, 20, 85, 5, 2, 20, true},
		{"lastPage", 5, 20, 85, 5, 5, 80, false},
		{"pageBeyondTotal", 10, 20, 85, 5, 5, 80, false},
		{"emptyList", 1, 20, 0, 1, 1, 0, false},
		{"exactFit", 1, 20, 20, 1, 1, 0, false},
		{"zeroPerPage", 1, 0, 10, 1, 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := NewPageInfo(tt.page, tt.perPage, tt.total)
			if pi.TotalPages != tt.wantPages {
				t.Errorf("TotalPages: got %d, want %d", pi.TotalPages, tt.wantPages)
			}
			if pi.Page != tt.wantPage {
				t.Errorf("Page: got %d, want %d", pi.Page, tt.wantPage)
			}
			if pi.Offset() != tt.wantOffset {
				t.Errorf("Offset: got %d, want %d", pi.Offset(), tt.wantOffset)
			}
			if pi.HasNext != tt.wantNext {
				t.Errorf("HasNext: got %v, want %v", pi.HasNext, tt.wantNext)
			}
		})
	}
}
