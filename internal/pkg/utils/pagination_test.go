package utils

import (
	"net/http/httptest"
	"testing"
)

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 1, 20, 0},
		{"explicit", "?page=3&limit=10", 3, 10, 20},
		{"limit capped", "?limit=500", 1, 100, 0},
		{"negative page", "?page=-2", 1, 20, 0},
		{"garbage", "?page=x&limit=y", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/sales"+tt.query, nil)
			got := ParsePaginationParams(r)
			if got.Page != tt.wantPage || got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("ParsePaginationParams() = %+v, want page=%d limit=%d offset=%d",
					got, tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	p := PaginationParams{Page: 1, Limit: 20}

	tests := []struct {
		total     int64
		wantPages int
	}{
		{0, 0},
		{20, 1},
		{21, 2},
	}

	for _, tt := range tests {
		got := NewPaginatedResponse([]string{}, p, tt.total)
		if got.Pagination.Pages != tt.wantPages {
			t.Errorf("total %d: pages = %d, want %d", tt.total, got.Pagination.Pages, tt.wantPages)
		}
	}
}
