package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"explicit", "?page=3&per_page=10", Params{Page: 3, PerPage: 10, Offset: 20}},
		{"per page at max", "?per_page=100", Params{Page: 1, PerPage: 100, Offset: 0}},
		{"per page over max", "?per_page=101", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"negative page", "?page=-2", Params{Page: 1, PerPage: 20, Offset: 0}},
		{"malformed", "?page=abc&per_page=x", Params{Page: 1, PerPage: 20, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/promotions"+tt.query, nil)
			assert.Equal(t, tt.want, FromRequest(r))
		})
	}
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, []string{"a", "b"}, Slice(items, NewParams(1, 2)))
	assert.Equal(t, []string{"e"}, Slice(items, NewParams(3, 2)))
	assert.Empty(t, Slice(items, NewParams(4, 2)))
	assert.NotNil(t, Slice(items, NewParams(4, 2)))
	assert.Empty(t, Slice[string](nil, DefaultParams()))
}

func TestSlice_DoesNotAliasTail(t *testing.T) {
	items := []int{1, 2, 3, 4}
	page := Slice(items, NewParams(1, 2))

	page = append(page, 99)

	assert.Equal(t, []int{1, 2, 3, 4}, items)
	assert.Equal(t, []int{1, 2, 99}, page)
}

func TestNewResult(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		params     Params
		totalPages int
		hasNext    bool
		hasPrev    bool
	}{
		{"single page", 3, NewParams(1, 20), 1, false, false},
		{"middle page", 45, NewParams(2, 20), 3, true, true},
		{"last page", 45, NewParams(3, 20), 3, false, true},
		{"empty", 0, NewParams(1, 20), 0, false, false},
		{"zero page size", 10, Params{Page: 1}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewResult[int](nil, tt.total, tt.params)
			assert.Equal(t, tt.totalPages, got.TotalPages)
			assert.Equal(t, tt.hasNext, got.HasNext)
			assert.Equal(t, tt.hasPrev, got.HasPrev)
			assert.NotNil(t, got.Data)
		})
	}
}
