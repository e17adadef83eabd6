package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
		wantOffset  int64
	}{
		{name: "defaults", query: "", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "explicit values", query: "?page=3&per_page=25", wantPage: 3, wantPerPage: 25, wantOffset: 50},
		{name: "legacy limit name", query: "?page=2&limit=5", wantPage: 2, wantPerPage: 5, wantOffset: 5},
		{name: "per_page capped", query: "?per_page=500", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "non numeric ignored", query: "?page=abc&per_page=xyz", wantPage: 1, wantPerPage: 10, wantOffset: 0},
		{name: "zero page ignored", query: "?page=0", wantPage: 1, wantPerPage: 10, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/products"+tt.query, nil)
			p := FromRequest(r)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestNewResult(t *testing.T) {
	params := Params{Page: 2, PerPage: 10}
	res := NewResult([]string{"a", "b"}, 25, params)

	assert.Equal(t, 25, res.TotalCount)
	assert.Equal(t, 3, res.TotalPages)
	assert.True(t, res.HasNext)
	assert.True(t, res.HasPrev)
}

func TestNewResultNilData(t *testing.T) {
	res := NewResult[string](nil, 0, DefaultParams())
	assert.NotNil(t, res.Data)
	assert.Empty(t, res.Data)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, res.HasNext)
}
