package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	id := func(s string) string { return s }

	tests := []struct {
		name     string
		cursor   string
		limit    int
		wantData []string
		wantNext string
		hasMore  bool
	}{
		{"first page", "", 2, []string{"a", "b"}, "b", true},
		{"middle page", "b", 2, []string{"c", "d"}, "d", true},
		{"last page", "d", 2, []string{"e"}, "", false},
		{"exact fit", "c", 2, []string{"d", "e"}, "", false},
		{"cursor at end", "e", 2, []string{}, "", false},
		{"stale cursor restarts", "zz", 2, []string{"a", "b"}, "b", true},
		{"zero limit uses default", "", 0, []string{"a", "b", "c", "d", "e"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(items, tt.cursor, tt.limit, id)
			assert.Equal(t, tt.wantData, page.Data)
			assert.Equal(t, tt.hasMore, page.HasMore)
			assert.Equal(t, len(items), page.Total)
			if tt.wantNext == "" {
				assert.Nil(t, page.NextCursor)
			} else {
				require.NotNil(t, page.NextCursor)
				assert.Equal(t, tt.wantNext, *page.NextCursor)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]int{}, "", 10, func(i int) string { return "" })
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.False(t, page.HasMore)
	assert.Nil(t, page.NextCursor)
	assert.Zero(t, page.Total)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-3))
	assert.Equal(t, 7, NormalizeLimit(7))
	assert.Equal(t, MaxLimit, NormalizeLimit(500))
}
