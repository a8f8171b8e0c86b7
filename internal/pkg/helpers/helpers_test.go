package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	p := NewPage(3, 20)
	assert.Equal(t, uint64(40), p.Offset())
	assert.Equal(t, uint64(20), p.Limit())

	p = NewPage(0, 1000)
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, p)
	assert.Equal(t, uint64(0), p.Offset())
}

func TestPageApply(t *testing.T) {
	q := squirrel.Select("id").From("members")
	sql, _, err := NewPage(2, 25).Apply(q).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM members LIMIT 25 OFFSET 25", sql)
}

func TestPageInfo(t *testing.T) {
	tests := []struct {
		name    string
		page    Page
		total   int64
		current int
		pages   int
	}{
		{"middle page", NewPage(2, 10), 25, 2, 3},
		{"empty result", NewPage(1, 10), 0, 1, 1},
		{"past the end", NewPage(9, 10), 25, 3, 3},
		{"exact fit", NewPage(2, 5), 10, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := tt.page.Info(tt.total)
			assert.Equal(t, tt.current, info.CurrentPage)
			assert.Equal(t, tt.pages, info.TotalPages)
			assert.Equal(t, tt.page.Size, info.PageSize)
			assert.Equal(t, tt.total, info.TotalItems)
		})
	}
}

func TestTrimmedOrNil(t *testing.T) {
	assert.Nil(t, TrimmedOrNil("   "))
	assert.Equal(t, "x", *TrimmedOrNil(" x "))
	assert.Nil(t, TrimmedPtr(nil))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{in: "2026-01-31", want: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)},
		{in: "2026-01-31T10:00:00Z", want: time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC)},
		{in: "", wantNil: true},
		{in: "null", wantNil: true},
		{in: "31/01/2026", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, DefaultPageSize},
		{"page=3&pageSize=25", 3, 25},
		{"page=2&size=5", 2, 5},
		{"page=-1&pageSize=1000", 1, DefaultPageSize},
		{"page=abc&pageSize=x", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/members?"+tt.query, nil)

			p := ParsePage(c)
			assert.Equal(t, tt.page, p.Number)
			assert.Equal(t, tt.pageSize, p.Size)
		})
	}
}
