package helpers

import (
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/yigit/memberdir/internal/app/models/dto"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page is a 1-based page request. Build it with NewPage or ParsePage so the
// bounds hold.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number to at least 1 and size to 1..MaxPageSize.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

// ParsePage reads page and pageSize from the query string. Older clients send
// size instead of pageSize.
func ParsePage(c *gin.Context) Page {
	sizeParam := c.Query("pageSize")
	if sizeParam == "" {
		sizeParam = c.Query("size")
	}
	return NewPage(atoiOr(c.Query("page"), 1), atoiOr(sizeParam, DefaultPageSize))
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func (p Page) Offset() uint64 { return uint64((p.Number - 1) * p.Size) }

func (p Page) Limit() uint64 { return uint64(p.Size) }

// Apply adds LIMIT and OFFSET to q.
func (p Page) Apply(q squirrel.SelectBuilder) squirrel.SelectBuilder {
	return q.Limit(p.Limit()).Offset(p.Offset())
}

// Info describes where p sits in a result of total rows. An empty result
// still reports one page, and a page past the end is pulled back to the last.
func (p Page) Info(total int64) dto.PaginationInfo {
	pages := 1
	if total > 0 {
		pages = int((total + int64(p.Size) - 1) / int64(p.Size))
	}
	return dto.PaginationInfo{
		CurrentPage: min(p.Number, pages),
		TotalPages:  pages,
		PageSize:    p.Size,
		TotalItems:  total,
	}
}
