package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ns-ai-search/console/internal/shared/constants"
)

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{"valid values", 2, 20, 2, 20},
		{"page below one", 0, 20, constants.DefaultPage, 20},
		{"negative page", -1, 20, constants.DefaultPage, 20},
		{"zero page size", 1, 0, 1, constants.DefaultPageSize},
		{"page size above max", 1, 500, 1, constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ValidatePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		query        string
		defaultSize  int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", constants.LogsPageSize, 1, constants.LogsPageSize},
		{"page_size wins over per_page", "?page=3&page_size=10&per_page=40", 20, 3, 10},
		{"per_page alias", "?per_page=40", 20, 1, 40},
		{"garbage falls back", "?page=abc&page_size=-5", 20, 1, 20},
		{"clamped to max", "?page_size=1000", 20, 1, constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/admin/logs"+tt.query, nil)

			p := ParsePagination(c, tt.defaultSize)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestPaginationOffsetAndTotalPages(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 100, Pagination{Page: 3, PageSize: 50}.Offset())

	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 1, TotalPages(5, 0))
}
