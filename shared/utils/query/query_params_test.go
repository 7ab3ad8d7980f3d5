package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextForQuery(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestParseQueryParams_Defaults(t *testing.T) {
	c := contextForQuery("")
	params := ParseQueryParams(c)

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort.Field)
	assert.Equal(t, "desc", params.Sort.Order)
	assert.Empty(t, params.Search)
	assert.Empty(t, params.Filters)
}

func TestParseQueryParams_ClampsAndParses(t *testing.T) {
	c := contextForQuery("page=0&limit=500&sort_by=title&sort_order=ASC&search=milk")
	params := ParseQueryParams(c)

	assert.Equal(t, 1, params.Page, "page is floored at 1")
	assert.Equal(t, 100, params.Limit, "limit is capped at 100")
	assert.Equal(t, "title", params.Sort.Field)
	assert.Equal(t, "asc", params.Sort.Order)
	assert.Equal(t, "milk", params.Search)
}

func TestParseQueryParams_InvalidSortOrder(t *testing.T) {
	c := contextForQuery("sort_order=sideways")
	params := ParseQueryParams(c)
	assert.Equal(t, "desc", params.Sort.Order)
}

func TestParseQueryParams_FilterAllowlist(t *testing.T) {
	c := contextForQuery("completed=true&category_id=abc&rogue=1")
	params := ParseQueryParams(c, "completed", "category_id")

	assert.Equal(t, "true", params.Filters["completed"])
	assert.Equal(t, "abc", params.Filters["category_id"])
	_, ok := params.Filters["rogue"]
	assert.False(t, ok, "unnamed keys are dropped at parse time")
}

func TestBuildPaginationResponse(t *testing.T) {
	resp := BuildPaginationResponse(2, 10, 35)

	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, int64(35), resp.Total)
	assert.Equal(t, int64(4), resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	first := BuildPaginationResponse(1, 10, 5)
	assert.Equal(t, int64(1), first.TotalPages)
	assert.False(t, first.HasNext)
	assert.False(t, first.HasPrev)

	empty := BuildPaginationResponse(1, 10, 0)
	assert.Equal(t, int64(0), empty.TotalPages)
	assert.False(t, empty.HasNext)
}
