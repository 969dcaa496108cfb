package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"site-integrations/internal/models"
)

const maxPageSize = 100

// listQuery is a parsed list request; page is 1-based.
type listQuery struct {
	filter models.FilterSpec
	page   int
}

func parseListQuery(c *gin.Context) (listQuery, error) {
	page, err := positiveInt(c.Query("page"), 1)
	if err != nil {
		return listQuery{}, fmt.Errorf("page: %w", err)
	}
	limit, err := positiveInt(c.Query("limit"), models.DefaultLimit)
	if err != nil {
		return listQuery{}, fmt.Errorf("limit: %w", err)
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	f := models.FilterSpec{
		Tag:       strings.TrimSpace(c.Query("tag")),
		Search:    strings.TrimSpace(c.Query("search")),
		Industry:  strings.TrimSpace(c.Query("industry")),
		Limit:     limit,
		Offset:    (page - 1) * limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: strings.ToLower(c.Query("sortOrder")),
	}
	// "all" is what the site's category tabs send for no filter.
	if category := strings.TrimSpace(c.Query("category")); category != "all" {
		f.Category = category
	}
	if f.Industry == "all" {
		f.Industry = ""
	}
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return listQuery{}, fmt.Errorf("featured: %w", err)
		}
		f.Featured = &b
	}
	return listQuery{filter: f, page: page}, nil
}

func positiveInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if n < 1 {
		return 0, fmt.Errorf("must be at least 1")
	}
	return n, nil
}
