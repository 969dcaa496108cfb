package content

import (
	"fmt"
	"net/url"
	"strconv"

	"site-integrations/internal/models"
)

// entityQuery describes which canonical filters a CMS collection supports.
type entityQuery struct {
	collection       string
	searchFields     []string
	defaultPublished bool
	category         bool
	tags             bool
	industry         bool
}

var (
	postsQuery = entityQuery{
		collection:       "/posts",
		searchFields:     []string{"title", "excerpt", "content"},
		defaultPublished: true,
		category:         true,
		tags:             true,
	}
	casesQuery = entityQuery{
		collection:       "/case-studies",
		searchFields:     []string{"title", "description", "challenge", "solution"},
		defaultPublished: true,
		industry:         true,
	}
	testimonialsQuery = entityQuery{
		collection:   "/testimonials",
		searchFields: []string{"name", "company", "quote"},
		industry:     true,
	}
)

// buildQuery translates a normalized filter into the CMS filter grammar.
func buildQuery(e entityQuery, f models.FilterSpec) url.Values {
	f = f.Normalize()
	q := url.Values{}

	switch {
	case f.Published != nil:
		q.Set("filters[published][$eq]", strconv.FormatBool(*f.Published))
	case e.defaultPublished:
		q.Set("filters[published][$eq]", "true")
	}
	if f.Featured != nil {
		q.Set("filters[featured][$eq]", strconv.FormatBool(*f.Featured))
	}
	if e.category && f.Category != "" {
		q.Set("filters[category][$eq]", f.Category)
	}
	if e.tags && f.Tag != "" {
		q.Set("filters[tags][$contains]", f.Tag)
	}
	if e.industry && f.Industry != "" {
		q.Set("filters[industry][$eq]", f.Industry)
	}
	if f.Search != "" {
		for i, field := range e.searchFields {
			q.Set(fmt.Sprintf("filters[$or][%d][%s][$containsi]", i, field), f.Search)
		}
	}

	q.Set("pagination[pageSize]", strconv.Itoa(f.Limit))
	q.Set("pagination[page]", strconv.Itoa(f.Page()))
	q.Set("sort", f.SortBy+":"+f.SortOrder)
	return q
}

func slugQuery(slug string) url.Values {
	q := url.Values{}
	q.Set("filters[slug][$eq]", slug)
	q.Set("populate", "*")
	return q
}
