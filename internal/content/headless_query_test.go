package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-integrations/internal/models"
)

func TestBuildQuery_Posts(t *testing.T) {
	tests := []struct {
		name   string
		filter models.FilterSpec
		want   map[string]string
		absent []string
	}{
		{
			name:   "defaults",
			filter: models.FilterSpec{},
			want: map[string]string{
				"filters[published][$eq]": "true",
				"pagination[pageSize]":    "10",
				"pagination[page]":        "1",
				"sort":                    "publishedAt:desc",
			},
			absent: []string{"filters[featured][$eq]", "filters[category][$eq]", "filters[tags][$contains]"},
		},
		{
			name: "explicit unpublished and featured",
			filter: models.FilterSpec{
				Published: models.BoolPtr(false),
				Featured:  models.BoolPtr(true),
			},
			want: map[string]string{
				"filters[published][$eq]": "false",
				"filters[featured][$eq]":  "true",
			},
		},
		{
			name:   "category, tag and pagination",
			filter: models.FilterSpec{Category: "SEO", Tag: "cwv", Limit: 5, Offset: 12, SortBy: "title", SortOrder: "asc"},
			want: map[string]string{
				"filters[category][$eq]":   "SEO",
				"filters[tags][$contains]": "cwv",
				"pagination[pageSize]":     "5",
				"pagination[page]":         "3",
				"sort":                     "title:asc",
			},
		},
		{
			name:   "search over post fields",
			filter: models.FilterSpec{Search: "schema"},
			want: map[string]string{
				"filters[$or][0][title][$containsi]":   "schema",
				"filters[$or][1][excerpt][$containsi]": "schema",
				"filters[$or][2][content][$containsi]": "schema",
			},
		},
		{
			name:   "industry ignored on posts",
			filter: models.FilterSpec{Industry: "Varejo"},
			absent: []string{"filters[industry][$eq]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := buildQuery(postsQuery, tt.filter)
			for k, v := range tt.want {
				assert.Equal(t, v, q.Get(k), k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, q, k)
			}
		})
	}
}

func TestBuildQuery_Cases(t *testing.T) {
	q := buildQuery(casesQuery, models.FilterSpec{Industry: "Varejo", Search: "loja", Category: "ignored"})

	assert.Equal(t, "Varejo", q.Get("filters[industry][$eq]"))
	assert.Equal(t, "true", q.Get("filters[published][$eq]"))
	assert.Equal(t, "loja", q.Get("filters[$or][0][title][$containsi]"))
	assert.Equal(t, "loja", q.Get("filters[$or][1][description][$containsi]"))
	assert.Equal(t, "loja", q.Get("filters[$or][2][challenge][$containsi]"))
	assert.Equal(t, "loja", q.Get("filters[$or][3][solution][$containsi]"))
	assert.NotContains(t, q, "filters[category][$eq]")
}

func TestBuildQuery_Testimonials(t *testing.T) {
	q := buildQuery(testimonialsQuery, models.FilterSpec{})
	assert.NotContains(t, q, "filters[published][$eq]")

	q = buildQuery(testimonialsQuery, models.FilterSpec{Published: models.BoolPtr(true)})
	assert.Equal(t, "true", q.Get("filters[published][$eq]"))
}

func TestSlugQuery(t *testing.T) {
	q := slugQuery("guia-seo")
	assert.Equal(t, "guia-seo", q.Get("filters[slug][$eq]"))
	assert.Equal(t, "*", q.Get("populate"))
}

func TestMapPost_PreservesIdentityFields(t *testing.T) {
	published := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	entry := cmsEntry{
		ID: float64(42),
		Attributes: []byte(`{
			"slug": "schema-markup", "title": "Schema Markup", "content": "x",
			"featured": true, "published": false,
			"publishedAt": "2024-03-05T12:00:00Z",
			"createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-02T00:00:00Z",
			"internalNotes": "dropped"
		}`),
	}

	p, err := mapPost(entry)
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)
	assert.Equal(t, "schema-markup", p.Slug)
	assert.Equal(t, "Schema Markup", p.Title)
	assert.True(t, p.Featured)
	assert.False(t, p.Published)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, published.Equal(*p.PublishedAt))
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), p.UpdatedAt.UTC())
	assert.Equal(t, []string{}, p.Tags)
	assert.Nil(t, p.Excerpt)
}

func TestMapPost_NullPublishedAt(t *testing.T) {
	p, err := mapPost(cmsEntry{ID: "abc", Attributes: []byte(`{"slug":"draft","publishedAt":null}`)})
	require.NoError(t, err)
	assert.Equal(t, "abc", p.ID)
	assert.Nil(t, p.PublishedAt)
}

func TestRawResults(t *testing.T) {
	assert.Equal(t, "", rawResults(nil))
	assert.Equal(t, "", rawResults([]byte("null")))
	assert.Equal(t, `{"a":1}`, rawResults([]byte(`"{\"a\":1}"`)))
	assert.Equal(t, `{"a":1}`, rawResults([]byte(`{"a":1}`)))
}
