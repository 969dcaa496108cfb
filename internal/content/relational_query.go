package content

import (
	"fmt"
	"strings"

	"site-integrations/internal/models"
)

const (
	postColumns = `id, slug, title, excerpt, content, author, author_image, category, tags,
		featured, published, published_at, seo_title, seo_description, og_image, created_at, updated_at`

	caseColumns = `id, slug, title, description, client_name, industry, services, technologies,
		challenge, solution, results, duration, timeline, learnings, hero_image, gallery,
		gsc_before, gsc_after, ga4_before, ga4_after, cwv_before, cwv_after,
		featured, published, published_at, created_at, updated_at`
)

var (
	postSearchColumns = []string{"title", "excerpt", "content"}
	caseSearchColumns = []string{"title", "description", "challenge", "solution"}
)

// sortColumns whitelists the sortable fields. Anything else sorts by publishedAt.
var sortColumns = map[string]string{
	"publishedAt": "published_at",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"title":       "title",
	"featured":    "featured",
}

// whereClause accumulates conditions with positional parameters.
type whereClause struct {
	conds []string
	args  []interface{}
}

// add appends cond, where every %[1]d in cond is the new argument's position.
func (w *whereClause) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *whereClause) addSearch(columns []string, term string) {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = col + " ILIKE $%[1]d"
	}
	w.add("("+strings.Join(parts, " OR ")+")", "%"+likeEscaper.Replace(term)+"%")
}

// likeEscaper neutralizes LIKE wildcards; backslash is ILIKE's default escape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func postsWhere(f models.FilterSpec) *whereClause {
	w := &whereClause{}
	w.add("published = $%[1]d", f.PublishedOrDefault())
	if f.Category != "" {
		w.add("category = $%[1]d", f.Category)
	}
	if f.Tag != "" {
		w.add("$%[1]d = ANY(tags)", f.Tag)
	}
	if f.Featured != nil {
		w.add("featured = $%[1]d", *f.Featured)
	}
	if f.Search != "" {
		w.addSearch(postSearchColumns, f.Search)
	}
	return w
}

func casesWhere(f models.FilterSpec) *whereClause {
	w := &whereClause{}
	w.add("published = $%[1]d", f.PublishedOrDefault())
	if f.Industry != "" {
		w.add("industry = $%[1]d", f.Industry)
	}
	if f.Featured != nil {
		w.add("featured = $%[1]d", *f.Featured)
	}
	if f.Search != "" {
		w.addSearch(caseSearchColumns, f.Search)
	}
	return w
}

func orderBy(f models.FilterSpec) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[models.DefaultSortBy]
	}
	dir := "DESC"
	if f.SortOrder == models.SortOrderAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s NULLS LAST, id ASC", col, dir)
}

// listQuery returns the page query and the matching count query. Both share
// the same arguments up to the LIMIT/OFFSET pair appended to the page query.
func listQuery(table, columns string, w *whereClause, f models.FilterSpec) (string, []interface{}, string, []interface{}) {
	where := w.String()
	n := len(w.args)

	page := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT $%d OFFSET $%d",
		columns, table, where, orderBy(f), n+1, n+2)
	pageArgs := append(append([]interface{}{}, w.args...), f.Limit, f.Offset)

	count := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)
	return page, pageArgs, count, w.args
}
