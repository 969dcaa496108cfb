package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

var ErrDatabaseNotConfigured = errors.New("database is not configured")

// RelationalBackend reads content from the posts and case_studies tables.
type RelationalBackend struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRelationalBackend(db *sql.DB, log logger.Logger) *RelationalBackend {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &RelationalBackend{db: db, logger: log}
}

func (r *RelationalBackend) Kind() BackendKind {
	return BackendRelational
}

func (r *RelationalBackend) FetchBlogPosts(ctx context.Context, filter models.FilterSpec) ([]models.Post, int, error) {
	if r.db == nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_blog_posts", ErrDatabaseNotConfigured)
	}
	filter = filter.Normalize()
	query, args, countQuery, countArgs := listQuery("posts", postColumns, postsWhere(filter), filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_blog_posts", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, apperrors.NewContentQueryFailedError("fetch_blog_posts", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_blog_posts", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("count_blog_posts", err)
	}
	return posts, total, nil
}

func (r *RelationalBackend) FetchBlogPost(ctx context.Context, slug string) (*models.Post, error) {
	if r.db == nil {
		return nil, apperrors.NewContentQueryFailedError("fetch_blog_post", ErrDatabaseNotConfigured)
	}
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM posts WHERE slug = $1", postColumns), slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewContentQueryFailedError("fetch_blog_post", err)
	}
	return p, nil
}

func (r *RelationalBackend) FetchPortfolioCases(ctx context.Context, filter models.FilterSpec) ([]models.CaseStudy, int, error) {
	if r.db == nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_portfolio_cases", ErrDatabaseNotConfigured)
	}
	filter = filter.Normalize()
	query, args, countQuery, countArgs := listQuery("case_studies", caseColumns, casesWhere(filter), filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_portfolio_cases", err)
	}
	defer rows.Close()

	cases := make([]models.CaseStudy, 0, filter.Limit)
	for rows.Next() {
		cs, err := scanCaseStudy(rows)
		if err != nil {
			return nil, 0, apperrors.NewContentQueryFailedError("fetch_portfolio_cases", err)
		}
		cases = append(cases, *cs)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("fetch_portfolio_cases", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewContentQueryFailedError("count_portfolio_cases", err)
	}
	return cases, total, nil
}

func (r *RelationalBackend) FetchPortfolioCase(ctx context.Context, slug string) (*models.CaseStudy, error) {
	if r.db == nil {
		return nil, apperrors.NewContentQueryFailedError("fetch_portfolio_case", ErrDatabaseNotConfigured)
	}
	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM case_studies WHERE slug = $1", caseColumns), slug)
	cs, err := scanCaseStudy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewContentQueryFailedError("fetch_portfolio_case", err)
	}
	return cs, nil
}

// FetchTestimonials always returns an empty list: testimonials only live in the CMS.
func (r *RelationalBackend) FetchTestimonials(ctx context.Context, filter models.FilterSpec) ([]models.Testimonial, error) {
	return []models.Testimonial{}, nil
}

// RevalidateRoute is a no-op; rows are read fresh on every call.
func (r *RelationalBackend) RevalidateRoute(ctx context.Context, path string) {
	r.logger.Debug("revalidate skipped for relational backend", map[string]interface{}{"path": path})
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p                                       models.Post
		excerpt, authorImage, seoTitle, seoDesc sql.NullString
		ogImage                                 sql.NullString
		tags                                    []string
		publishedAt                             sql.NullTime
	)
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &excerpt, &p.Content, &p.Author, &authorImage,
		&p.Category, pq.Array(&tags),
		&p.Featured, &p.Published, &publishedAt,
		&seoTitle, &seoDesc, &ogImage,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Excerpt = nullString(excerpt)
	p.AuthorImage = nullString(authorImage)
	p.SEOTitle = nullString(seoTitle)
	p.SEODescription = nullString(seoDesc)
	p.OGImage = nullString(ogImage)
	p.Tags = nonNil(tags)
	p.PublishedAt = nullTime(publishedAt)
	return &p, nil
}

func scanCaseStudy(row rowScanner) (*models.CaseStudy, error) {
	var (
		cs                                       models.CaseStudy
		clientName, timeline, learnings, hero    sql.NullString
		gscBefore, gscAfter, ga4Before, ga4After sql.NullString
		cwvBefore, cwvAfter, results             sql.NullString
		services, technologies, gallery          []string
		publishedAt                              sql.NullTime
	)
	err := row.Scan(
		&cs.ID, &cs.Slug, &cs.Title, &cs.Description, &clientName, &cs.Industry,
		pq.Array(&services), pq.Array(&technologies),
		&cs.Challenge, &cs.Solution, &results, &cs.Duration,
		&timeline, &learnings, &hero, pq.Array(&gallery),
		&gscBefore, &gscAfter, &ga4Before, &ga4After, &cwvBefore, &cwvAfter,
		&cs.Featured, &cs.Published, &publishedAt, &cs.CreatedAt, &cs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cs.ClientName = nullString(clientName)
	cs.Results = results.String
	cs.Timeline = nullString(timeline)
	cs.Learnings = nullString(learnings)
	cs.HeroImage = nullString(hero)
	cs.Services = nonNil(services)
	cs.Technologies = nonNil(technologies)
	cs.Gallery = nonNil(gallery)
	cs.GSCBefore = nullString(gscBefore)
	cs.GSCAfter = nullString(gscAfter)
	cs.GA4Before = nullString(ga4Before)
	cs.GA4After = nullString(ga4After)
	cs.CWVBefore = nullString(cwvBefore)
	cs.CWVAfter = nullString(cwvAfter)
	cs.PublishedAt = nullTime(publishedAt)
	return &cs, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
