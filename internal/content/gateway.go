package content

import (
	"context"
	"database/sql"
	"time"

	"site-integrations/internal/common/cache"
	"site-integrations/internal/common/config"
	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/metrics"
	"site-integrations/internal/models"
)

type GatewayOptions struct {
	Config     config.CMSConfig
	DB         *sql.DB
	HTTPClient *httpx.Client
	Cache      cache.Cache
	Logger     logger.Logger
}

// Gateway is the single read API for site content. The backend is chosen
// once at construction and never changes afterwards.
type Gateway struct {
	backend Backend
	logger  logger.Logger
}

func NewGateway(opts GatewayOptions) *Gateway {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.Named("content")

	kind := ResolveBackendKind(opts.Config.Provider, opts.Config.APIURL, log)

	var backend Backend
	switch kind {
	case BackendHeadless:
		client := opts.HTTPClient
		if client == nil {
			client = httpx.NewClient(15 * time.Second)
		}
		backend = NewHeadlessBackend(HeadlessOptions{
			BaseURL:          opts.Config.APIURL,
			APIToken:         opts.Config.APIToken,
			RevalidateURL:    opts.Config.RevalidateURL,
			RevalidateSecret: opts.Config.RevalidateSecret,
			CacheTTL:         opts.Config.CacheTTL(),
			Cache:            opts.Cache,
			Client:           client,
			Logger:           log,
		})
	default:
		backend = NewRelationalBackend(opts.DB, log)
	}

	log.Info("content gateway ready", map[string]interface{}{
		"backend": string(kind),
	})
	return NewGatewayWithBackend(backend, log)
}

// NewGatewayWithBackend wires an already built backend.
func NewGatewayWithBackend(backend Backend, log logger.Logger) *Gateway {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Gateway{backend: backend, logger: log}
}

func (g *Gateway) Kind() BackendKind {
	return g.backend.Kind()
}

func (g *Gateway) FetchBlogPosts(ctx context.Context, filter models.FilterSpec) ([]models.Post, int, error) {
	filter = filter.Normalize()
	start := time.Now()
	posts, total, err := g.backend.FetchBlogPosts(ctx, filter)
	g.observe("fetch_blog_posts", start, err, true)
	if err != nil {
		g.logFailure("fetch_blog_posts", err, map[string]interface{}{
			"category": filter.Category,
			"tag":      filter.Tag,
			"limit":    filter.Limit,
			"offset":   filter.Offset,
		})
		return nil, 0, err
	}
	return posts, total, nil
}

func (g *Gateway) FetchBlogPost(ctx context.Context, slug string) (*models.Post, error) {
	start := time.Now()
	post, err := g.backend.FetchBlogPost(ctx, slug)
	g.observe("fetch_blog_post", start, err, post != nil)
	if err != nil {
		g.logFailure("fetch_blog_post", err, map[string]interface{}{"slug": slug})
		return nil, err
	}
	return post, nil
}

func (g *Gateway) FetchPortfolioCases(ctx context.Context, filter models.FilterSpec) ([]models.CaseStudy, int, error) {
	filter = filter.Normalize()
	start := time.Now()
	cases, total, err := g.backend.FetchPortfolioCases(ctx, filter)
	g.observe("fetch_portfolio_cases", start, err, true)
	if err != nil {
		g.logFailure("fetch_portfolio_cases", err, map[string]interface{}{
			"industry": filter.Industry,
			"limit":    filter.Limit,
			"offset":   filter.Offset,
		})
		return nil, 0, err
	}
	return cases, total, nil
}

func (g *Gateway) FetchPortfolioCase(ctx context.Context, slug string) (*models.CaseStudy, error) {
	start := time.Now()
	cs, err := g.backend.FetchPortfolioCase(ctx, slug)
	g.observe("fetch_portfolio_case", start, err, cs != nil)
	if err != nil {
		g.logFailure("fetch_portfolio_case", err, map[string]interface{}{"slug": slug})
		return nil, err
	}
	return cs, nil
}

func (g *Gateway) FetchTestimonials(ctx context.Context, filter models.FilterSpec) ([]models.Testimonial, error) {
	filter = filter.Normalize()
	start := time.Now()
	items, err := g.backend.FetchTestimonials(ctx, filter)
	g.observe("fetch_testimonials", start, err, true)
	if err != nil {
		g.logFailure("fetch_testimonials", err, nil)
		return nil, err
	}
	return items, nil
}

func (g *Gateway) RevalidateRoute(ctx context.Context, path string) {
	start := time.Now()
	g.backend.RevalidateRoute(ctx, path)
	g.observe("revalidate_route", start, nil, true)
}

// PurgeCache drops cached CMS responses. Backends without a cache report 0.
func (g *Gateway) PurgeCache(ctx context.Context) (int, error) {
	p, ok := g.backend.(CachePurger)
	if !ok {
		return 0, nil
	}
	return p.PurgeCache(ctx)
}

func (g *Gateway) observe(operation string, start time.Time, err error, found bool) {
	kind := string(g.backend.Kind())
	status := metrics.StatusOK
	switch {
	case err != nil:
		status = metrics.StatusError
	case !found:
		status = metrics.StatusNotFound
	}
	metrics.ContentRequests.WithLabelValues(kind, operation, status).Inc()
	metrics.ContentRequestDuration.WithLabelValues(kind, operation).Observe(time.Since(start).Seconds())
}

func (g *Gateway) logFailure(operation string, err error, fields map[string]interface{}) {
	out := map[string]interface{}{
		"backend":   string(g.backend.Kind()),
		"operation": operation,
		"error":     err,
	}
	for k, v := range fields {
		out[k] = v
	}
	g.logger.Error("content request failed", out)
}
