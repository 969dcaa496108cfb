package content

import (
	"context"
	"strings"

	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

type BackendKind string

const (
	BackendRelational BackendKind = "relational"
	BackendHeadless   BackendKind = "headless-cms"
)

// Backend answers content queries from one concrete store.
// Slug lookups return nil, nil when nothing matches.
type Backend interface {
	Kind() BackendKind
	FetchBlogPosts(ctx context.Context, filter models.FilterSpec) ([]models.Post, int, error)
	FetchBlogPost(ctx context.Context, slug string) (*models.Post, error)
	FetchPortfolioCases(ctx context.Context, filter models.FilterSpec) ([]models.CaseStudy, int, error)
	FetchPortfolioCase(ctx context.Context, slug string) (*models.CaseStudy, error)
	FetchTestimonials(ctx context.Context, filter models.FilterSpec) ([]models.Testimonial, error)
	// RevalidateRoute is best-effort and never fails.
	RevalidateRoute(ctx context.Context, path string)
}

// CachePurger is implemented by backends that keep a response cache.
type CachePurger interface {
	PurgeCache(ctx context.Context) (int, error)
}

// ResolveBackendKind maps the configured provider to a backend kind.
// A headless provider without an API URL downgrades to relational with a
// warning; unknown values are treated as relational.
func ResolveBackendKind(provider, apiURL string, log logger.Logger) BackendKind {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "headless-cms", "headless", "strapi":
		if strings.TrimSpace(apiURL) == "" {
			log.Warn("headless CMS selected but CMS_API_URL is not set, falling back to relational backend", map[string]interface{}{
				"provider": provider,
			})
			return BackendRelational
		}
		return BackendHeadless
	case "", "relational", "prisma", "postgres":
		return BackendRelational
	default:
		log.Warn("unknown CMS provider, using relational backend", map[string]interface{}{
			"provider": provider,
		})
		return BackendRelational
	}
}
