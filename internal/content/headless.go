package content

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"site-integrations/internal/common/cache"
	apperrors "site-integrations/internal/common/errors"
	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/metrics"
	"site-integrations/internal/models"
)

const (
	cacheKeyPrefix         = "cms:"
	revalidateSecretHeader = "x-revalidate-secret"
)

type HeadlessOptions struct {
	BaseURL          string
	APIToken         string
	RevalidateURL    string
	RevalidateSecret string
	CacheTTL         time.Duration
	Cache            cache.Cache
	Client           *httpx.Client
	Logger           logger.Logger
}

// HeadlessBackend reads content from a Strapi-style REST API.
type HeadlessBackend struct {
	baseURL          string
	apiToken         string
	revalidateURL    string
	revalidateSecret string
	cacheTTL         time.Duration
	cache            cache.Cache
	client           *httpx.Client
	logger           logger.Logger
}

func NewHeadlessBackend(opts HeadlessOptions) *HeadlessBackend {
	if opts.Cache == nil {
		opts.Cache = cache.NewNoop()
	}
	if opts.Client == nil {
		opts.Client = httpx.NewClient(15 * time.Second)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNoOpLogger()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 60 * time.Second
	}
	return &HeadlessBackend{
		baseURL:          strings.TrimRight(opts.BaseURL, "/"),
		apiToken:         opts.APIToken,
		revalidateURL:    strings.TrimRight(opts.RevalidateURL, "/"),
		revalidateSecret: opts.RevalidateSecret,
		cacheTTL:         opts.CacheTTL,
		cache:            opts.Cache,
		client:           opts.Client,
		logger:           opts.Logger,
	}
}

func (h *HeadlessBackend) Kind() BackendKind {
	return BackendHeadless
}

func (h *HeadlessBackend) FetchBlogPosts(ctx context.Context, filter models.FilterSpec) ([]models.Post, int, error) {
	resp, err := h.list(ctx, postsQuery.collection, buildQuery(postsQuery, filter))
	if err != nil {
		return nil, 0, err
	}
	posts := make([]models.Post, 0, len(resp.Data))
	for _, e := range resp.Data {
		p, err := mapPost(e)
		if err != nil {
			return nil, 0, apperrors.NewCMSDecodeFailedError(postsQuery.collection, err)
		}
		posts = append(posts, p)
	}
	return posts, resp.total(), nil
}

func (h *HeadlessBackend) FetchBlogPost(ctx context.Context, slug string) (*models.Post, error) {
	resp, err := h.list(ctx, postsQuery.collection, slugQuery(slug))
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	p, err := mapPost(resp.Data[0])
	if err != nil {
		return nil, apperrors.NewCMSDecodeFailedError(postsQuery.collection, err)
	}
	return &p, nil
}

func (h *HeadlessBackend) FetchPortfolioCases(ctx context.Context, filter models.FilterSpec) ([]models.CaseStudy, int, error) {
	resp, err := h.list(ctx, casesQuery.collection, buildQuery(casesQuery, filter))
	if err != nil {
		return nil, 0, err
	}
	cases := make([]models.CaseStudy, 0, len(resp.Data))
	for _, e := range resp.Data {
		cs, err := mapCaseStudy(e)
		if err != nil {
			return nil, 0, apperrors.NewCMSDecodeFailedError(casesQuery.collection, err)
		}
		cases = append(cases, cs)
	}
	return cases, resp.total(), nil
}

func (h *HeadlessBackend) FetchPortfolioCase(ctx context.Context, slug string) (*models.CaseStudy, error) {
	resp, err := h.list(ctx, casesQuery.collection, slugQuery(slug))
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	cs, err := mapCaseStudy(resp.Data[0])
	if err != nil {
		return nil, apperrors.NewCMSDecodeFailedError(casesQuery.collection, err)
	}
	return &cs, nil
}

func (h *HeadlessBackend) FetchTestimonials(ctx context.Context, filter models.FilterSpec) ([]models.Testimonial, error) {
	resp, err := h.list(ctx, testimonialsQuery.collection, buildQuery(testimonialsQuery, filter))
	if err != nil {
		return nil, err
	}
	items := make([]models.Testimonial, 0, len(resp.Data))
	for _, e := range resp.Data {
		t, err := mapTestimonial(e)
		if err != nil {
			return nil, apperrors.NewCMSDecodeFailedError(testimonialsQuery.collection, err)
		}
		items = append(items, t)
	}
	return items, nil
}

// RevalidateRoute asks the site to rebuild path. Failures are only logged.
func (h *HeadlessBackend) RevalidateRoute(ctx context.Context, path string) {
	if h.revalidateSecret == "" {
		h.logger.Warn("REVALIDATE_SECRET not configured, skipping revalidation", map[string]interface{}{
			"path": path,
		})
		return
	}

	target := h.revalidateURL + path
	resp, err := h.client.DoJSON(ctx, http.MethodPost, target, map[string]string{
		revalidateSecretHeader: h.revalidateSecret,
	}, map[string]string{"path": path})
	if err != nil {
		h.logger.Error("revalidation request failed", map[string]interface{}{
			"path":  path,
			"error": apperrors.NewRevalidationFailedError(path, err),
		})
		return
	}
	if !resp.OK() {
		h.logger.Error("revalidation rejected", map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		})
		return
	}
	h.logger.Debug("route revalidated", map[string]interface{}{"path": path})
}

// PurgeCache drops every cached CMS response.
func (h *HeadlessBackend) PurgeCache(ctx context.Context) (int, error) {
	n, err := h.cache.DeletePrefix(ctx, cacheKeyPrefix)
	if err != nil {
		return n, apperrors.NewCacheError("purge", err)
	}
	return n, nil
}

// list performs a cached GET against a collection endpoint.
func (h *HeadlessBackend) list(ctx context.Context, collection string, query url.Values) (*cmsListResponse, error) {
	endpoint := collection + "?" + query.Encode()
	key := cacheKeyPrefix + endpoint

	body, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cms cache read failed", map[string]interface{}{
			"endpoint": collection,
			"error":    err,
		})
	}
	if hit {
		var out cmsListResponse
		if err := decodeList(body, &out); err == nil {
			metrics.ContentCacheHits.WithLabelValues("hit").Inc()
			return &out, nil
		}
	}
	metrics.ContentCacheHits.WithLabelValues("miss").Inc()

	headers := map[string]string{}
	if h.apiToken != "" {
		headers["Authorization"] = "Bearer " + h.apiToken
	}
	resp, err := h.client.DoJSON(ctx, http.MethodGet, h.baseURL+endpoint, headers, nil)
	if err != nil {
		return nil, apperrors.NewCMSRequestFailedError(collection, err)
	}
	if !resp.OK() {
		return nil, apperrors.NewCMSRequestFailedError(collection,
			fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithMetadata("status", resp.StatusCode)
	}

	var out cmsListResponse
	if err := decodeList(resp.Body, &out); err != nil {
		return nil, apperrors.NewCMSDecodeFailedError(collection, err)
	}

	if err := h.cache.Set(ctx, key, resp.Body, h.cacheTTL); err != nil {
		h.logger.Warn("cms cache write failed", map[string]interface{}{
			"endpoint": collection,
			"error":    err,
		})
	}
	return &out, nil
}

func decodeList(body []byte, out *cmsListResponse) error {
	resp := httpx.Response{StatusCode: http.StatusOK, Body: body}
	return resp.Decode(out)
}
