// Package api exposes the content and lead gateways over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/observability"
	"site-integrations/internal/leads"
	"site-integrations/internal/models"
)

// ContentService is the read side consumed by the public routes.
type ContentService interface {
	FetchBlogPosts(ctx context.Context, filter models.FilterSpec) ([]models.Post, int, error)
	FetchBlogPost(ctx context.Context, slug string) (*models.Post, error)
	FetchPortfolioCases(ctx context.Context, filter models.FilterSpec) ([]models.CaseStudy, int, error)
	FetchPortfolioCase(ctx context.Context, slug string) (*models.CaseStudy, error)
	FetchTestimonials(ctx context.Context, filter models.FilterSpec) ([]models.Testimonial, error)
	RevalidateRoute(ctx context.Context, path string)
	PurgeCache(ctx context.Context) (int, error)
}

type LeadService interface {
	Submit(ctx context.Context, sub leads.Submission) (*leads.Result, error)
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type Options struct {
	Content          ContentService
	Leads            LeadService
	RevalidateSecret string
	Version          string
	ReadyChecks      map[string]ReadinessCheck
	Observability    *observability.Observability
	Logger           logger.Logger
}

type Server struct {
	engine           *gin.Engine
	content          ContentService
	leads            LeadService
	revalidateSecret string
	version          string
	readyChecks      map[string]ReadinessCheck
	logger           logger.Logger
}

func NewServer(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.Named("api")

	engine := gin.New()
	engine.Use(requestID(), accessLog(log, opts.Observability), recovery(log))

	s := &Server{
		engine:           engine,
		content:          opts.Content,
		leads:            opts.Leads,
		revalidateSecret: opts.RevalidateSecret,
		version:          opts.Version,
		readyChecks:      opts.ReadyChecks,
		logger:           log,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/ready", s.ready)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	{
		blog := api.Group("/blog")
		blog.GET("", s.listPosts)
		blog.GET("/tag/:tag", s.listPostsByTag)
		blog.GET("/:slug", s.getPost)

		portfolio := api.Group("/portfolio")
		portfolio.GET("", s.listCases)
		portfolio.GET("/:slug", s.getCase)

		api.GET("/testimonials", s.listTestimonials)
		api.POST("/contato", s.submitContact)
		api.POST("/revalidate", s.revalidate)
	}

	s.engine.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Not found", nil)
	})
}

// Handler returns the root handler for an http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}
