package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listPosts(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	s.writePosts(c, q)
}

func (s *Server) listPostsByTag(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	q.filter.Tag = c.Param("tag")
	s.writePosts(c, q)
}

func (s *Server) writePosts(c *gin.Context, q listQuery) {
	posts, total, err := s.content.FetchBlogPosts(c.Request.Context(), q.filter)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondPage(c, posts, newPagination(q.page, q.filter.Limit, total), "Posts retrieved")
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.content.FetchBlogPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondAppError(c, err)
		return
	}
	if post == nil {
		respondError(c, http.StatusNotFound, "Post not found", nil)
		return
	}
	respondOK(c, http.StatusOK, post, "")
}

func (s *Server) listCases(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	cases, total, err := s.content.FetchPortfolioCases(c.Request.Context(), q.filter)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondPage(c, cases, newPagination(q.page, q.filter.Limit, total), "Case studies retrieved")
}

func (s *Server) getCase(c *gin.Context) {
	cs, err := s.content.FetchPortfolioCase(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondAppError(c, err)
		return
	}
	if cs == nil {
		respondError(c, http.StatusNotFound, "Case study not found", nil)
		return
	}
	respondOK(c, http.StatusOK, cs, "")
}

func (s *Server) listTestimonials(c *gin.Context) {
	q, err := parseListQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	items, err := s.content.FetchTestimonials(c.Request.Context(), q.filter)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, http.StatusOK, items, "")
}
