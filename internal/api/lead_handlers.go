package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/leads"
)

const revalidateSecretHeader = "x-revalidate-secret"

func (s *Server) submitContact(c *gin.Context) {
	var sub leads.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid contact payload", err.Error())
		return
	}

	res, err := s.leads.Submit(c.Request.Context(), sub)
	if err != nil {
		respondAppError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{
		"contactId": res.ContactID,
		"crmSynced": res.CRMSynced,
	}, "Contact received")
}

type revalidateRequest struct {
	Path string `json:"path"`
}

// revalidate is called by the CMS webhook after content changes. It drops
// cached CMS responses and forwards the path to the site renderer.
func (s *Server) revalidate(c *gin.Context) {
	if s.revalidateSecret == "" {
		respondError(c, http.StatusInternalServerError, "REVALIDATE_SECRET not configured", nil)
		return
	}

	secret := c.GetHeader(revalidateSecretHeader)
	if secret == "" {
		secret = c.Query("secret")
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.revalidateSecret)) != 1 {
		respondAppError(c, apperrors.NewUnauthorizedError("invalid revalidate secret"))
		return
	}

	path := c.Query("path")
	if path == "" && c.Request.ContentLength != 0 {
		var body revalidateRequest
		if err := c.ShouldBindJSON(&body); err == nil {
			path = body.Path
		}
	}
	path = strings.TrimSpace(path)
	if path == "" {
		respondError(c, http.StatusBadRequest, "path is required", nil)
		return
	}

	ctx := c.Request.Context()
	purged, err := s.content.PurgeCache(ctx)
	if err != nil {
		s.logger.Warn("cms cache purge failed", map[string]interface{}{
			"path":  path,
			"error": err,
		})
	}
	s.content.RevalidateRoute(ctx, path)

	c.JSON(http.StatusOK, gin.H{
		"revalidated": true,
		"path":        path,
		"purged":      purged,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}
