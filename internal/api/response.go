package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "site-integrations/internal/common/errors"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
	Code       string      `json:"code,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func newPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func respondOK(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{Success: true, Data: data, Message: message})
}

func respondPage(c *gin.Context, data interface{}, p *Pagination, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: p, Message: message})
}

func respondError(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message, Details: details})
}

// respondAppError maps a StandardError to its status. Internal details are
// only exposed for request errors.
func respondAppError(c *gin.Context, err error) {
	se := apperrors.AsStandard(err)
	status := apperrors.HTTPStatus(se.Code)
	body := Envelope{Success: false, Error: se.Message, Code: string(se.Code)}
	if status < http.StatusInternalServerError {
		if fields, ok := se.Metadata["errors"]; ok {
			body.Details = fields
		} else if se.Details != "" {
			body.Details = se.Details
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}
