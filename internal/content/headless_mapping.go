package content

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"site-integrations/internal/models"
)

type cmsEntry struct {
	ID         interface{}     `json:"id"`
	Attributes json.RawMessage `json:"attributes"`
}

type cmsPagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

type cmsListResponse struct {
	Data []cmsEntry `json:"data"`
	Meta struct {
		Pagination *cmsPagination `json:"pagination"`
	} `json:"meta"`
}

// total falls back to the page length when the CMS omits pagination meta.
func (r *cmsListResponse) total() int {
	if r.Meta.Pagination != nil && r.Meta.Pagination.Total > 0 {
		return r.Meta.Pagination.Total
	}
	return len(r.Data)
}

type postAttributes struct {
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	Author         string     `json:"author"`
	AuthorImage    string     `json:"authorImage"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Featured       bool       `json:"featured"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"publishedAt"`
	SEOTitle       string     `json:"seoTitle"`
	SEODescription string     `json:"seoDescription"`
	OGImage        string     `json:"ogImage"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type caseAttributes struct {
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ClientName   string          `json:"clientName"`
	Industry     string          `json:"industry"`
	Services     []string        `json:"services"`
	Technologies []string        `json:"technologies"`
	Challenge    string          `json:"challenge"`
	Solution     string          `json:"solution"`
	Results      json.RawMessage `json:"results"`
	Duration     string          `json:"duration"`
	Timeline     string          `json:"timeline"`
	Learnings    string          `json:"learnings"`
	HeroImage    string          `json:"heroImage"`
	Gallery      []string        `json:"gallery"`
	GSCBefore    string          `json:"gscBefore"`
	GSCAfter     string          `json:"gscAfter"`
	GA4Before    string          `json:"ga4Before"`
	GA4After     string          `json:"ga4After"`
	CWVBefore    string          `json:"cwvBefore"`
	CWVAfter     string          `json:"cwvAfter"`
	Featured     bool            `json:"featured"`
	Published    bool            `json:"published"`
	PublishedAt  *time.Time      `json:"publishedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type testimonialAttributes struct {
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	Photo     string    `json:"photo"`
	Rating    *int      `json:"rating"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func mapPost(e cmsEntry) (models.Post, error) {
	var a postAttributes
	if err := json.Unmarshal(e.Attributes, &a); err != nil {
		return models.Post{}, err
	}
	return models.Post{
		ID:             entryID(e.ID),
		Slug:           a.Slug,
		Title:          a.Title,
		Excerpt:        optional(a.Excerpt),
		Content:        a.Content,
		Author:         a.Author,
		AuthorImage:    optional(a.AuthorImage),
		Category:       a.Category,
		Tags:           nonNil(a.Tags),
		Featured:       a.Featured,
		Published:      a.Published,
		PublishedAt:    a.PublishedAt,
		SEOTitle:       optional(a.SEOTitle),
		SEODescription: optional(a.SEODescription),
		OGImage:        optional(a.OGImage),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}, nil
}

func mapCaseStudy(e cmsEntry) (models.CaseStudy, error) {
	var a caseAttributes
	if err := json.Unmarshal(e.Attributes, &a); err != nil {
		return models.CaseStudy{}, err
	}
	return models.CaseStudy{
		ID:           entryID(e.ID),
		Slug:         a.Slug,
		Title:        a.Title,
		Description:  a.Description,
		ClientName:   optional(a.ClientName),
		Industry:     a.Industry,
		Services:     nonNil(a.Services),
		Technologies: nonNil(a.Technologies),
		Challenge:    a.Challenge,
		Solution:     a.Solution,
		Results:      rawResults(a.Results),
		Duration:     a.Duration,
		Timeline:     optional(a.Timeline),
		Learnings:    optional(a.Learnings),
		HeroImage:    optional(a.HeroImage),
		Gallery:      nonNil(a.Gallery),
		GSCBefore:    optional(a.GSCBefore),
		GSCAfter:     optional(a.GSCAfter),
		GA4Before:    optional(a.GA4Before),
		GA4After:     optional(a.GA4After),
		CWVBefore:    optional(a.CWVBefore),
		CWVAfter:     optional(a.CWVAfter),
		Featured:     a.Featured,
		Published:    a.Published,
		PublishedAt:  a.PublishedAt,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}, nil
}

func mapTestimonial(e cmsEntry) (models.Testimonial, error) {
	var a testimonialAttributes
	if err := json.Unmarshal(e.Attributes, &a); err != nil {
		return models.Testimonial{}, err
	}
	return models.Testimonial{
		ID:        entryID(e.ID),
		Name:      a.Name,
		Role:      a.Role,
		Company:   a.Company,
		Quote:     a.Quote,
		Photo:     optional(a.Photo),
		Rating:    a.Rating,
		Industry:  optional(a.Industry),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}, nil
}

func entryID(id interface{}) string {
	switch v := id.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rawResults keeps results as a JSON document. A JSON string is unwrapped
// since some CMS setups store the document as text.
func rawResults(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
