// internal/models/content.go
package models

import "time"

type Post struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Excerpt        *string    `json:"excerpt"`
	Content        string     `json:"content"`
	Author         string     `json:"author"`
	AuthorImage    *string    `json:"authorImage"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags"`
	Featured       bool       `json:"featured"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"publishedAt"`
	SEOTitle       *string    `json:"seoTitle"`
	SEODescription *string    `json:"seoDescription"`
	OGImage        *string    `json:"ogImage"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type CaseStudy struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ClientName   *string  `json:"clientName"`
	Industry     string   `json:"industry"`
	Services     []string `json:"services"`
	Technologies []string `json:"technologies"`
	Challenge    string   `json:"challenge"`
	Solution     string   `json:"solution"`

	// Results is caller-defined JSON, passed through untouched.
	Results   string   `json:"results"`
	Duration  string   `json:"duration"`
	Timeline  *string  `json:"timeline"`
	Learnings *string  `json:"learnings"`
	HeroImage *string  `json:"heroImage"`
	Gallery   []string `json:"gallery"`

	GSCBefore *string `json:"gscBefore"`
	GSCAfter  *string `json:"gscAfter"`
	GA4Before *string `json:"ga4Before"`
	GA4After  *string `json:"ga4After"`
	CWVBefore *string `json:"cwvBefore"`
	CWVAfter  *string `json:"cwvAfter"`

	Featured    bool       `json:"featured"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company"`
	Quote     string    `json:"quote"`
	Photo     *string   `json:"photo"`
	Rating    *int      `json:"rating"`
	Industry  *string   `json:"industry"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
