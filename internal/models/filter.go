// internal/models/filter.go
package models

const (
	DefaultLimit     = 10
	DefaultSortBy    = "publishedAt"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
	DefaultSortOrder = SortOrderDesc
)

// FilterSpec is the backend-agnostic query shared by every content read.
// Empty strings and nil pointers mean "no constraint on that field".
type FilterSpec struct {
	Category  string `json:"category,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Search    string `json:"search,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Published *bool  `json:"published,omitempty"`
	Featured  *bool  `json:"featured,omitempty"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

// Normalize returns a copy with defaults applied.
func (f FilterSpec) Normalize() FilterSpec {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortOrder != SortOrderAsc && f.SortOrder != SortOrderDesc {
		f.SortOrder = DefaultSortOrder
	}
	return f
}

// Page is the 1-based page that contains Offset.
func (f FilterSpec) Page() int {
	n := f.Normalize()
	return n.Offset/n.Limit + 1
}

// PublishedOrDefault treats an absent published flag as true.
func (f FilterSpec) PublishedOrDefault() bool {
	if f.Published == nil {
		return true
	}
	return *f.Published
}

func BoolPtr(b bool) *bool {
	return &b
}

func StringPtr(s string) *string {
	return &s
}
