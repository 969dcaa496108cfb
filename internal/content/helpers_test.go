package content

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"site-integrations/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func observedLogger(level zapcore.Level) (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.NewZapAdapter(zap.New(core)), logs
}

// fakeCMS serves a collection from in-memory attribute maps and applies the
// subset of the filter grammar the backend emits.
type fakeCMS struct {
	t           *testing.T
	server      *httptest.Server
	collections map[string][]map[string]interface{}
	requests    int32

	mu          sync.Mutex
	lastQuery   map[string][]string
	lastHeaders http.Header
	status      int
	rawBody     string
	omitMeta    bool
}

func newFakeCMS(t *testing.T) *fakeCMS {
	f := &fakeCMS{t: t, collections: map[string][]map[string]interface{}{}}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeCMS) URL() string {
	return f.server.URL
}

func (f *fakeCMS) Requests() int {
	return int(atomic.LoadInt32(&f.requests))
}

func (f *fakeCMS) LastQuery() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

func (f *fakeCMS) LastHeaders() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastHeaders
}

func (f *fakeCMS) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.requests, 1)
	q := r.URL.Query()

	f.mu.Lock()
	f.lastQuery = q
	f.lastHeaders = r.Header.Clone()
	status, rawBody, omitMeta := f.status, f.rawBody, f.omitMeta
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"status":500,"message":"boom"}}`))
		return
	}
	if rawBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rawBody))
		return
	}

	items := f.collections[r.URL.Path]
	var matched []map[string]interface{}
	for _, item := range items {
		if matches(item, q) {
			matched = append(matched, item)
		}
	}

	if s := q.Get("sort"); s != "" {
		parts := strings.SplitN(s, ":", 2)
		field, desc := parts[0], len(parts) == 2 && parts[1] == "desc"
		sort.SliceStable(matched, func(i, j int) bool {
			a, _ := matched[i][field].(string)
			b, _ := matched[j][field].(string)
			if desc {
				return a > b
			}
			return a < b
		})
	}

	total := len(matched)
	pageSize, _ := strconv.Atoi(q.Get("pagination[pageSize]"))
	page, _ := strconv.Atoi(q.Get("pagination[page]"))
	if pageSize <= 0 {
		pageSize = 25
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]map[string]interface{}, 0, end-start)
	for _, item := range matched[start:end] {
		attrs := map[string]interface{}{}
		for k, v := range item {
			if k != "id" {
				attrs[k] = v
			}
		}
		data = append(data, map[string]interface{}{"id": item["id"], "attributes": attrs})
	}

	body := map[string]interface{}{"data": data}
	if !omitMeta {
		body["meta"] = map[string]interface{}{
			"pagination": map[string]interface{}{
				"page":      page,
				"pageSize":  pageSize,
				"pageCount": (total + pageSize - 1) / pageSize,
				"total":     total,
			},
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func matches(item map[string]interface{}, q map[string][]string) bool {
	for key, values := range q {
		if len(values) == 0 || !strings.HasPrefix(key, "filters[") || strings.HasPrefix(key, "filters[$or]") {
			continue
		}
		want := values[0]
		inner := strings.TrimPrefix(key, "filters[")
		field := inner[:strings.Index(inner, "]")]
		op := inner[strings.Index(inner, "[")+1 : len(inner)-1]

		switch op {
		case "$eq":
			if stringify(item[field]) != want {
				return false
			}
		case "$contains":
			tags, _ := item[field].([]string)
			found := false
			for _, tag := range tags {
				if tag == want {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}

	search := ""
	var fields []string
	for key, values := range q {
		if strings.HasPrefix(key, "filters[$or]") {
			search = strings.ToLower(values[0])
			parts := strings.Split(key, "][")
			fields = append(fields, parts[2])
		}
	}
	if search != "" {
		for _, field := range fields {
			if s, ok := item[field].(string); ok && strings.Contains(strings.ToLower(s), search) {
				return true
			}
		}
		return false
	}
	return true
}

func stringify(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	default:
		return ""
	}
}

func postFixture(id int, slug, category, publishedAt string, tags ...string) map[string]interface{} {
	if tags == nil {
		tags = []string{}
	}
	return map[string]interface{}{
		"id":          id,
		"slug":        slug,
		"title":       "Post " + slug,
		"excerpt":     "Resumo de " + slug,
		"content":     "Conteúdo completo de " + slug,
		"author":      "Equipe",
		"category":    category,
		"tags":        tags,
		"featured":    false,
		"published":   true,
		"publishedAt": publishedAt,
		"createdAt":   "2024-01-01T00:00:00Z",
		"updatedAt":   "2024-01-02T00:00:00Z",
	}
}

func seoFixture() []map[string]interface{} {
	return []map[string]interface{}{
		postFixture(1, "guia-core-web-vitals", "SEO Avançado", "2024-01-10T12:00:00Z", "cwv"),
		postFixture(2, "marketing-de-conteudo", "Marketing", "2024-04-01T12:00:00Z"),
		postFixture(3, "schema-markup", "SEO Avançado", "2024-03-05T12:00:00Z", "schema", "seo"),
		postFixture(4, "link-building", "SEO Avançado", "2024-02-01T12:00:00Z", "seo"),
		postFixture(5, "email-marketing", "Marketing", "2024-05-01T12:00:00Z"),
	}
}
