package api

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/go-cmp/cmp"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/oishi/portfolio/pkg/content"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"net/http/httptest"
	"net/url"
	"testing"
)

type stubCatalog struct {
	articles  []content.Article
	works     content.WorksResult
	lastLimit int
}

func (catalog *stubCatalog) Articles(_ context.Context, limit int) []content.Article {
	catalog.lastLimit = limit
	return content.LimitArticles(catalog.articles, limit)
}

func (catalog *stubCatalog) Works(context.Context) content.WorksResult {
	return catalog.works
}

type stubMappingLoader content.TagMapping

func (loader stubMappingLoader) Load(context.Context) content.TagMapping {
	return content.TagMapping(loader)
}

func get(handler common.RequestHandler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.Handle(logrus.NewEntry(logrus.StandardLogger()), w, httptest.NewRequest("GET", target, nil))
	return w
}

func article(slug string, articleType content.ArticleType, publishedAt string, topics ...string) content.Article {
	return content.Article{
		Slug:        slug,
		Title:       "Title " + slug,
		Type:        articleType,
		Topics:      topics,
		Published:   true,
		PublishedAt: publishedAt,
	}
}

func slugs(articles []content.Article) []string {
	result := make([]string, len(articles))
	for i, item := range articles {
		result[i] = item.Slug
	}
	return result
}

func TestArticlesHandlerPassesLimit(t *testing.T) {
	catalog := &stubCatalog{articles: []content.Article{
		article("a", content.Tech, "2024-03-01"),
		article("b", content.Tech, "2024-02-01"),
		article("c", content.Idea, "2024-01-01"),
	}}

	w := get(NewArticlesHandler(catalog), "/api/github/articles?limit=2")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 2, catalog.lastLimit)
	var body []content.Article
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	if diff := cmp.Diff([]string{"a", "b"}, slugs(body)); diff != "" {
		t.Fatalf("Unexpected articles (-want +got):\n%v", diff)
	}
}

func TestArticlesHandlerIgnoresBadLimit(t *testing.T) {
	catalog := &stubCatalog{articles: []content.Article{}}

	w := get(NewArticlesHandler(catalog), "/api/github/articles?limit=abc")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, 0, catalog.lastLimit)
	assert.Equal(t, "[]", w.Body.String())
}

func TestQueryIntIsDecimal(t *testing.T) {
	cases := map[string]int{
		"010":  10,
		"08":   8,
		" 12 ": 12,
		"0x10": 0,
		"-3":   0,
		"":     0,
	}
	for raw, expected := range cases {
		request := httptest.NewRequest("GET", "/api/blog?page="+url.QueryEscape(raw), nil)
		assert.Equal(t, expected, queryInt(request, "page"), "page=%q", raw)
	}
}

func TestArticlesHandlerRejectsPost(t *testing.T) {
	w := httptest.NewRecorder()
	NewArticlesHandler(&stubCatalog{}).Handle(logrus.NewEntry(logrus.StandardLogger()), w, httptest.NewRequest("POST", "/api/github/articles", nil))
	assert.Equal(t, 405, w.Code)
}

func TestTagMappingHandler(t *testing.T) {
	w := get(NewTagMappingHandler(stubMappingLoader{"js": "JavaScript"}), "/api/github/tags-mapping")

	assert.Equal(t, 200, w.Code)
	assert.JSONEq(t, `{"tagMapping":{"js":"JavaScript"}}`, w.Body.String())
}

func TestWorksHandler(t *testing.T) {
	catalog := &stubCatalog{works: content.WorksResult{Contents: []content.Work{{Id: "w1", Title: "Site"}}}}

	w := get(NewWorksHandler(catalog), "/api/works")

	assert.Equal(t, 200, w.Code)
	var body content.WorksResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "w1", body.Contents[0].Id)
	assert.Empty(t, body.Error)
}

func TestWorksHandlerFailure(t *testing.T) {
	catalog := &stubCatalog{works: content.WorksResult{Contents: []content.Work{}, Error: "Failed to fetch works"}}

	w := get(NewWorksHandler(catalog), "/api/works")

	assert.Equal(t, 500, w.Code)
	assert.JSONEq(t, `{"contents":[],"error":"Failed to fetch works"}`, w.Body.String())
}

func TestMisconfiguredHandler(t *testing.T) {
	w := get(NewMisconfiguredHandler("microCMS API key is not configured"), "/api/works")

	assert.Equal(t, 500, w.Code)
	assert.JSONEq(t, `{"error":"microCMS API key is not configured"}`, w.Body.String())
}

type blogListingBody struct {
	Items      []content.Article `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	TotalItems int               `json:"totalItems"`
	Window     []int             `json:"window"`
	Topic      string            `json:"topic"`
	Type       string            `json:"type"`
	Topics     []string          `json:"topics"`
	Rankings   []struct {
		Name string `json:"name"`
		Rank int    `json:"rank"`
	} `json:"rankings"`
}

func blogCatalog() *stubCatalog {
	return &stubCatalog{articles: []content.Article{
		article("go-1", content.Tech, "2024-01-01", "Go"),
		article("go-2", content.Tech, "2024-03-01", "Go", "AWS"),
		article("idea-1", content.Idea, "2024-02-01", "Design"),
	}}
}

func TestBlogListingFiltersAndSorts(t *testing.T) {
	w := get(NewBlogListingHandler(blogCatalog()), "/api/blog?topic=Go&type=tech")

	assert.Equal(t, 200, w.Code)
	var body blogListingBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"go-2", "go-1"}, slugs(body.Items))
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 1, body.TotalPages)
	assert.Equal(t, 2, body.TotalItems)
	assert.Equal(t, "Go", body.Topic)
	assert.Equal(t, "tech", body.Type)
	assert.Equal(t, []string{"All", "Go", "AWS", "Design"}, body.Topics)
	assert.Equal(t, "Go", body.Rankings[0].Name)
	assert.Equal(t, 1, body.Rankings[0].Rank)
}

func TestBlogListingDefaultsToEverything(t *testing.T) {
	w := get(NewBlogListingHandler(blogCatalog()), "/api/blog")

	var body blogListingBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"go-2", "idea-1", "go-1"}, slugs(body.Items))
	assert.Equal(t, "All", body.Topic)
	assert.Equal(t, "all", body.Type)
}

func TestBlogListingSearch(t *testing.T) {
	w := get(NewBlogListingHandler(blogCatalog()), "/api/blog?q=aws")

	var body blogListingBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"go-2"}, slugs(body.Items))
}

func TestBlogListingPaginates(t *testing.T) {
	catalog := &stubCatalog{}
	for i := 1; i <= 30; i++ {
		catalog.articles = append(catalog.articles, article(fmt.Sprintf("a%02d", i), content.Tech, fmt.Sprintf("2024-01-%02d", i)))
	}

	w := get(NewBlogListingHandler(catalog), "/api/blog?page=3")

	var body blogListingBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Page)
	assert.Equal(t, 3, body.TotalPages)
	assert.Len(t, body.Items, 6)
	assert.Equal(t, "a06", body.Items[0].Slug)
	assert.Equal(t, []int{1, 2, 3}, body.Window)

	w = get(NewBlogListingHandler(catalog), "/api/blog?page=9")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, "a30", body.Items[0].Slug)

	w = get(NewBlogListingHandler(catalog), "/api/blog?page=03")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Page)
	assert.Equal(t, "a06", body.Items[0].Slug)

	w = get(NewBlogListingHandler(catalog), "/api/blog?page=010")
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Page)
}

func TestWorksListing(t *testing.T) {
	first, second := 1, 2
	web := content.Category{Id: "web", Title: "Web", Displaynum: &second}
	app := content.Category{Id: "app", Title: "App", Displaynum: &first}
	catalog := &stubCatalog{works: content.WorksResult{Contents: []content.Work{
		{Id: "w1", Title: "Site", Body: "<p>Hello <b>world</b></p><script>x()</script>", Category: []content.Category{web},
			Image: &content.Image{Url: "https://images/cover.png"}, Images: []content.Image{{Url: "https://images/1.png"}}},
		{Id: "w2", Title: "Mobile", Category: []content.Category{app}},
	}}}

	w := get(NewWorksListingHandler(catalog), "/api/works/listing?category=Web")

	assert.Equal(t, 200, w.Code)
	var body struct {
		Items []struct {
			Id      string          `json:"id"`
			Excerpt string          `json:"excerpt"`
			Gallery []content.Image `json:"gallery"`
		} `json:"items"`
		TotalItems int      `json:"totalItems"`
		Category   string   `json:"category"`
		Categories []string `json:"categories"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"All", "App", "Web"}, body.Categories)
	assert.Equal(t, "Web", body.Category)
	assert.Equal(t, 1, body.TotalItems)
	assert.Equal(t, "w1", body.Items[0].Id)
	assert.Equal(t, "Hello world", body.Items[0].Excerpt)
	assert.Len(t, body.Items[0].Gallery, 2)
	assert.Equal(t, "https://images/cover.png", body.Items[0].Gallery[0].Url)
}

func TestWorksListingReportsUpstreamFailure(t *testing.T) {
	catalog := &stubCatalog{works: content.WorksResult{Contents: []content.Work{}, Error: "Failed to fetch works"}}

	w := get(NewWorksListingHandler(catalog), "/api/works/listing")

	assert.Equal(t, 500, w.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch works", body["error"])
	assert.Equal(t, []interface{}{"All"}, body["categories"])
}
