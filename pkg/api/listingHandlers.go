package api

import (
	"github.com/oishi/portfolio/pkg/common"
	"github.com/oishi/portfolio/pkg/content"
	"github.com/oishi/portfolio/pkg/listing"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strings"
)

const excerptLength = 120

type blogListing struct {
	listing.Page[content.Article]
	Topic    string                 `json:"topic"`
	Type     string                 `json:"type"`
	Query    string                 `json:"query,omitempty"`
	Topics   []string               `json:"topics"`
	Rankings []listing.TopicRanking `json:"rankings"`
}

type blogListingHandler struct {
	catalog ContentCatalog
}

func NewBlogListingHandler(catalog ContentCatalog) *blogListingHandler {
	return &blogListingHandler{catalog: catalog}
}

// Handle filters by type, then topic, then the search query, newest first.
// The topic list and rankings always describe the whole article set.
func (handler *blogListingHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if !allowGet(log, writer, request) {
		return
	}
	query := request.URL.Query()
	topic := queryOr(query.Get("topic"), listing.AllFilter)
	articleType := strings.ToLower(queryOr(query.Get("type"), listing.AllTypes))
	search := query.Get("q")

	articles := handler.catalog.Articles(request.Context(), 0)
	selected := listing.FilterArticlesByType(articles, articleType)
	selected = listing.FilterArticlesByTopic(selected, topic)
	selected = listing.SearchArticles(selected, search)
	selected = listing.SortArticlesByDate(selected, false)

	common.WriteJson(log, writer, http.StatusOK, blogListing{
		Page:     listing.BuildPage(selected, queryInt(request, "page")),
		Topic:    topic,
		Type:     articleType,
		Query:    search,
		Topics:   listing.TopicsWithRanking(articles),
		Rankings: listing.GetTopicRankings(articles),
	})
}

type workCard struct {
	content.Work
	Excerpt string          `json:"excerpt"`
	Gallery []content.Image `json:"gallery"`
}

type worksListing struct {
	listing.Page[workCard]
	Category   string   `json:"category"`
	Categories []string `json:"categories"`
	Error      string   `json:"error,omitempty"`
}

type worksListingHandler struct {
	catalog ContentCatalog
}

func NewWorksListingHandler(catalog ContentCatalog) *worksListingHandler {
	return &worksListingHandler{catalog: catalog}
}

func (handler *worksListingHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if !allowGet(log, writer, request) {
		return
	}
	category := queryOr(request.URL.Query().Get("category"), listing.AllFilter)

	result := handler.catalog.Works(request.Context())
	selected := listing.FilterWorksByCategory(result.Contents, category)
	cards := make([]workCard, len(selected))
	for i := range selected {
		cards[i] = workCard{
			Work:    selected[i],
			Excerpt: content.Excerpt(&selected[i], excerptLength),
			Gallery: listing.ImageArray(selected[i]),
		}
	}

	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusInternalServerError
	}
	common.WriteJson(log, writer, status, worksListing{
		Page:       listing.BuildPage(cards, queryInt(request, "page")),
		Category:   category,
		Categories: listing.ExtractCategories(result.Contents),
		Error:      result.Error,
	})
}

func queryOr(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
