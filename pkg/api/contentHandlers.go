package api

import (
	"context"
	"github.com/oishi/portfolio/pkg/common"
	"github.com/oishi/portfolio/pkg/content"
	log "github.com/sirupsen/logrus"
	"net/http"
	"strconv"
	"strings"
)

type ContentCatalog interface {
	Articles(ctx context.Context, limit int) []content.Article
	Works(ctx context.Context) content.WorksResult
}

type TagMappingLoader interface {
	Load(ctx context.Context) content.TagMapping
}

// Articles

type articlesHandler struct {
	catalog ContentCatalog
}

func NewArticlesHandler(catalog ContentCatalog) *articlesHandler {
	return &articlesHandler{catalog: catalog}
}

func (handler *articlesHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if !allowGet(log, writer, request) {
		return
	}
	limit := queryInt(request, "limit")
	articles := handler.catalog.Articles(request.Context(), limit)
	log.Debugf("Serving %v articles. Limit: %v", len(articles), limit)
	common.WriteJson(log, writer, http.StatusOK, articles)
}

// Tag mapping

type tagMappingHandler struct {
	store TagMappingLoader
}

func NewTagMappingHandler(store TagMappingLoader) *tagMappingHandler {
	return &tagMappingHandler{store: store}
}

func (handler *tagMappingHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if !allowGet(log, writer, request) {
		return
	}
	mapping := handler.store.Load(request.Context())
	common.WriteJson(log, writer, http.StatusOK, struct {
		TagMapping content.TagMapping `json:"tagMapping"`
	}{TagMapping: mapping})
}

// Works

type worksHandler struct {
	catalog ContentCatalog
}

func NewWorksHandler(catalog ContentCatalog) *worksHandler {
	return &worksHandler{catalog: catalog}
}

func (handler *worksHandler) Handle(log *log.Entry, writer http.ResponseWriter, request *http.Request) {
	if !allowGet(log, writer, request) {
		return
	}
	result := handler.catalog.Works(request.Context())
	status := http.StatusOK
	if result.Error != "" {
		status = http.StatusInternalServerError
	}
	common.WriteJson(log, writer, status, result)
}

// Misconfigured endpoints answer every request with the same 500 error.

type misconfiguredHandler struct {
	message string
}

func NewMisconfiguredHandler(message string) *misconfiguredHandler {
	return &misconfiguredHandler{message: message}
}

func (handler *misconfiguredHandler) Handle(log *log.Entry, writer http.ResponseWriter, _ *http.Request) {
	log.Errorf("Endpoint is not configured: %v", handler.message)
	common.WriteError(log, writer, http.StatusInternalServerError, handler.message)
}

func allowGet(log *log.Entry, writer http.ResponseWriter, request *http.Request) bool {
	if request.Method == http.MethodGet || request.Method == http.MethodHead {
		return true
	}
	writer.Header().Set("Allow", "GET, HEAD")
	common.WriteError(log, writer, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// queryInt reads a base 10 non-negative integer parameter; anything else reads as 0.
func queryInt(request *http.Request, name string) int {
	value, err := strconv.Atoi(strings.TrimSpace(request.URL.Query().Get(name)))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
