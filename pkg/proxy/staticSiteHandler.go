package proxy

import (
	"github.com/sirupsen/logrus"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const notFoundPage = "404.html"

// StaticSiteHandler serves an exported site: "/works" is looked up as "/works",
// "/works.html" and "/works/index.html", in that order.
type StaticSiteHandler struct {
	RootDir string
	files   http.Handler
}

func NewStaticSiteHandler(rootDir string) *StaticSiteHandler {
	return &StaticSiteHandler{
		RootDir: rootDir,
		files:   http.FileServer(http.Dir(rootDir)),
	}
}

func (handler *StaticSiteHandler) Handle(log *logrus.Entry, writer http.ResponseWriter, request *http.Request) {
	requestPath := path.Clean("/" + request.URL.Path)
	if resolved, ok := handler.resolve(requestPath); ok {
		if resolved != requestPath {
			request = request.Clone(request.Context())
			request.URL.Path = resolved
		}
		handler.files.ServeHTTP(writer, request)
		return
	}

	log.Debugf("Static file not found: %v", requestPath)
	notFound := filepath.Join(handler.RootDir, notFoundPage)
	if content, err := os.ReadFile(notFound); err == nil {
		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write(content)
		return
	}
	http.NotFound(writer, request)
}

func (handler *StaticSiteHandler) resolve(requestPath string) (string, bool) {
	candidates := []string{requestPath}
	if !strings.HasSuffix(requestPath, "/") && path.Ext(requestPath) == "" {
		candidates = append(candidates, requestPath+".html")
	}
	for _, candidate := range candidates {
		info, err := os.Stat(filepath.Join(handler.RootDir, filepath.FromSlash(candidate)))
		if err != nil {
			continue
		}
		if !info.IsDir() {
			return candidate, true
		}
		if _, err := os.Stat(filepath.Join(handler.RootDir, filepath.FromSlash(candidate), "index.html")); err == nil {
			return candidate, true
		}
	}
	return "", false
}
