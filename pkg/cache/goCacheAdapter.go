package cache

import (
	"github.com/oishi/portfolio/pkg/content"
	"github.com/patrickmn/go-cache"
	"time"
)

const (
	tagMappingKey = "tag-mapping"
	articlesKey   = "articles"
	worksKey      = "works"
)

type goCacheContentAdapter struct {
	contentCache *cache.Cache
}

func NewGoCacheContentProvider(expirationTime time.Duration, evictScheduleTime time.Duration) *goCacheContentAdapter {
	contentCache := cache.New(expirationTime, evictScheduleTime)
	return &goCacheContentAdapter{
		contentCache: contentCache,
	}
}

// MappingCachePort implementation. The mapping lives for the whole process.

func (adapter *goCacheContentAdapter) FindTagMapping() (content.TagMapping, bool) {
	mapping, found := adapter.contentCache.Get(tagMappingKey)
	if found {
		return mapping.(content.TagMapping), true
	} else {
		return nil, false
	}
}

func (adapter *goCacheContentAdapter) PutTagMapping(mapping content.TagMapping) {
	adapter.contentCache.Set(tagMappingKey, mapping, cache.NoExpiration)
}

func (adapter *goCacheContentAdapter) RemoveTagMapping() {
	adapter.contentCache.Delete(tagMappingKey)
}

// CatalogCachePort implementation

func (adapter *goCacheContentAdapter) FindArticles() ([]content.Article, bool) {
	articles, found := adapter.contentCache.Get(articlesKey)
	if found {
		return articles.([]content.Article), true
	} else {
		return nil, false
	}
}

func (adapter *goCacheContentAdapter) PutArticles(articles []content.Article) {
	adapter.contentCache.Set(articlesKey, articles, cache.DefaultExpiration)
}

func (adapter *goCacheContentAdapter) FindWorks() ([]content.Work, bool) {
	works, found := adapter.contentCache.Get(worksKey)
	if found {
		return works.([]content.Work), true
	} else {
		return nil, false
	}
}

func (adapter *goCacheContentAdapter) PutWorks(works []content.Work) {
	adapter.contentCache.Set(worksKey, works, cache.DefaultExpiration)
}

// FlushContent drops cached lists but keeps the tag mapping.
func (adapter *goCacheContentAdapter) FlushContent() {
	adapter.contentCache.Delete(articlesKey)
	adapter.contentCache.Delete(worksKey)
}
