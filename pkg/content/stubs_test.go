package content

import (
	"context"
	"errors"
)

type mapCache struct {
	mapping  TagMapping
	articles []Article
	works    []Work
}

func (cache *mapCache) FindTagMapping() (TagMapping, bool) {
	return cache.mapping, cache.mapping != nil
}

func (cache *mapCache) PutTagMapping(mapping TagMapping) {
	cache.mapping = mapping
}

func (cache *mapCache) RemoveTagMapping() {
	cache.mapping = nil
}

func (cache *mapCache) FindArticles() ([]Article, bool) {
	return cache.articles, cache.articles != nil
}

func (cache *mapCache) PutArticles(articles []Article) {
	cache.articles = articles
}

func (cache *mapCache) FindWorks() ([]Work, bool) {
	return cache.works, cache.works != nil
}

func (cache *mapCache) PutWorks(works []Work) {
	cache.works = works
}

func (cache *mapCache) FlushContent() {
	cache.articles = nil
	cache.works = nil
}

type stubMappingLoader struct {
	calls   int
	mapping TagMapping
	err     error
}

func (loader *stubMappingLoader) LoadTagMapping(context.Context) (TagMapping, error) {
	loader.calls++
	return loader.mapping, loader.err
}

type stubArticleSource struct {
	calls int
	tree  *ArticleTree
	err   error
}

func (source *stubArticleSource) FetchArticleTree(context.Context) (*ArticleTree, error) {
	source.calls++
	if source.err != nil {
		return nil, source.err
	}
	return source.tree, nil
}

type stubWorksLoader struct {
	calls int
	works []Work
	err   error
}

func (loader *stubWorksLoader) LoadWorks(context.Context) ([]Work, error) {
	loader.calls++
	return loader.works, loader.err
}

var errUpstream = errors.New("upstream unavailable")
