package content

import (
	"context"
	log "github.com/sirupsen/logrus"
	"sort"
	"strings"
)

const markdownExtension = ".md"

type ArticleSource interface {
	FetchArticleTree(ctx context.Context) (*ArticleTree, error)
}

type ArticleService struct {
	source   ArticleSource
	mappings *TagMappingStore
}

func NewArticleService(source ArticleSource, mappings *TagMappingStore) *ArticleService {
	return &ArticleService{
		source:   source,
		mappings: mappings,
	}
}

// FetchArticles never fails: upstream errors are logged and give an empty list.
func (service *ArticleService) FetchArticles(ctx context.Context, limit int) []Article {
	articles, err := service.LoadArticles(ctx)
	if err != nil {
		log.Errorf("Fetching articles error. Reason: %v", err)
		return []Article{}
	}
	return LimitArticles(articles, limit)
}

// LoadArticles returns every published article, newest first, or the upstream error.
func (service *ArticleService) LoadArticles(ctx context.Context) ([]Article, error) {
	tree, err := service.source.FetchArticleTree(ctx)
	if err != nil {
		return nil, err
	}

	if tree.HasTagMapping && !service.mappings.Loaded() {
		mapping, err := ParseTagMapping(tree.TagMappingText)
		if err != nil {
			log.Warnf("Tag mapping file is not readable. Reason: %v", err)
		} else if service.mappings.Prime(mapping) {
			log.Debugf("Tag mapping primed with %v entries", len(mapping))
		}
	}
	mapping := service.mappings.Load(ctx)

	articles := BuildArticles(tree.Entries, mapping)
	log.Debugf("Fetched %v articles", len(articles))
	return articles, nil
}

// BuildArticles turns Markdown blobs into published articles sorted by publish date, newest first.
func BuildArticles(entries []TreeEntry, mapping TagMapping) []Article {
	articles := make([]Article, 0, len(entries))
	for _, entry := range entries {
		if entry.Type != "blob" || !strings.HasSuffix(entry.Name, markdownExtension) {
			continue
		}
		text := entry.Text()
		if text == "" {
			continue
		}

		frontMatter, err := ParseFrontMatter(text)
		if err != nil {
			log.Warnf("Skip article %v. Front matter parsing error: %v", entry.Name, err)
			continue
		}
		article := NewArticle(strings.TrimSuffix(entry.Name, markdownExtension), frontMatter)
		if !article.Published {
			continue
		}
		article.Topics = TransformTopics(article.Topics, mapping)
		articles = append(articles, article)
	}
	SortByPublishedAt(articles, false)
	return articles
}

// SortByPublishedAt sorts in place; articles without a readable date count as the oldest.
func SortByPublishedAt(articles []Article, ascending bool) {
	sort.SliceStable(articles, func(i, j int) bool {
		left, right := articles[i].PublishedTime(), articles[j].PublishedTime()
		if ascending {
			return left.Before(right)
		}
		return left.After(right)
	})
}

func LimitArticles(articles []Article, limit int) []Article {
	if limit > 0 && limit < len(articles) {
		return articles[:limit]
	}
	return articles
}
