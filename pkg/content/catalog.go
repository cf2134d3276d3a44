package content

import (
	"context"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type ArticleLoader interface {
	LoadArticles(ctx context.Context) ([]Article, error)
}

type WorksLoader interface {
	LoadWorks(ctx context.Context) ([]Work, error)
}

type CatalogCachePort interface {
	FindArticles() ([]Article, bool)
	PutArticles(articles []Article)
	FindWorks() ([]Work, bool)
	PutWorks(works []Work)
	FlushContent()
}

// Catalog keeps the last successful article and works lists. Failed loads are never cached.
type Catalog struct {
	articles ArticleLoader
	works    WorksLoader
	cache    CatalogCachePort
}

func NewCatalog(articles ArticleLoader, works WorksLoader, cache CatalogCachePort) *Catalog {
	return &Catalog{
		articles: articles,
		works:    works,
		cache:    cache,
	}
}

func (catalog *Catalog) Articles(ctx context.Context, limit int) []Article {
	if articles, found := catalog.cache.FindArticles(); found {
		return LimitArticles(articles, limit)
	}
	if catalog.articles == nil {
		return []Article{}
	}
	articles, err := catalog.articles.LoadArticles(ctx)
	if err != nil {
		log.Errorf("Fetching articles error. Reason: %v", err)
		return []Article{}
	}
	catalog.cache.PutArticles(articles)
	return LimitArticles(articles, limit)
}

func (catalog *Catalog) Works(ctx context.Context) WorksResult {
	if works, found := catalog.cache.FindWorks(); found {
		return WorksResult{Contents: works}
	}
	if catalog.works == nil {
		return WorksResult{Contents: []Work{}, Error: "Works source is not configured"}
	}
	works, err := catalog.works.LoadWorks(ctx)
	if err != nil {
		log.Errorf("Fetching works error. Reason: %v", err)
		return WorksResult{Contents: []Work{}, Error: "Failed to fetch works"}
	}
	catalog.cache.PutWorks(works)
	return WorksResult{Contents: works}
}

// Refresh reloads both lists in parallel. A list whose load fails keeps its previous cached value
// and does not cancel the other load.
func (catalog *Catalog) Refresh(ctx context.Context) error {
	var group errgroup.Group
	if catalog.articles != nil {
		group.Go(func() error {
			articles, err := catalog.articles.LoadArticles(ctx)
			if err != nil {
				return err
			}
			catalog.cache.PutArticles(articles)
			log.Debugf("Catalog refreshed %v articles", len(articles))
			return nil
		})
	}
	if catalog.works != nil {
		group.Go(func() error {
			works, err := catalog.works.LoadWorks(ctx)
			if err != nil {
				return err
			}
			catalog.cache.PutWorks(works)
			log.Debugf("Catalog refreshed %v works", len(works))
			return nil
		})
	}
	return group.Wait()
}

func (catalog *Catalog) Invalidate() {
	catalog.cache.FlushContent()
}
