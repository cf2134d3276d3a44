package main

import (
	"encoding/json"
	"github.com/oishi/portfolio/pkg/content"
	ctx "github.com/oishi/portfolio/pkg/context"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var syncLimit int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch articles and works once and print a summary",
	Long: `Fetch articles from GitHub and works from microCMS with the configured
credentials and print what came back. Useful to check tokens and API keys.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncLimit, "limit", 0, "Print at most this many articles (0 prints all)")
}

type syncSummary struct {
	Articles      []content.Article `json:"articles"`
	ArticlesCount int               `json:"articlesCount"`
	ArticlesError string            `json:"articlesError,omitempty"`
	WorksCount    int               `json:"worksCount"`
	WorksError    string            `json:"worksError,omitempty"`
	WorkTitles    []string          `json:"workTitles"`
}

func runSync(cmd *cobra.Command, _ []string) error {
	config, err := prepare()
	if err != nil {
		return err
	}

	gateway := ctx.NewContext(config, nil)
	gateway.SetupContent()
	catalog := gateway.Catalog()

	var summary syncSummary
	var works content.WorksResult
	var group errgroup.Group
	group.Go(func() error {
		articles := gateway.Articles()
		if articles == nil {
			summary.Articles = []content.Article{}
			summary.ArticlesError = "GitHub token is not configured"
			return nil
		}
		summary.Articles = articles.FetchArticles(cmd.Context(), syncLimit)
		return nil
	})
	group.Go(func() error {
		works = catalog.Works(cmd.Context())
		return nil
	})
	_ = group.Wait()

	summary.ArticlesCount = len(summary.Articles)
	summary.WorksCount = len(works.Contents)
	summary.WorksError = works.Error
	summary.WorkTitles = make([]string, 0, len(works.Contents))
	for _, work := range works.Contents {
		summary.WorkTitles = append(summary.WorkTitles, work.Title)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}
