package listing

import (
	"github.com/oishi/portfolio/pkg/content"
	"sort"
	"strings"
)

// AllFilter selects every item in topic, type and category filters.
const AllFilter = "All"

type TopicRanking struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Rank  int    `json:"rank"`
}

// ExtractTopics lists distinct topics in case-insensitive alphabetical order behind the All entry.
func ExtractTopics(articles []content.Article) []string {
	seen := make(map[string]bool)
	topics := make([]string, 0)
	for _, article := range articles {
		for _, topic := range article.Topics {
			if !seen[topic] {
				seen[topic] = true
				topics = append(topics, topic)
			}
		}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return lessFold(topics[i], topics[j])
	})
	return append([]string{AllFilter}, topics...)
}

// GetTopicRankings counts topics and ranks them by count, ties sharing a rank (1, 1, 3).
func GetTopicRankings(articles []content.Article) []TopicRanking {
	counts := make(map[string]int)
	for _, article := range articles {
		for _, topic := range article.Topics {
			counts[topic]++
		}
	}

	rankings := make([]TopicRanking, 0, len(counts))
	for name, count := range counts {
		rankings = append(rankings, TopicRanking{Name: name, Count: count})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Count != rankings[j].Count {
			return rankings[i].Count > rankings[j].Count
		}
		return lessFold(rankings[i].Name, rankings[j].Name)
	})

	for i := range rankings {
		if i > 0 && rankings[i].Count == rankings[i-1].Count {
			rankings[i].Rank = rankings[i-1].Rank
		} else {
			rankings[i].Rank = i + 1
		}
	}
	return rankings
}

func TopicsWithRanking(articles []content.Article) []string {
	rankings := GetTopicRankings(articles)
	topics := make([]string, 0, len(rankings)+1)
	topics = append(topics, AllFilter)
	for _, ranking := range rankings {
		topics = append(topics, ranking.Name)
	}
	return topics
}

func TopicCount(articles []content.Article, topic string) int {
	if topic == AllFilter {
		return len(articles)
	}
	return len(FilterArticlesByTopic(articles, topic))
}

// FilterArticlesByTopic matches topics case-sensitively. The All filter returns the input slice itself.
func FilterArticlesByTopic(articles []content.Article, topic string) []content.Article {
	if topic == AllFilter {
		return articles
	}
	filtered := make([]content.Article, 0)
	for _, article := range articles {
		if containsString(article.Topics, topic) {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

const AllTypes = "all"

func FilterArticlesByType(articles []content.Article, articleType string) []content.Article {
	if articleType == AllTypes || articleType == "" {
		return articles
	}
	filtered := make([]content.Article, 0)
	for _, article := range articles {
		if string(article.Type) == articleType {
			filtered = append(filtered, article)
		}
	}
	return filtered
}

// SortArticlesByDate returns a sorted copy.
func SortArticlesByDate(articles []content.Article, ascending bool) []content.Article {
	sorted := make([]content.Article, len(articles))
	copy(sorted, articles)
	content.SortByPublishedAt(sorted, ascending)
	return sorted
}

// SearchArticles matches the query against titles and topics, ignoring case.
func SearchArticles(articles []content.Article, query string) []content.Article {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return articles
	}
	found := make([]content.Article, 0)
	for _, article := range articles {
		if strings.Contains(strings.ToLower(article.Title), needle) || topicContains(article.Topics, needle) {
			found = append(found, article)
		}
	}
	return found
}

func topicContains(topics []string, needle string) bool {
	for _, topic := range topics {
		if strings.Contains(strings.ToLower(topic), needle) {
			return true
		}
	}
	return false
}

func containsString(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func lessFold(left string, right string) bool {
	lowerLeft, lowerRight := strings.ToLower(left), strings.ToLower(right)
	if lowerLeft != lowerRight {
		return lowerLeft < lowerRight
	}
	return left < right
}
