package content

import (
	"bytes"
	"fmt"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
	"strings"
	"time"
)

type ArticleType string

const (
	Tech ArticleType = "tech"
	Idea ArticleType = "idea"
)

const (
	DefaultTitle = "Untitled"
	DefaultEmoji = "📝"
)

type Article struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	Emoji       string      `json:"emoji"`
	Type        ArticleType `json:"type"`
	Topics      []string    `json:"topics"`
	Published   bool        `json:"published"`
	PublishedAt string      `json:"published_at"`
}

type FrontMatter map[string]interface{}

// NewArticle is the only place article defaults are applied.
func NewArticle(slug string, frontMatter FrontMatter) Article {
	article := Article{
		Slug:        slug,
		Title:       DefaultTitle,
		Emoji:       DefaultEmoji,
		Type:        Tech,
		Topics:      []string{},
		Published:   true,
		PublishedAt: "",
	}

	if title := strings.TrimSpace(cast.ToString(frontMatter["title"])); title != "" {
		article.Title = title
	}
	if emoji := strings.TrimSpace(cast.ToString(frontMatter["emoji"])); emoji != "" {
		article.Emoji = emoji
	}
	switch ArticleType(cast.ToString(frontMatter["type"])) {
	case Idea:
		article.Type = Idea
	default:
		article.Type = Tech
	}
	if topics, err := cast.ToStringSliceE(frontMatter["topics"]); err == nil && topics != nil {
		article.Topics = topics
	}
	if published, ok := frontMatter["published"].(bool); ok {
		article.Published = published
	}
	article.PublishedAt = dateString(frontMatter["published_at"])
	return article
}

func dateString(value interface{}) string {
	switch date := value.(type) {
	case nil:
		return ""
	case time.Time:
		return date.Format(time.RFC3339)
	default:
		return strings.TrimSpace(cast.ToString(date))
	}
}

var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02",
}

// PublishedTime returns the zero time when published_at is empty or not a known layout.
func (article *Article) PublishedTime() time.Time {
	if article.PublishedAt == "" {
		return time.Time{}
	}
	for _, layout := range publishedAtLayouts {
		if parsed, err := time.Parse(layout, article.PublishedAt); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// Front matter

var frontMatterDelimiter = []byte("---")

// ParseFrontMatter decodes the YAML header of a Markdown document.
// A document without a header yields an empty front matter.
func ParseFrontMatter(text string) (FrontMatter, error) {
	source := bytes.TrimPrefix([]byte(text), []byte("\ufeff"))
	source = bytes.ReplaceAll(source, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(source, frontMatterDelimiter) {
		return FrontMatter{}, nil
	}
	firstLineEnd := bytes.IndexByte(source, '\n')
	if firstLineEnd < 0 || len(bytes.TrimSpace(source[:firstLineEnd])) != len(frontMatterDelimiter) {
		return FrontMatter{}, nil
	}

	body := source[firstLineEnd+1:]
	header, found := splitHeader(body)
	if !found {
		return nil, fmt.Errorf("front matter is not closed")
	}

	raw := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(header, &raw); err != nil {
		return nil, fmt.Errorf("decoding front matter error. Reason: %v", err)
	}
	frontMatter := make(FrontMatter, len(raw))
	for key, value := range raw {
		frontMatter[cast.ToString(key)] = value
	}
	return frontMatter, nil
}

func splitHeader(body []byte) ([]byte, bool) {
	offset := 0
	for offset <= len(body) {
		lineEnd := bytes.IndexByte(body[offset:], '\n')
		var line []byte
		if lineEnd < 0 {
			line = body[offset:]
		} else {
			line = body[offset : offset+lineEnd]
		}
		if bytes.Equal(bytes.TrimRight(line, " \t"), frontMatterDelimiter) {
			return body[:offset], true
		}
		if lineEnd < 0 {
			break
		}
		offset += lineEnd + 1
	}
	return nil, false
}
