package content

import (
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewArticleDefaults(t *testing.T) {
	article := NewArticle("empty", FrontMatter{})

	expected := Article{
		Slug:        "empty",
		Title:       "Untitled",
		Emoji:       "📝",
		Type:        Tech,
		Topics:      []string{},
		Published:   true,
		PublishedAt: "",
	}
	if diff := cmp.Diff(expected, article); diff != "" {
		t.Fatalf("Unexpected article (-want +got):\n%s", diff)
	}
}

func TestNewArticleFromFrontMatter(t *testing.T) {
	frontMatter, err := ParseFrontMatter(`---
title: "Go で書く認証ゲート"
emoji: "🔐"
type: "idea"
topics: ["go", "cognito"]
published: true
published_at: 2024-03-01 09:30
---

body text
`)
	assert.Nil(t, err)

	article := NewArticle("auth-gate", frontMatter)

	assert.Equal(t, "Go で書く認証ゲート", article.Title)
	assert.Equal(t, "🔐", article.Emoji)
	assert.Equal(t, Idea, article.Type)
	assert.Equal(t, []string{"go", "cognito"}, article.Topics)
	assert.True(t, article.Published)
	assert.Equal(t, "2024-03-01 09:30", article.PublishedAt)
	assert.Equal(t, 2024, article.PublishedTime().Year())
}

func TestNewArticlePublishedFlag(t *testing.T) {
	missing := NewArticle("a", FrontMatter{"title": "x"})
	assert.True(t, missing.Published)

	explicitFalse := NewArticle("b", FrontMatter{"published": false})
	assert.False(t, explicitFalse.Published)

	for _, value := range []interface{}{"false", "0", 0, "f"} {
		assert.True(t, NewArticle("c", FrontMatter{"published": value}).Published, "%v", value)
	}

	garbage := NewArticle("d", FrontMatter{"published": "maybe"})
	assert.True(t, garbage.Published)
}

func TestNewArticleUnknownTypeIsTech(t *testing.T) {
	assert.Equal(t, Tech, NewArticle("a", FrontMatter{"type": "diary"}).Type)
}

func TestParseFrontMatterWithoutHeader(t *testing.T) {
	frontMatter, err := ParseFrontMatter("# Just markdown\n")
	assert.Nil(t, err)
	assert.Empty(t, frontMatter)
}

func TestParseFrontMatterUnclosed(t *testing.T) {
	_, err := ParseFrontMatter("---\ntitle: x\n")
	assert.NotNil(t, err)
}

func TestParseFrontMatterInvalidYaml(t *testing.T) {
	_, err := ParseFrontMatter("---\ntitle: [unclosed\n---\n")
	assert.NotNil(t, err)
}

func TestParseFrontMatterCRLF(t *testing.T) {
	frontMatter, err := ParseFrontMatter("---\r\ntitle: windows\r\n---\r\nbody")
	assert.Nil(t, err)
	assert.Equal(t, "windows", frontMatter["title"])
}

func TestPublishedTimeLayouts(t *testing.T) {
	for _, value := range []string{"2024-03-01T09:30:00+09:00", "2024-03-01 09:30:00", "2024-03-01 09:30", "2024-03-01", "2024/03/01"} {
		article := Article{PublishedAt: value}
		assert.Equal(t, 2024, article.PublishedTime().Year(), value)
	}
	unreadable := Article{PublishedAt: "yesterday"}
	assert.True(t, unreadable.PublishedTime().IsZero())
}
