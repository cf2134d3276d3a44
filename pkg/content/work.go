package content

import (
	"github.com/spf13/cast"
	"golang.org/x/net/html"
	"io"
	"strings"
	"unicode/utf8"
)

type Image struct {
	Url    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Tag struct {
	Id  string `json:"id"`
	Tag string `json:"tag"`
}

type Category struct {
	Id         string `json:"id"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Displaynum *int   `json:"displaynum,omitempty"`
}

type Work struct {
	Id       string     `json:"id"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Image    *Image     `json:"image,omitempty"`
	Images   []Image    `json:"images"`
	Tags     []Tag      `json:"tags"`
	Category []Category `json:"category"`
	Url      string     `json:"url,omitempty"`
}

// RawWork is a CMS record as delivered, before defaults.
type RawWork struct {
	Id       string                   `json:"id"`
	Title    string                   `json:"title"`
	Body     string                   `json:"body"`
	Image    *Image                   `json:"image"`
	Images   []*Image                 `json:"images"`
	Tags     []*Tag                   `json:"tags"`
	Category []map[string]interface{} `json:"category"`
	Url      string                   `json:"url"`
}

// NewWork is the only place work defaults are applied.
func NewWork(raw RawWork) Work {
	work := Work{
		Id:       raw.Id,
		Title:    strings.TrimSpace(raw.Title),
		Body:     raw.Body,
		Images:   []Image{},
		Tags:     []Tag{},
		Category: []Category{},
		Url:      strings.TrimSpace(raw.Url),
	}
	if raw.Image != nil && raw.Image.Url != "" {
		image := *raw.Image
		work.Image = &image
	}
	for _, image := range raw.Images {
		if image != nil && image.Url != "" {
			work.Images = append(work.Images, *image)
		}
	}
	for _, tag := range raw.Tags {
		if tag != nil && tag.Tag != "" {
			work.Tags = append(work.Tags, *tag)
		}
	}
	for _, fields := range raw.Category {
		category := Category{
			Id:    cast.ToString(fields["id"]),
			Title: cast.ToString(fields["title"]),
			Slug:  cast.ToString(fields["slug"]),
		}
		if category.Title == "" {
			continue
		}
		if value, found := fields["displaynum"]; found && value != nil {
			if displaynum, err := cast.ToIntE(value); err == nil {
				category.Displaynum = &displaynum
			}
		}
		work.Category = append(work.Category, category)
	}
	return work
}

// Excerpt returns the visible text of the HTML body, whitespace collapsed and cut to maxRunes.
func Excerpt(work *Work, maxRunes int) string {
	tokenizer := html.NewTokenizer(strings.NewReader(work.Body))
	var builder strings.Builder
	skipDepth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() != io.EOF {
				return ""
			}
			return truncateRunes(strings.Join(strings.Fields(builder.String()), " "), maxRunes)
		case html.StartTagToken:
			if isHiddenElement(tokenizer) {
				skipDepth++
			}
		case html.EndTagToken:
			if skipDepth > 0 && isHiddenElement(tokenizer) {
				skipDepth--
			}
			builder.WriteByte(' ')
		case html.TextToken:
			if skipDepth == 0 {
				builder.Write(tokenizer.Text())
			}
		}
	}
}

func isHiddenElement(tokenizer *html.Tokenizer) bool {
	name, _ := tokenizer.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

func truncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}
