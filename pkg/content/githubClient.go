package content

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const DefaultGithubGraphqlUrl = "https://api.github.com/graphql"

type GithubSettings struct {
	GraphqlUrl           string
	Token                string
	Owner                string
	Name                 string
	ArticlesExpression   string
	TagMappingExpression string
}

type TreeObject struct {
	Text *string `json:"text"`
}

type TreeEntry struct {
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Object *TreeObject `json:"object"`
}

func NewBlobEntry(name string, text string) TreeEntry {
	return TreeEntry{Name: name, Type: "blob", Object: &TreeObject{Text: &text}}
}

func (entry *TreeEntry) Text() string {
	if entry.Object == nil || entry.Object.Text == nil {
		return ""
	}
	return *entry.Object.Text
}

type ArticleTree struct {
	Entries        []TreeEntry
	TagMappingText string
	HasTagMapping  bool
}

type githubClient struct {
	httpClient *http.Client
	settings   GithubSettings
}

func NewGithubClient(httpClient *http.Client, settings GithubSettings) *githubClient {
	if settings.GraphqlUrl == "" {
		settings.GraphqlUrl = DefaultGithubGraphqlUrl
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &githubClient{
		httpClient: httpClient,
		settings:   settings,
	}
}

const articleTreeQuery = `
query($owner: String!, $name: String!, $articles: String!, $mapping: String!) {
  repository(owner: $owner, name: $name) {
    object(expression: $articles) {
      ... on Tree {
        entries {
          name
          type
          object {
            ... on Blob {
              text
            }
          }
        }
      }
    }
    tagMappingFile: object(expression: $mapping) {
      ... on Blob {
        text
      }
    }
  }
}`

const tagMappingQuery = `
query($owner: String!, $name: String!, $mapping: String!) {
  repository(owner: $owner, name: $name) {
    tagMappingFile: object(expression: $mapping) {
      ... on Blob {
        text
      }
    }
  }
}`

type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

type graphqlResponse struct {
	Data *struct {
		Repository *struct {
			Object *struct {
				Entries []TreeEntry `json:"entries"`
			} `json:"object"`
			TagMappingFile *TreeObject `json:"tagMappingFile"`
		} `json:"repository"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// FetchArticleTree reads the article directory and the tag mapping blob in one round trip.
func (client *githubClient) FetchArticleTree(ctx context.Context) (*ArticleTree, error) {
	const stage = "Fetching article tree error."

	response, err := client.query(ctx, articleTreeQuery, map[string]string{
		"owner":    client.settings.Owner,
		"name":     client.settings.Name,
		"articles": client.settings.ArticlesExpression,
		"mapping":  client.settings.TagMappingExpression,
	})
	if err != nil {
		return nil, newErr(stage, err)
	}

	tree := &ArticleTree{Entries: []TreeEntry{}}
	if response.Data == nil || response.Data.Repository == nil {
		return tree, nil
	}
	repository := response.Data.Repository
	if repository.Object != nil && repository.Object.Entries != nil {
		tree.Entries = repository.Object.Entries
	}
	if repository.TagMappingFile != nil && repository.TagMappingFile.Text != nil {
		tree.TagMappingText = *repository.TagMappingFile.Text
		tree.HasTagMapping = true
	}
	return tree, nil
}

func (client *githubClient) LoadTagMapping(ctx context.Context) (TagMapping, error) {
	const stage = "Loading tag mapping error."

	response, err := client.query(ctx, tagMappingQuery, map[string]string{
		"owner":   client.settings.Owner,
		"name":    client.settings.Name,
		"mapping": client.settings.TagMappingExpression,
	})
	if err != nil {
		return nil, newErr(stage, err)
	}
	if response.Data == nil || response.Data.Repository == nil ||
		response.Data.Repository.TagMappingFile == nil || response.Data.Repository.TagMappingFile.Text == nil {
		return nil, newErr(stage, "tag mapping file not found")
	}

	mapping, err := ParseTagMapping(*response.Data.Repository.TagMappingFile.Text)
	if err != nil {
		return nil, newErr(stage, err)
	}
	return mapping, nil
}

func (client *githubClient) query(ctx context.Context, query string, variables map[string]string) (*graphqlResponse, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", client.settings.GraphqlUrl, bytes.NewReader(payload))
	if err != nil {
		return nil, newErr("Building request error.", err)
	}
	req.Header.Set("Authorization", "Bearer "+client.settings.Token)
	req.Header.Set("Content-Type", "application/json")

	responseBody, err := performRequest(client.httpClient, req)
	if err != nil {
		return nil, err
	}

	var response graphqlResponse
	if err := json.Unmarshal(responseBody, &response); err != nil {
		return nil, newErr("Decoding graphql response error.", err)
	}
	if len(response.Errors) > 0 {
		messages := make([]string, 0, len(response.Errors))
		for _, graphqlErr := range response.Errors {
			messages = append(messages, graphqlErr.Message)
		}
		return nil, newErr("Graphql error.", strings.Join(messages, "; "))
	}
	return &response, nil
}
