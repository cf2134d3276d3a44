package content

import (
	"context"
	"encoding/json"
	"fmt"
	log "github.com/sirupsen/logrus"
	"net/http"
	"net/url"
)

const (
	DefaultWorksEndpoint = "blog"
	DefaultWorksLimit    = 100
)

type MicroCmsSettings struct {
	BaseUrl       string
	ServiceDomain string
	ApiKey        string
	Endpoint      string
	Limit         int
}

type WorksResult struct {
	Contents []Work `json:"contents"`
	Error    string `json:"error,omitempty"`
}

type microCmsClient struct {
	httpClient *http.Client
	settings   MicroCmsSettings
}

func NewMicroCmsClient(httpClient *http.Client, settings MicroCmsSettings) *microCmsClient {
	if settings.BaseUrl == "" {
		settings.BaseUrl = fmt.Sprintf("https://%s.microcms.io", settings.ServiceDomain)
	}
	if settings.Endpoint == "" {
		settings.Endpoint = DefaultWorksEndpoint
	}
	if settings.Limit <= 0 || settings.Limit > DefaultWorksLimit {
		settings.Limit = DefaultWorksLimit
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &microCmsClient{
		httpClient: httpClient,
		settings:   settings,
	}
}

// FetchWorks never fails: the error is reported in the result next to an empty list.
func (client *microCmsClient) FetchWorks(ctx context.Context) WorksResult {
	works, err := client.LoadWorks(ctx)
	if err != nil {
		log.Errorf("Fetching works error. Reason: %v", err)
		return WorksResult{Contents: []Work{}, Error: "Failed to fetch works"}
	}
	return WorksResult{Contents: works}
}

func (client *microCmsClient) LoadWorks(ctx context.Context) ([]Work, error) {
	const stage = "Loading works error."

	requestUrl := fmt.Sprintf("%s/api/v1/%s?%s",
		client.settings.BaseUrl,
		url.PathEscape(client.settings.Endpoint),
		url.Values{"limit": {fmt.Sprint(client.settings.Limit)}}.Encode(),
	)
	req, err := http.NewRequestWithContext(ctx, "GET", requestUrl, nil)
	if err != nil {
		return nil, newErr(stage, err)
	}
	req.Header.Set("X-MICROCMS-API-KEY", client.settings.ApiKey)

	responseBody, err := performRequest(client.httpClient, req)
	if err != nil {
		return nil, newErr(stage, err)
	}

	var page struct {
		Contents   []RawWork `json:"contents"`
		TotalCount int       `json:"totalCount"`
	}
	if err := json.Unmarshal(responseBody, &page); err != nil {
		return nil, newErr(stage, err)
	}
	if page.TotalCount > len(page.Contents) {
		log.Warnf("Works list truncated. Received %v of %v", len(page.Contents), page.TotalCount)
	}

	works := make([]Work, 0, len(page.Contents))
	for _, raw := range page.Contents {
		works = append(works, NewWork(raw))
	}
	return works, nil
}
