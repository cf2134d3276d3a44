package integration_test

import (
	"bytes"
	"encoding/json"
	. "github.com/onsi/ginkgo"
	"golang.org/x/net/publicsuffix"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
)

func unmarshalToMap(message []byte) map[string]string {
	messageMap := make(map[string]string)
	if err := json.Unmarshal(message, &messageMap); err != nil {
		Fail(err.Error())
	}
	return messageMap
}

func get(url string) (*http.Response, []byte) {
	return getByClient(buildClient(), url)
}

func getByClient(client *http.Client, url string) (*http.Response, []byte) {
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		Fail(err.Error())
	}
	return doByClient(client, request)
}

func deleteByClient(client *http.Client, url string) (*http.Response, []byte) {
	request, err := http.NewRequest("DELETE", url, nil)
	if err != nil {
		Fail(err.Error())
	}
	return doByClient(client, request)
}

type requestMutator func(r *http.Request) *http.Request

func postJsonByClient(client *http.Client, url string, body interface{}, mutator requestMutator) (*http.Response, []byte) {
	bytesValue, err := json.Marshal(body)
	if err != nil {
		Fail(err.Error())
	}
	request, err := http.NewRequest("POST", url, bytes.NewReader(bytesValue))
	if err != nil {
		Fail(err.Error())
	}
	request.Header.Set("Content-Type", "application/json")
	if mutator != nil {
		request = mutator(request)
	}
	return doByClient(client, request)
}

func doByClient(client *http.Client, request *http.Request) (*http.Response, []byte) {
	resp, err := client.Do(request)
	if err != nil {
		Fail(err.Error())
	}
	message, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		Fail(err.Error())
	}
	return resp, message
}

func buildClient() *http.Client {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		log.Fatal(err)
	}
	return &http.Client{Jar: jar}
}

// noRedirectClient shares the cookie jar of client but hands redirects back to the caller.
func noRedirectClient(client *http.Client) *http.Client {
	return &http.Client{
		Jar: client.Jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
