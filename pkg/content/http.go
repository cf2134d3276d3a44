package content

import (
	"fmt"
	log "github.com/sirupsen/logrus"
	"io"
	"net/http"
)

func performRequest(client *http.Client, req *http.Request) ([]byte, error) {
	const stage = "Performing request error."

	resp, err := client.Do(req)
	if err != nil {
		return nil, newErr(stage, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newErr(stage, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newErr(stage, fmt.Sprintf("status %v. Body: %s", resp.StatusCode, responseBody))
	}
	log.Tracef("Got response body: %s", responseBody)
	return responseBody, nil
}

func newErr(stage string, reason interface{}) error {
	return fmt.Errorf("%v Reason: %v", stage, reason)
}
