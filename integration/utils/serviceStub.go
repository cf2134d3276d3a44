package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
)

// CreateServiceStub answers each request with the first mock registered for its path whose
// method, headers and body checks all pass. Several mocks may share a path.
func CreateServiceStub(mocks []RequestMock) *httptest.Server {
	mux := http.NewServeMux()

	byPattern := make(map[string][]RequestMock)
	order := make([]string, 0)
	for _, mock := range mocks {
		if _, found := byPattern[mock.Request.Url]; !found {
			order = append(order, mock.Request.Url)
		}
		byPattern[mock.Request.Url] = append(byPattern[mock.Request.Url], mock)
	}

	for _, pattern := range order {
		candidates := byPattern[pattern]
		mux.HandleFunc(pattern, func(writer http.ResponseWriter, request *http.Request) {
			body, err := io.ReadAll(request.Body)
			if err != nil {
				writer.WriteHeader(500)
				_, _ = fmt.Fprint(writer, "Reading body error: "+err.Error())
				return
			}

			mismatch := "No mock registered"
			for _, candidate := range candidates {
				if err := candidate.Request.match(request, body); err != nil {
					mismatch = err.Error()
					continue
				}
				candidate.Response.write(writer)
				return
			}
			writer.WriteHeader(400)
			_, _ = fmt.Fprint(writer, mismatch)
		})
	}

	return httptest.NewServer(mux)
}

type RequestMock struct {
	Request  Request
	Response Response
}

type Header struct {
	Name   string
	Regexp string
}

type Request struct {
	Method  string
	Url     string
	Headers []Header
	Body    []BodyCheck
}

func (expected Request) match(request *http.Request, body []byte) error {
	if request.Method != expected.Method {
		return fmt.Errorf("Request Method '%v' expected. Actual: '%v'.", expected.Method, request.Method)
	}
	for _, check := range expected.Headers {
		header := request.Header.Get(check.Name)
		matched, err := regexp.MatchString(check.Regexp, header)
		if err != nil {
			return fmt.Errorf("Parsing header regexp error: %v. Detail: %v", check.Regexp, err)
		}
		if !matched {
			return fmt.Errorf("Header not matched regexp. Header: %v. Regexp: %v", header, check.Regexp)
		}
	}
	for _, check := range expected.Body {
		if err := check.checkBody(body, request); err != nil {
			return fmt.Errorf("Body not match: %v", err)
		}
	}
	return nil
}

type BodyCheck interface {
	checkBody([]byte, *http.Request) error
}

// JsonPropsBody checks top level string properties of a json body.
type JsonPropsBody struct {
	Props map[string]string
}

func (check JsonPropsBody) checkBody(body []byte, _ *http.Request) error {
	values := make(map[string]interface{})
	if err := json.Unmarshal(body, &values); err != nil {
		return fmt.Errorf("parsing json body error. %v", err.Error())
	}
	for key, value := range check.Props {
		if fmt.Sprint(values[key]) != value {
			return fmt.Errorf("property %v=%v not match with expected: %v", key, values[key], value)
		}
	}
	return nil
}

type StringedBody interface {
	getString() ([]byte, error)
}

type Response struct {
	Status  int
	Headers map[string]string
	Body    StringedBody
}

func (response Response) write(writer http.ResponseWriter) {
	var bodyBytes []byte
	if response.Body != nil {
		var err error
		bodyBytes, err = response.Body.getString()
		if err != nil {
			writer.WriteHeader(500)
			_, _ = fmt.Fprint(writer, "Writing body error: "+err.Error())
			return
		}
	}
	for header, value := range response.Headers {
		writer.Header().Add(header, value)
	}
	writer.WriteHeader(response.Status)
	_, _ = writer.Write(bodyBytes)
}

type JsonMap map[string]interface{}

func (s JsonMap) getString() ([]byte, error) {
	return json.Marshal(s)
}

type RawBody string

func (s RawBody) getString() ([]byte, error) {
	return []byte(s), nil
}
