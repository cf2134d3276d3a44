package common

import (
	"encoding/json"
	"github.com/sirupsen/logrus"
	"net/http"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func WriteJson(log *logrus.Entry, writer http.ResponseWriter, status int, body interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Errorf("Encoding response body error. Reason: %v", err)
		writer.WriteHeader(500)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	if _, err := writer.Write(payload); err != nil {
		log.Debugf("Writing response body error. Reason: %v", err)
	}
}

func WriteError(log *logrus.Entry, writer http.ResponseWriter, status int, message string) {
	WriteJson(log, writer, status, ErrorBody{Error: message})
}
