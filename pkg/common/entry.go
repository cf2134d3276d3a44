package common

import (
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
	"net/http"
)

// ToHttpHandler roots a handler chain on a fresh log entry tagged with a request id.
func ToHttpHandler(handler RequestHandler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		entry := log.WithField("requestId", uuid.NewV4().String())
		handler.Handle(entry, writer, request)
	}
}
